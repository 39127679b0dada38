package codegen

import (
	goast "go/ast"
	"go/types"

	"github.com/dave/jennifer/jen"
)

// exprCode converts an identifier expression into jennifer code. Selectors
// on an imported package name become qualified references; anything the
// converter does not model is written back as normalized source text.
func exprCode(expr goast.Expr, imports map[string]string) *jen.Statement {
	switch e := expr.(type) {
	case *goast.Ident:
		return jen.Id(e.Name)
	case *goast.BasicLit:
		return jen.Op(e.Value)
	case *goast.SelectorExpr:
		if x, ok := e.X.(*goast.Ident); ok {
			if path, ok := imports[x.Name]; ok {
				return jen.Qual(path, e.Sel.Name)
			}
		}
		return exprCode(e.X, imports).Dot(e.Sel.Name)
	case *goast.ParenExpr:
		return jen.Parens(exprCode(e.X, imports))
	case *goast.CallExpr:
		args := make([]jen.Code, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, exprCode(a, imports))
		}
		return exprCode(e.Fun, imports).Call(args...)
	case *goast.BinaryExpr:
		return exprCode(e.X, imports).Op(e.Op.String()).Add(exprCode(e.Y, imports))
	case *goast.UnaryExpr:
		return jen.Op(e.Op.String()).Add(exprCode(e.X, imports))
	default:
		return jen.Op(types.ExprString(expr))
	}
}
