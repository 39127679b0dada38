package codegen

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/conduit-lang/propkit/internal/compiler/analysis"
	"github.com/conduit-lang/propkit/internal/compiler/ast"
	"github.com/conduit-lang/propkit/runtime/property"
)

// RuntimePackage is the import path generated code targets
const RuntimePackage = "github.com/conduit-lang/propkit/runtime/property"

// Header is the first line of every generated file
const Header = "Code generated by propkit. DO NOT EDIT."

// Generator renders emissions into Go source
type Generator struct {
	runtimePath string
}

// NewGenerator creates a new code generator
func NewGenerator() *Generator {
	return &Generator{runtimePath: RuntimePackage}
}

// GenerateFile renders every emission of one source file into a single Go
// file of package pkgName. Output is gofmt'd and deterministic.
func (g *Generator) GenerateFile(pkgName, pkgPath string, emissions []*Emission) ([]byte, error) {
	var f *jen.File
	if pkgPath != "" {
		f = jen.NewFilePathName(pkgPath, pkgName)
	} else {
		f = jen.NewFile(pkgName)
	}
	f.HeaderComment(Header)
	f.ImportName(g.runtimePath, "property")

	for _, e := range emissions {
		g.registerImports(f, e.Imports)
	}
	for i, e := range emissions {
		if i > 0 {
			f.Line()
		}
		g.emit(f, e)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render generated code: %w", err)
	}
	return buf.Bytes(), nil
}

// registerImports keeps the source file's package names for re-qualified ids
func (g *Generator) registerImports(f *jen.File, imports map[string]string) {
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f.ImportAlias(imports[name], name)
	}
}

func (g *Generator) emit(f *jen.File, e *Emission) {
	typ := e.TypeName

	f.Comment(fmt.Sprintf("%s is the property container id of %s.", e.ContainerIDName(), typ))
	f.Const().Id(e.ContainerIDName()).Op("=").Qual(g.runtimePath, "ID").Call(g.idCode(e.ContainerID, e.Imports))
	f.Line()

	f.Comment(fmt.Sprintf("%s is the display name of %s.", e.ContainerNameName(), typ))
	f.Const().Id(e.ContainerNameName()).Op("=").Lit(typ)
	f.Line()

	f.Comment(fmt.Sprintf("%s lists the properties of %s in declaration order.", e.RegistryName(), typ))
	f.Var().Id(e.RegistryName()).Op("=").Qual(g.runtimePath, "NewRegistry").CallFunc(func(grp *jen.Group) {
		for _, d := range e.Descriptors {
			grp.Line().Add(g.descriptor(typ, d, e.Imports))
		}
		if len(e.Descriptors) > 0 {
			grp.Line()
		}
	})
	f.Line()

	g.accessor(f, typ, "PropertyContainerID", jen.Qual(g.runtimePath, "ID"), e.ContainerIDName())
	g.accessor(f, typ, "PropertyContainerName", jen.String(), e.ContainerNameName())
	g.accessor(f, typ, "PropertyRegistry", jen.Op("*").Qual(g.runtimePath, "Registry"), e.RegistryName())

	f.Var().Id("_").Qual(g.runtimePath, "Container").Op("=").Parens(jen.Op("*").Id(typ)).Call(jen.Nil())
}

func (g *Generator) accessor(f *jen.File, typ, method string, result jen.Code, value string) {
	f.Func().Params(jen.Op("*").Id(typ)).Id(method).Params().Add(result).Block(
		jen.Return(jen.Id(value)),
	)
	f.Line()
}

// descriptor renders a property.Descriptor literal with fields in the fixed
// order ID, Name, Source, Access, Kind, Ref.
func (g *Generator) descriptor(typ string, d *analysis.PropertyDescriptor, imports map[string]string) jen.Code {
	return jen.Qual(g.runtimePath, "Descriptor").Values(
		jen.Line().Id("ID").Op(":").Qual(g.runtimePath, "ID").Call(g.idCode(d.ID, imports)),
		jen.Line().Id("Name").Op(":").Lit(d.Name),
		jen.Line().Id("Source").Op(":").Qual(g.runtimePath, sourceConst(d.Source)),
		jen.Line().Id("Access").Op(":").Qual(g.runtimePath, accessConst(d.Access)),
		jen.Line().Id("Kind").Op(":").Add(g.kind(d.Kind)),
		jen.Line().Id("Ref").Op(":").Add(g.ref(typ, d.Ref)),
		jen.Line(),
	)
}

func (g *Generator) kind(k property.ValueKind) jen.Code {
	if k.IsOther() {
		return jen.Qual(g.runtimePath, "Other").Call(jen.Lit(k.Text))
	}
	return jen.Qual(g.runtimePath, "Kind").Call(jen.Qual(g.runtimePath, kindConst(k.Tag)))
}

func (g *Generator) ref(typ string, r analysis.MemberRef) jen.Code {
	value := jen.Id("v").Assert(jen.Op("*").Id(typ)).Dot(r.Member)
	if r.Kind == ast.MemberMethod {
		value = value.Call()
	}

	items := []jen.Code{jen.Id("Member").Op(":").Lit(r.Member)}
	if r.Kind == ast.MemberMethod {
		items = append(items, jen.Id("Method").Op(":").True())
	}
	items = append(items, jen.Id("Get").Op(":").Func().Params(jen.Id("v").Id("any")).Id("any").Block(
		jen.Return(value),
	))

	return jen.Qual(g.runtimePath, "Ref").Values(items...)
}

// idCode re-emits an identifier argument from its parsed form. Literals keep
// their original spelling; package references are re-qualified so imports
// follow them.
func (g *Generator) idCode(id analysis.Identifier, imports map[string]string) jen.Code {
	if id.Syntax == nil {
		return jen.Op(id.Expr)
	}
	return exprCode(id.Syntax, imports)
}

func sourceConst(s property.ValueSource) string {
	if s == property.Computed {
		return "Computed"
	}
	return "Stored"
}

func accessConst(a property.Access) string {
	if a == property.ReadWrite {
		return "ReadWrite"
	}
	return "ReadOnly"
}

// kindConst maps a tag to its exported constant name, e.g. polarPointN → KindPolarPointN
func kindConst(tag property.KindTag) string {
	name := tag.String()
	return "Kind" + strings.ToUpper(name[:1]) + name[1:]
}
