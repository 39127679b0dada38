package frontend

import (
	goast "go/ast"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/conduit-lang/propkit/internal/compiler/ast"
)

const (
	getterPrefix = "Get"
	setterPrefix = "Set"
	beforeSet    = "eforeSet"
	afterSet     = "fterSet"
)

// isGetter reports whether fn takes no parameters and returns one value
func isGetter(fn *goast.FuncDecl) bool {
	return fn.Type.Params.NumFields() == 0 &&
		fn.Type.Results != nil && fn.Type.Results.NumFields() == 1
}

// isSetter reports whether fn takes one parameter and returns nothing
func isSetter(fn *goast.FuncDecl) bool {
	return fn.Type.Params.NumFields() == 1 &&
		(fn.Type.Results == nil || fn.Type.Results.NumFields() == 0)
}

// setterName returns the setter paired with a getter: Width → SetWidth, GetWidth → SetWidth
func setterName(getter string) string {
	return setterPrefix + strings.TrimPrefix(getter, getterPrefix)
}

func hasSetter(methods []*goast.FuncDecl, getter string) bool {
	want := setterName(getter)
	for _, fn := range methods {
		if fn.Name.Name == want && isSetter(fn) {
			return true
		}
	}
	return false
}

// observerTarget parses beforeSet<Field> and afterSet<Field> method names.
// The first letter of the prefix is case-insensitive.
func observerTarget(name string) (ast.AccessorKind, string, bool) {
	if len(name) < 2 {
		return 0, "", false
	}
	first, rest := unicode.ToLower(rune(name[0])), name[1:]

	var kind ast.AccessorKind
	var target string
	switch {
	case first == 'b' && strings.HasPrefix(rest, beforeSet):
		kind, target = ast.AccessorWillSet, rest[len(beforeSet):]
	case first == 'a' && strings.HasPrefix(rest, afterSet):
		kind, target = ast.AccessorDidSet, rest[len(afterSet):]
	default:
		return 0, "", false
	}
	if target == "" {
		return 0, "", false
	}
	return kind, target, true
}

// foldFirst lowercases the first rune so Width and width share a key
func foldFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
