// Package analysis implements the single-pass semantic analysis of one
// annotated type declaration: member scanning, identifier resolution,
// duplicate detection and storage, access and value-kind classification.
//
// Every pass owns its state. Nothing is shared between declarations, so
// callers may analyze independent declarations concurrently.
package analysis

import (
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// Identifier is a resolved annotation argument.
type Identifier struct {
	// Key is the canonical comparison form: literal content, or normalized source text
	Key string
	// Expr is the argument as Go source, with comments and layout dropped.
	// Literals keep their original quoting.
	Expr string
	// Literal is true when the argument is a string literal
	Literal bool
	// Syntax is the parsed argument, used to re-qualify package references
	Syntax goast.Expr
}

// ResolveIdentifier parses raw as exactly one Go expression and derives its
// canonical key.
func ResolveIdentifier(raw string) (Identifier, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Identifier{}, fmt.Errorf("argument is empty")
	}

	expr, err := parser.ParseExpr(text)
	if err != nil {
		return Identifier{}, fmt.Errorf("argument %q does not parse: %w", text, err)
	}

	id := Identifier{Expr: types.ExprString(expr), Syntax: expr}
	if lit, ok := expr.(*goast.BasicLit); ok && lit.Kind == token.STRING {
		value, err := strconv.Unquote(lit.Value)
		if err != nil {
			return Identifier{}, fmt.Errorf("argument %s is not a valid string literal: %w", text, err)
		}
		id.Key = value
		id.Expr = lit.Value
		id.Literal = true
		return id, nil
	}

	id.Key = id.Expr
	return id, nil
}

// String returns the canonical key
func (id Identifier) String() string {
	return id.Key
}
