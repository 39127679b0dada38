// Package ast defines the declaration tree propkit analyzes.
// It is a small ownership tree built by the frontend from Go syntax: a type
// declaration owns its members, and members own their annotations.
package ast

import (
	"fmt"
	goast "go/ast"
	"strings"
)

// SourceLocation tracks the position of a node in source code
type SourceLocation struct {
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
	Line   int    `json:"line" yaml:"line"`     // Line number (1-indexed)
	Column int    `json:"column" yaml:"column"` // Column number (1-indexed)
	Offset int    `json:"-" yaml:"-"`           // Byte offset (0-indexed)
}

// IsValid reports whether the location points into a file
func (l SourceLocation) IsValid() bool {
	return l.Line > 0
}

// String renders file:line:column, omitting the file when unknown
func (l SourceLocation) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Node is the base interface for all tree nodes
type Node interface {
	Location() SourceLocation
	End() SourceLocation
	node()
}

// TypeDecl is an annotated struct type under analysis
type TypeDecl struct {
	Name    string
	Package string // package name
	PkgPath string // import path, empty when unknown
	Members []*MemberDecl
	// Annotations holds container-level directives in source order
	Annotations []Annotation
	// Imports maps a file-local package name to its import path
	Imports map[string]string
	// Struct is false for non-struct type declarations
	Struct bool
	// Generic is true when the type declares type parameters
	Generic bool
	Loc     SourceLocation
	EndLoc  SourceLocation
	// Syntax is the originating Go node, nil for hand-built trees
	Syntax goast.Node
}

func (t *TypeDecl) node() {}

// Location returns the source location of the type declaration.
func (t *TypeDecl) Location() SourceLocation { return t.Loc }

// End returns the end position of the type declaration.
func (t *TypeDecl) End() SourceLocation { return endOr(t.EndLoc, t.Loc) }

// Container returns the first container annotation, or nil when absent.
func (t *TypeDecl) Container() *ContainerAnnotation {
	for _, a := range t.Annotations {
		if c, ok := a.(*ContainerAnnotation); ok {
			return c
		}
	}
	return nil
}

// Member returns the member with the given name, or nil.
func (t *TypeDecl) Member(name string) *MemberDecl {
	for _, m := range t.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MemberKind distinguishes struct fields from methods
type MemberKind int

const (
	// MemberField is a struct field
	MemberField MemberKind = iota
	// MemberMethod is a method declared on the type
	MemberMethod
)

// String returns "field" or "method"
func (k MemberKind) String() string {
	if k == MemberMethod {
		return "method"
	}
	return "field"
}

// MemberDecl is one data member of a TypeDecl
type MemberDecl struct {
	Name string
	// Type is the spelled type text, e.g. "*geom.Point"
	Type string
	// Mutable is false for immutable bindings
	Mutable   bool
	Accessors AccessorSet
	// TypeLevel marks members that are not per-instance data, such as blank fields
	TypeLevel   bool
	Kind        MemberKind
	Annotations []Annotation
	Loc         SourceLocation
	EndLoc      SourceLocation
	Syntax      goast.Node
}

func (m *MemberDecl) node() {}

// Location returns the source location of the member.
func (m *MemberDecl) Location() SourceLocation { return m.Loc }

// End returns the end position of the member.
func (m *MemberDecl) End() SourceLocation { return endOr(m.EndLoc, m.Loc) }

// Properties returns the member's property annotations in source order.
func (m *MemberDecl) Properties() []*PropertyAnnotation {
	var out []*PropertyAnnotation
	for _, a := range m.Annotations {
		if p, ok := a.(*PropertyAnnotation); ok {
			out = append(out, p)
		}
	}
	return out
}

// AccessorKind is a single accessor flavor
type AccessorKind uint8

const (
	AccessorGetter AccessorKind = 1 << iota
	AccessorSetter
	AccessorWillSet
	AccessorDidSet
)

// AccessorSet is the set of accessor kinds attached to a member
type AccessorSet uint8

// NewAccessorSet builds a set from kinds
func NewAccessorSet(kinds ...AccessorKind) AccessorSet {
	var s AccessorSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// Has reports whether k is in the set
func (s AccessorSet) Has(k AccessorKind) bool { return s&AccessorSet(k) != 0 }

// With returns the set plus k
func (s AccessorSet) With(k AccessorKind) AccessorSet { return s | AccessorSet(k) }

// IsEmpty reports whether no accessor is present
func (s AccessorSet) IsEmpty() bool { return s == 0 }

// String lists the kinds present, or "none"
func (s AccessorSet) String() string {
	if s.IsEmpty() {
		return "none"
	}
	var parts []string
	if s.Has(AccessorGetter) {
		parts = append(parts, "get")
	}
	if s.Has(AccessorSetter) {
		parts = append(parts, "set")
	}
	if s.Has(AccessorWillSet) {
		parts = append(parts, "willSet")
	}
	if s.Has(AccessorDidSet) {
		parts = append(parts, "didSet")
	}
	return strings.Join(parts, "+")
}

func endOr(end, start SourceLocation) SourceLocation {
	if end.IsValid() {
		return end
	}
	return start
}
