package ast

import (
	"strings"
	"unicode"
)

// DirectivePrefix starts every propkit comment directive.
const DirectivePrefix = "//propkit:"

// Directive names recognized after DirectivePrefix.
const (
	DirectiveContainer = "container"
	DirectiveProperty  = "property"
)

// Annotation is a recognized propkit directive. The set of implementations is
// closed: *ContainerAnnotation and *PropertyAnnotation.
type Annotation interface {
	Node
	// Raw returns the unparsed argument text
	Raw() string
	annotation()
}

// ContainerAnnotation carries the container-level identifier argument
type ContainerAnnotation struct {
	Argument string
	Loc      SourceLocation
	EndLoc   SourceLocation
}

func (a *ContainerAnnotation) node()       {}
func (a *ContainerAnnotation) annotation() {}

// Location returns the position of the directive comment.
func (a *ContainerAnnotation) Location() SourceLocation { return a.Loc }

// End returns the end of the directive comment.
func (a *ContainerAnnotation) End() SourceLocation { return endOr(a.EndLoc, a.Loc) }

// Raw returns the unparsed argument text.
func (a *ContainerAnnotation) Raw() string { return a.Argument }

// PropertyAnnotation carries a member-level identifier argument
type PropertyAnnotation struct {
	Argument string
	Loc      SourceLocation
	EndLoc   SourceLocation
}

func (a *PropertyAnnotation) node()       {}
func (a *PropertyAnnotation) annotation() {}

// Location returns the position of the directive comment.
func (a *PropertyAnnotation) Location() SourceLocation { return a.Loc }

// End returns the end of the directive comment.
func (a *PropertyAnnotation) End() SourceLocation { return endOr(a.EndLoc, a.Loc) }

// Raw returns the unparsed argument text.
func (a *PropertyAnnotation) Raw() string { return a.Argument }

// ParseDirective turns a raw comment line into an Annotation. It returns nil
// for comments that are not propkit directives and for unknown directive names.
func ParseDirective(comment string, loc, end SourceLocation) Annotation {
	rest, ok := strings.CutPrefix(comment, DirectivePrefix)
	if !ok {
		return nil
	}
	name, arg := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		name, arg = rest[:i], strings.TrimSpace(rest[i:])
	}

	switch name {
	case DirectiveContainer:
		return &ContainerAnnotation{Argument: arg, Loc: loc, EndLoc: end}
	case DirectiveProperty:
		return &PropertyAnnotation{Argument: arg, Loc: loc, EndLoc: end}
	default:
		return nil
	}
}
