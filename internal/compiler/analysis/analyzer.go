package analysis

import (
	"github.com/conduit-lang/propkit/internal/compiler/ast"
	"github.com/conduit-lang/propkit/internal/compiler/errors"
	"github.com/conduit-lang/propkit/internal/compiler/typekind"
)

// Result is the outcome of analyzing one declaration
type Result struct {
	Decl *ast.TypeDecl
	// Container is nil when emission was aborted for the type
	Container *Container
	// Registry is nil when emission was aborted for the type
	Registry    *Registry
	Diagnostics errors.List
}

// Emittable reports whether declarations should be synthesized for the type
func (r *Result) Emittable() bool {
	return r.Container != nil && r.Registry != nil
}

// Analyzer runs analysis passes with a fixed type-kind classifier
type Analyzer struct {
	classifier *typekind.Classifier
}

// New creates an analyzer. A nil classifier uses the default qualifiers.
func New(classifier *typekind.Classifier) *Analyzer {
	if classifier == nil {
		classifier = typekind.Default()
	}
	return &Analyzer{classifier: classifier}
}

// Analyze runs one pass over decl. It never fails: problems are returned
// as diagnostics alongside whatever output could be produced.
func (a *Analyzer) Analyze(decl *ast.TypeDecl) *Result {
	reporter := errors.NewReporter(decl.Name)
	result := &Result{Decl: decl}

	container, ok := a.container(decl, reporter)
	if !ok {
		result.Diagnostics = reporter.Diagnostics()
		return result
	}

	registry := NewRegistry()
	dups := newDuplicateDetector()
	for _, s := range Scan(decl, reporter) {
		if !dups.admit(s, reporter) {
			continue
		}
		// admit guarantees the key is new
		_ = registry.Add(a.describe(decl, s))
	}

	result.Container = container
	result.Registry = registry
	result.Diagnostics = reporter.Diagnostics()
	return result
}

// container validates the declaration shape and resolves its container id
func (a *Analyzer) container(decl *ast.TypeDecl, r *errors.Reporter) (*Container, bool) {
	annotation := decl.Container()

	var node ast.Node = decl
	if annotation != nil {
		node = annotation
	}

	switch {
	case !decl.Struct:
		r.Report(errors.NewUnsupportedDeclaration(node, decl.Name, "only struct types are supported"))
		return nil, false
	case decl.Generic:
		r.Report(errors.NewUnsupportedDeclaration(node, decl.Name, "generic types are not supported"))
		return nil, false
	case annotation == nil:
		r.Report(errors.NewMissingContainerID(node, decl.Name, "no container annotation"))
		return nil, false
	}

	id, err := ResolveIdentifier(annotation.Argument)
	if err != nil {
		r.Report(errors.NewMissingContainerID(node, decl.Name, err.Error()))
		return nil, false
	}

	return &Container{ID: id, Name: decl.Name}, true
}

func (a *Analyzer) describe(decl *ast.TypeDecl, s ScannedMember) *PropertyDescriptor {
	source, access := ClassifyStorage(s.Member.Mutable, s.Member.Accessors)
	return &PropertyDescriptor{
		ID:         s.ID,
		Name:       s.Member.Name,
		Source:     source,
		Access:     access,
		Kind:       a.classifier.ClassifyIn(s.Member.Type, decl.Imports),
		Ref:        MemberRef{Member: s.Member.Name, Kind: s.Member.Kind},
		Type:       s.Member.Type,
		Annotation: s.Annotation,
	}
}

// Analyze runs a pass with the default classifier
func Analyze(decl *ast.TypeDecl) *Result {
	return New(nil).Analyze(decl)
}
