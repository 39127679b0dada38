package analysis

import (
	"github.com/conduit-lang/propkit/internal/compiler/ast"
	"github.com/conduit-lang/propkit/internal/compiler/errors"
)

// ScannedMember is an eligible member paired with its resolved identifier
type ScannedMember struct {
	Member     *ast.MemberDecl
	Annotation *ast.PropertyAnnotation
	ID         Identifier
}

// Scan walks decl's members in declaration order and returns those carrying
// a usable property annotation. Type-level members and unannotated members are
// skipped silently; everything else that is excluded is reported on r.
func Scan(decl *ast.TypeDecl, r *errors.Reporter) []ScannedMember {
	var out []ScannedMember

	for _, m := range decl.Members {
		if m.TypeLevel {
			continue
		}

		props := m.Properties()
		if len(props) == 0 {
			continue
		}
		for _, extra := range props[1:] {
			r.Report(errors.NewRedundantMemberAnnotation(extra, m.Name))
		}
		annotation := props[0]

		if m.Kind == ast.MemberMethod && !m.Accessors.Has(ast.AccessorGetter) {
			r.Report(errors.NewInvalidAccessor(annotation, m.Name))
			continue
		}

		id, err := ResolveIdentifier(annotation.Argument)
		if err != nil {
			r.Report(errors.NewMalformedMemberAnnotation(annotation, m.Name, err.Error()))
			continue
		}

		out = append(out, ScannedMember{Member: m, Annotation: annotation, ID: id})
	}

	return out
}
