package analysis

import (
	"github.com/conduit-lang/propkit/internal/compiler/ast"
	"github.com/conduit-lang/propkit/runtime/property"
)

// ClassifyStorage derives value source and access from a member's binding
// mutability and accessor set. Any getter makes the member computed; a
// setter without a getter counts as no accessors.
func ClassifyStorage(mutable bool, accessors ast.AccessorSet) (property.ValueSource, property.Access) {
	if accessors.Has(ast.AccessorGetter) {
		if accessors.Has(ast.AccessorSetter) {
			return property.Computed, property.ReadWrite
		}
		return property.Computed, property.ReadOnly
	}

	if mutable {
		return property.Stored, property.ReadWrite
	}
	return property.Stored, property.ReadOnly
}
