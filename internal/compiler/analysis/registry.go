package analysis

import (
	"fmt"

	"github.com/conduit-lang/propkit/internal/compiler/ast"
	"github.com/conduit-lang/propkit/runtime/property"
)

// MemberRef identifies the member a descriptor was derived from.
// It is a lookup key, not an ownership edge.
type MemberRef struct {
	Member string
	Kind   ast.MemberKind
}

// PropertyDescriptor describes one registered member
type PropertyDescriptor struct {
	ID     Identifier
	Name   string
	Source property.ValueSource
	Access property.Access
	Kind   property.ValueKind
	Ref    MemberRef
	// Type is the member's spelled type text
	Type string
	// Annotation is the directive the descriptor came from
	Annotation *ast.PropertyAnnotation
}

// Container holds the container-level metadata of a declaration
type Container struct {
	ID   Identifier
	Name string
}

// Registry is an ordered canonical key → descriptor mapping.
type Registry struct {
	order []*PropertyDescriptor
	byKey map[string]*PropertyDescriptor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]*PropertyDescriptor)}
}

// Add appends d. A key that is already present is rejected.
func (r *Registry) Add(d *PropertyDescriptor) error {
	if _, exists := r.byKey[d.ID.Key]; exists {
		return fmt.Errorf("property id %q already registered", d.ID.Key)
	}
	r.order = append(r.order, d)
	r.byKey[d.ID.Key] = d
	return nil
}

// Len returns the number of descriptors
func (r *Registry) Len() int {
	return len(r.order)
}

// Lookup returns the descriptor for a canonical key
func (r *Registry) Lookup(key string) (*PropertyDescriptor, bool) {
	d, ok := r.byKey[key]
	return d, ok
}

// Keys returns canonical keys in insertion order
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.order))
	for i, d := range r.order {
		keys[i] = d.ID.Key
	}
	return keys
}

// Descriptors returns descriptors in insertion order
func (r *Registry) Descriptors() []*PropertyDescriptor {
	out := make([]*PropertyDescriptor, len(r.order))
	copy(out, r.order)
	return out
}
