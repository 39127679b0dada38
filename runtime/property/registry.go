package property

import "fmt"

// Registry is an ordered, immutable id → descriptor mapping.
// Iteration order equals the order descriptors were passed to NewRegistry.
type Registry struct {
	order []ID
	byID  map[ID]Descriptor
}

// NewRegistry builds a registry from descriptors in declaration order.
// Generated code never repeats an id; a repeat is a programming error and panics.
func NewRegistry(descriptors ...Descriptor) *Registry {
	r := &Registry{
		order: make([]ID, 0, len(descriptors)),
		byID:  make(map[ID]Descriptor, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, exists := r.byID[d.ID]; exists {
			panic(fmt.Sprintf("property: duplicate id %q for member %s", d.ID, d.Ref.Member))
		}
		r.order = append(r.order, d.ID)
		r.byID[d.ID] = d
	}
	return r
}

// Len returns the number of registered properties
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Lookup returns the descriptor registered under id
func (r *Registry) Lookup(id ID) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	d, ok := r.byID[id]
	return d, ok
}

// IDs returns the registered ids in declaration order
func (r *Registry) IDs() []ID {
	if r == nil {
		return nil
	}
	ids := make([]ID, len(r.order))
	copy(ids, r.order)
	return ids
}

// Descriptors returns the descriptors in declaration order
func (r *Registry) Descriptors() []Descriptor {
	if r == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Each calls fn for every descriptor in declaration order until fn returns false.
func (r *Registry) Each(fn func(Descriptor) bool) {
	if r == nil {
		return
	}
	for _, id := range r.order {
		if !fn(r.byID[id]) {
			return
		}
	}
}
