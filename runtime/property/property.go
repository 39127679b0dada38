// Package property is the runtime surface targeted by propkit-generated code.
//
// Generated files declare an ordered Registry per annotated struct and assert
// that the struct satisfies Container. The package has no dependencies and
// performs no reflection.
package property

import "fmt"

// ID is an opaque, comparable property or container identifier.
type ID string

// Container is implemented by every struct that propkit generates metadata for.
type Container interface {
	PropertyContainerID() ID
	PropertyContainerName() string
	PropertyRegistry() *Registry
}

// ValueSource tells whether a property occupies storage or is computed.
type ValueSource int

const (
	// Stored properties are backed by a struct field
	Stored ValueSource = iota
	// Computed properties are produced by a getter method
	Computed
)

// String returns the wire name of the value source
func (s ValueSource) String() string {
	switch s {
	case Stored:
		return "stored"
	case Computed:
		return "computed"
	default:
		return fmt.Sprintf("ValueSource(%d)", int(s))
	}
}

// Access tells whether a property can be written.
type Access int

const (
	// ReadOnly properties expose no mutation path
	ReadOnly Access = iota
	// ReadWrite properties may be assigned
	ReadWrite
)

// String returns the wire name of the access kind
func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "readOnly"
	case ReadWrite:
		return "readWrite"
	default:
		return fmt.Sprintf("Access(%d)", int(a))
	}
}

// Ref points back at the struct member a descriptor was derived from.
type Ref struct {
	// Member is the Go field or method name
	Member string
	// Method is true when the member is a getter method
	Method bool
	// Get reads the current value from a pointer to the container
	Get func(container any) any
}

// Descriptor describes one registered property.
type Descriptor struct {
	ID     ID
	Name   string
	Source ValueSource
	Access Access
	Kind   ValueKind
	Ref    Ref
}

// Value reads the property from container through its back-reference.
// It returns nil when no getter was generated.
func (d Descriptor) Value(container any) any {
	if d.Ref.Get == nil {
		return nil
	}
	return d.Ref.Get(container)
}
