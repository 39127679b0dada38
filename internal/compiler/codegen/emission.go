// Package codegen synthesizes the Go declarations that expose a type's
// property registry. Build turns an analysis result into an Emission, a pure
// description of what to generate; Generator renders emissions to a gofmt'd
// Go file with jennifer.
package codegen

import (
	"github.com/conduit-lang/propkit/internal/compiler/analysis"
)

// Emission describes the declarations synthesized for one container type
type Emission struct {
	TypeName    string
	ContainerID analysis.Identifier
	// Descriptors are ordered as the registry, duplicate-free
	Descriptors []*analysis.PropertyDescriptor
	// Imports maps source-file package names to import paths
	Imports map[string]string
}

// Build returns the emission for result. It returns false when emission was
// aborted for the type, in which case nothing is synthesized.
func Build(result *analysis.Result) (*Emission, bool) {
	if result == nil || !result.Emittable() {
		return nil, false
	}
	return &Emission{
		TypeName:    result.Container.Name,
		ContainerID: result.Container.ID,
		Descriptors: result.Registry.Descriptors(),
		Imports:     result.Decl.Imports,
	}, true
}

// ContainerIDName is the name of the container id constant
func (e *Emission) ContainerIDName() string {
	return e.TypeName + "PropertyContainerID"
}

// ContainerNameName is the name of the display name constant
func (e *Emission) ContainerNameName() string {
	return e.TypeName + "PropertyContainerName"
}

// RegistryName is the name of the registry variable
func (e *Emission) RegistryName() string {
	return e.TypeName + "PropertyRegistry"
}
