// Package metadata describes analysis results in a serializable form for the
// inspect command and other tooling.
package metadata

import (
	"github.com/conduit-lang/propkit/internal/compiler/errors"
)

// SchemaVersion is bumped whenever the report layout changes
const SchemaVersion = "1"

// Report is the complete inspection output of one run
type Report struct {
	Version  string          `json:"version" yaml:"version"`
	Packages []PackageReport `json:"packages" yaml:"packages"`
}

// PackageReport groups the files of one Go package
type PackageReport struct {
	Path  string       `json:"path" yaml:"path"`
	Name  string       `json:"name" yaml:"name"`
	Files []FileReport `json:"files" yaml:"files"`
}

// FileReport describes one source file
type FileReport struct {
	Path string `json:"path" yaml:"path"`
	// SourceHash is the SHA-256 of the source file, for change detection
	SourceHash  string              `json:"source_hash,omitempty" yaml:"source_hash,omitempty"`
	Containers  []ContainerMetadata `json:"containers" yaml:"containers"`
	Diagnostics []errors.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ContainerMetadata describes one annotated type. ID is empty when emission
// was aborted for the type.
type ContainerMetadata struct {
	Type       string             `json:"type" yaml:"type"`
	ID         string             `json:"id,omitempty" yaml:"id,omitempty"`
	Key        string             `json:"key,omitempty" yaml:"key,omitempty"`
	Line       int                `json:"line,omitempty" yaml:"line,omitempty"`
	Emitted    bool               `json:"emitted" yaml:"emitted"`
	Properties []PropertyMetadata `json:"properties" yaml:"properties"`
}

// PropertyMetadata describes one registered property
type PropertyMetadata struct {
	ID         string `json:"id" yaml:"id"`
	Key        string `json:"key" yaml:"key"`
	Name       string `json:"name" yaml:"name"`
	Source     string `json:"value_source" yaml:"value_source"`
	Access     string `json:"access" yaml:"access"`
	Kind       string `json:"value_kind" yaml:"value_kind"`
	Type       string `json:"type" yaml:"type"`
	Member     string `json:"member" yaml:"member"`
	MemberKind string `json:"member_kind" yaml:"member_kind"`
}
