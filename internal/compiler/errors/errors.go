// Package errors provides structured diagnostics for the propkit compiler.
// Diagnostics carry a severity, a stable domain+id code for programmatic
// matching, a message and the syntax node they are attached to. They format
// for terminals and serialize to JSON for tooling.
package errors

import (
	"encoding/json"
	"sort"

	"github.com/conduit-lang/propkit/internal/compiler/ast"
)

// Severity indicates the severity level of a diagnostic
type Severity string

const (
	// SeverityError marks a diagnostic that fails the build
	SeverityError Severity = "error"
	// SeverityNote marks an informational diagnostic
	SeverityNote Severity = "note"
)

// Code is the stable domain+identifier pair of a diagnostic
type Code struct {
	Domain string `json:"domain" yaml:"domain"`
	ID     string `json:"id" yaml:"id"`
}

// String renders the code as "domain.id"
func (c Code) String() string {
	return c.Domain + "." + c.ID
}

// Diagnostic is a single analysis outcome attached to a syntax node
type Diagnostic struct {
	Severity Severity           `json:"severity" yaml:"severity"`
	Code     Code               `json:"code" yaml:"code"`
	Message  string             `json:"message" yaml:"message"`
	Location ast.SourceLocation `json:"location" yaml:"location"`
	// Type is the name of the declaration being analyzed
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
	// Node is the attachment node; not serialized
	Node ast.Node `json:"-" yaml:"-"`
}

// Error implements the error interface
func (d *Diagnostic) Error() string {
	return FormatCompact(d)
}

// Format returns a human-readable message for terminal output
func (d *Diagnostic) Format() string {
	return FormatDiagnostic(d)
}

// End returns the end position of the attachment node, or the start when unknown
func (d *Diagnostic) End() ast.SourceLocation {
	if d.Node != nil {
		return d.Node.End()
	}
	return d.Location
}

// ToJSON returns the diagnostic as an indented JSON string
func (d *Diagnostic) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// List is a collection of diagnostics
type List []*Diagnostic

// Error implements the error interface
func (l List) Error() string {
	if len(l) == 0 {
		return "no diagnostics"
	}
	return FormatList(l)
}

// HasErrors returns true if the list contains any error-severity diagnostic
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of diagnostics by severity
func (l List) ErrorCount() (errors, notes int) {
	for _, d := range l {
		switch d.Severity {
		case SeverityError:
			errors++
		case SeverityNote:
			notes++
		}
	}
	return
}

// WithCode returns the diagnostics carrying code, in order
func (l List) WithCode(code Code) List {
	var out List
	for _, d := range l {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Sorted returns a copy ordered by file, line and column. Diagnostics at the
// same position keep their relative order.
func (l List) Sorted() List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Location, out[j].Location
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// ToJSON returns all diagnostics as a JSON array
func (l List) ToJSON() (string, error) {
	if l == nil {
		l = List{}
	}
	bytes, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Reporter accumulates diagnostics for a single analysis pass.
// It is not safe for concurrent use; each pass owns its own Reporter.
type Reporter struct {
	typeName string
	diags    List
}

// NewReporter creates a reporter for the named declaration
func NewReporter(typeName string) *Reporter {
	return &Reporter{typeName: typeName}
}

// Report appends d, stamping it with the reporter's declaration name
func (r *Reporter) Report(d *Diagnostic) {
	if d.Type == "" {
		d.Type = r.typeName
	}
	r.diags = append(r.diags, d)
}

// Diagnostics returns the accumulated diagnostics in report order
func (r *Reporter) Diagnostics() List {
	return r.diags
}

// newDiagnostic creates a Diagnostic located at node
func newDiagnostic(severity Severity, code Code, node ast.Node, message string) *Diagnostic {
	d := &Diagnostic{
		Severity: severity,
		Code:     code,
		Message:  message,
		Node:     node,
	}
	if node != nil {
		d.Location = node.Location()
	}
	return d
}
