// Package build drives propkit over Go packages: it loads packages with
// go/packages, analyzes every annotated declaration, renders one generated
// file per source file and writes it only when its content changed.
package build

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/conduit-lang/propkit/internal/compiler/frontend"
	"github.com/conduit-lang/propkit/internal/compiler/typekind"
)

// DefaultOutputSuffix replaces ".go" in generated file names
const DefaultOutputSuffix = "_propkit.go"

// Options configures the build process
type Options struct {
	// Dir is the directory packages are resolved from
	Dir string
	// Patterns are go/packages patterns, "./..." when empty
	Patterns []string
	// OutputSuffix replaces ".go" in generated file names
	OutputSuffix string
	// TagKey is the struct tag key holding field options
	TagKey string
	// Qualifiers are package qualifiers stripped before type classification
	Qualifiers []string
	// Concurrency bounds concurrent declaration analysis
	Concurrency int
	// Tests includes _test.go files
	Tests bool
	// BuildFlags are passed to the go tool, e.g. -tags
	BuildFlags []string
	// DryRun renders output without writing it
	DryRun bool
	// Confirm is asked before overwriting a file propkit did not generate.
	// A nil Confirm refuses.
	Confirm func(path string) (bool, error)
	// ProgressFunc is called once per source file during generation
	ProgressFunc func(current, total int, message string)
	Logger       *zap.Logger
}

// DefaultOptions returns sensible defaults
func DefaultOptions() *Options {
	return &Options{
		Dir:          ".",
		Patterns:     []string{"./..."},
		OutputSuffix: DefaultOutputSuffix,
		TagKey:       frontend.DefaultTagKey,
		Qualifiers:   append([]string(nil), typekind.DefaultQualifiers...),
		Concurrency:  runtime.NumCPU(),
		Logger:       zap.NewNop(),
	}
}

// withDefaults fills zero fields from DefaultOptions
func (o *Options) withDefaults() *Options {
	d := DefaultOptions()
	if o == nil {
		return d
	}
	out := *o
	if out.Dir == "" {
		out.Dir = d.Dir
	}
	if len(out.Patterns) == 0 {
		out.Patterns = d.Patterns
	}
	if out.OutputSuffix == "" {
		out.OutputSuffix = d.OutputSuffix
	}
	if out.TagKey == "" {
		out.TagKey = d.TagKey
	}
	if out.Qualifiers == nil {
		out.Qualifiers = d.Qualifiers
	}
	if out.Concurrency <= 0 {
		out.Concurrency = d.Concurrency
	}
	if out.Logger == nil {
		out.Logger = d.Logger
	}
	return &out
}
