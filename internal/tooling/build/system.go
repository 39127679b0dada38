package build

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conduit-lang/propkit/internal/compiler/analysis"
	"github.com/conduit-lang/propkit/internal/compiler/cache"
	"github.com/conduit-lang/propkit/internal/compiler/codegen"
	"github.com/conduit-lang/propkit/internal/compiler/errors"
	"github.com/conduit-lang/propkit/internal/compiler/frontend"
	"github.com/conduit-lang/propkit/internal/compiler/metadata"
	"github.com/conduit-lang/propkit/internal/compiler/typekind"
)

// ErrForeignOutput is returned when an output path holds a file propkit did
// not generate and the overwrite was not confirmed
var ErrForeignOutput = stderrors.New("not generated by propkit")

// FileResult is the outcome of processing one source file
type FileResult struct {
	Path       string
	OutputPath string
	Package    string
	PkgPath    string
	// Results holds one analysis result per declaration, in source order
	Results []*analysis.Result
	// Output is the rendered file, nil when nothing is emitted
	Output     []byte
	Write      cache.WriteResult
	Removed    bool
	SourceHash string
}

// Diagnostics returns every diagnostic raised for the file
func (f *FileResult) Diagnostics() errors.List {
	var list errors.List
	for _, r := range f.Results {
		list = append(list, r.Diagnostics...)
	}
	return list
}

// Emissions returns the emission of every container that was not aborted
func (f *FileResult) Emissions() []*codegen.Emission {
	var out []*codegen.Emission
	for _, r := range f.Results {
		if e, ok := codegen.Build(r); ok {
			out = append(out, e)
		}
	}
	return out
}

// PackageResult groups file results by package
type PackageResult struct {
	Path  string
	Name  string
	Files []*FileResult
}

// Result contains information about one run
type Result struct {
	Packages []*PackageResult
	Duration time.Duration
}

// Diagnostics returns every diagnostic of the run in file order
func (r *Result) Diagnostics() errors.List {
	var list errors.List
	for _, p := range r.Packages {
		for _, f := range p.Files {
			list = append(list, f.Diagnostics()...)
		}
	}
	return list
}

// HasErrors reports whether any error-severity diagnostic was raised
func (r *Result) HasErrors() bool {
	return r.Diagnostics().HasErrors()
}

// Files returns every file result of the run
func (r *Result) Files() []*FileResult {
	var out []*FileResult
	for _, p := range r.Packages {
		out = append(out, p.Files...)
	}
	return out
}

// Counts tallies what the run did to generated files
func (r *Result) Counts() (created, updated, unchanged, removed int) {
	for _, f := range r.Files() {
		switch {
		case f.Removed:
			removed++
		case f.Output == nil:
		case f.Write == cache.Created:
			created++
		case f.Write == cache.Updated:
			updated++
		default:
			unchanged++
		}
	}
	return
}

// System coordinates loading, analysis and generation.
// Thread-safety: a System may be reused across runs but runs must not overlap.
type System struct {
	opts      *Options
	logger    *zap.Logger
	analyzer  *analysis.Analyzer
	generator *codegen.Generator
	hasher    *cache.FileHasher
}

// NewSystem creates a new build system
func NewSystem(opts *Options) *System {
	opts = opts.withDefaults()
	return &System{
		opts:      opts,
		logger:    opts.Logger,
		analyzer:  analysis.New(typekind.New(opts.Qualifiers...)),
		generator: codegen.NewGenerator(),
		hasher:    cache.NewFileHasher(),
	}
}

// Options returns the effective options
func (s *System) Options() *Options {
	return s.opts
}

// Check loads and analyzes packages without writing anything
func (s *System) Check(ctx context.Context) (*Result, error) {
	start := time.Now()

	pkgs, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, pkg := range pkgs {
		pr, err := s.AnalyzePackage(ctx, pkg)
		if err != nil {
			return nil, err
		}
		result.Packages = append(result.Packages, pr)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Generate analyzes packages and writes one generated file per source file
// that declares at least one emitted container. Generated files whose source
// no longer emits anything are removed.
func (s *System) Generate(ctx context.Context) (*Result, error) {
	start := time.Now()

	result, err := s.Check(ctx)
	if err != nil {
		return nil, err
	}

	files := result.Files()
	for i, f := range files {
		if s.opts.ProgressFunc != nil {
			s.opts.ProgressFunc(i+1, len(files), fmt.Sprintf("Generating %s", filepath.Base(f.Path)))
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.Render(f); err != nil {
			return nil, err
		}
		if err := s.write(f); err != nil {
			return nil, err
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// AnalyzePackage analyzes every declaration of pkg concurrently. Results are
// assembled in source order regardless of completion order.
func (s *System) AnalyzePackage(ctx context.Context, pkg *Package) (*PackageResult, error) {
	pr := &PackageResult{Path: pkg.Path, Name: pkg.Name}
	for _, f := range pkg.Files {
		fr, err := s.AnalyzeFile(ctx, f)
		if err != nil {
			return nil, err
		}
		pr.Files = append(pr.Files, fr)
	}
	return pr, nil
}

// AnalyzeFile analyzes the declarations of one file
func (s *System) AnalyzeFile(ctx context.Context, f *frontend.File) (*FileResult, error) {
	fr := &FileResult{
		Path:       f.Path,
		OutputPath: s.OutputPath(f.Path),
		Package:    f.Package,
		PkgPath:    f.PkgPath,
		Results:    make([]*analysis.Result, len(f.Decls)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, decl := range f.Decls {
		i, decl := i, decl
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr.Results[i] = s.analyzer.Analyze(decl)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to hash %s: %w", f.Path, err)
	}
	fr.SourceHash = hash

	for _, r := range fr.Results {
		for _, d := range r.Diagnostics {
			s.logger.Debug("diagnostic",
				zap.String("type", r.Decl.Name),
				zap.String("code", d.Code.String()),
				zap.String("severity", string(d.Severity)),
				zap.String("location", d.Location.String()),
			)
		}
	}
	return fr, nil
}

// Render fills f.Output with the generated file, leaving it nil when the file
// emits nothing
func (s *System) Render(f *FileResult) error {
	emissions := f.Emissions()
	if len(emissions) == 0 {
		f.Output = nil
		return nil
	}
	out, err := s.generator.GenerateFile(f.Package, f.PkgPath, emissions)
	if err != nil {
		return fmt.Errorf("code generation failed for %s: %w", f.Path, err)
	}
	f.Output = out
	return nil
}

// OutputPath returns the generated file path for a source file
func (s *System) OutputPath(source string) string {
	if base, ok := strings.CutSuffix(source, "_test.go"); ok {
		return base + strings.TrimSuffix(s.opts.OutputSuffix, ".go") + "_test.go"
	}
	return strings.TrimSuffix(source, ".go") + s.opts.OutputSuffix
}

func (s *System) write(f *FileResult) error {
	if f.Output == nil {
		return s.removeStale(f)
	}
	if s.opts.DryRun {
		return nil
	}

	ok, err := s.mayOverwrite(f.OutputPath)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("refusing to overwrite %s: %w", f.OutputPath, ErrForeignOutput)
	}

	wr, err := s.hasher.WriteIfChanged(f.OutputPath, f.Output)
	if err != nil {
		return err
	}
	f.Write = wr
	s.logger.Info("generated file",
		zap.String("path", f.OutputPath),
		zap.Stringer("result", wr),
	)
	return nil
}

// removeStale deletes a previously generated file whose source no longer
// declares any emitted container
func (s *System) removeStale(f *FileResult) error {
	generated, exists, err := IsGenerated(f.OutputPath)
	if err != nil || !exists || !generated {
		return err
	}
	if s.opts.DryRun {
		f.Removed = true
		return nil
	}
	if err := os.Remove(f.OutputPath); err != nil {
		return fmt.Errorf("failed to remove %s: %w", f.OutputPath, err)
	}
	f.Removed = true
	s.logger.Info("removed stale generated file", zap.String("path", f.OutputPath))
	return nil
}

func (s *System) mayOverwrite(path string) (bool, error) {
	generated, exists, err := IsGenerated(path)
	if err != nil {
		return false, err
	}
	if !exists || generated {
		return true, nil
	}
	if s.opts.Confirm == nil {
		return false, nil
	}
	return s.opts.Confirm(path)
}

// Report builds the metadata report of a run
func (s *System) Report(result *Result) *metadata.Report {
	report := &metadata.Report{
		Version:  metadata.SchemaVersion,
		Packages: make([]metadata.PackageReport, 0, len(result.Packages)),
	}
	for _, p := range result.Packages {
		pr := metadata.PackageReport{Path: p.Path, Name: p.Name}
		for _, f := range p.Files {
			if len(f.Results) == 0 {
				continue
			}
			pr.Files = append(pr.Files, metadata.ExtractFile(s.relative(f.Path), f.SourceHash, f.Results))
		}
		if len(pr.Files) > 0 {
			report.Packages = append(report.Packages, pr)
		}
	}
	return report
}

func (s *System) relative(path string) string {
	dir, err := filepath.Abs(s.opts.Dir)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// IsGenerated reports whether the file at path starts with propkit's header
func IsGenerated(path string) (generated, exists bool, err error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return bytes.HasPrefix(data, []byte("// "+codegen.Header)), true, nil
}
