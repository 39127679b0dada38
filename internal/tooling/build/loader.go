package build

import (
	"context"
	"fmt"
	goast "go/ast"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/conduit-lang/propkit/internal/compiler/frontend"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// Package is a loaded Go package with its declaration trees
type Package struct {
	Path  string
	Name  string
	Files []*frontend.File
}

// Load resolves the configured patterns and builds declaration trees for
// every non-generated file. Type and import errors are tolerated because
// previously generated files may be stale; parse errors fail the load.
func (s *System) Load(ctx context.Context) ([]*Package, error) {
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        s.opts.Dir,
		Tests:      s.opts.Tests,
		BuildFlags: s.opts.BuildFlags,
	}

	pkgs, err := packages.Load(cfg, s.opts.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var out []*Package
	// test variants repeat the package's regular files
	seenFiles := make(map[string]bool)
	for _, pkg := range pkgs {
		if err := s.loadError(pkg); err != nil {
			return nil, err
		}

		files := s.sourceFiles(pkg)
		if len(files) == 0 {
			continue
		}

		s.logger.Debug("loaded package",
			zap.String("package", pkg.PkgPath),
			zap.Int("files", len(files)),
			zap.Int("type_errors", len(pkg.TypeErrors)),
		)

		built := frontend.FromPackage(pkg.Fset, files, pkg.PkgPath, frontend.Options{
			TagKey: s.opts.TagKey,
			Info:   pkg.TypesInfo,
		})
		p := &Package{Path: pkg.PkgPath, Name: pkg.Name}
		for _, f := range built {
			if seenFiles[f.Path] {
				continue
			}
			seenFiles[f.Path] = true
			p.Files = append(p.Files, f)
		}
		if len(p.Files) > 0 {
			out = append(out, p)
		}
	}
	return out, nil
}

// sourceFiles returns the package syntax minus propkit's own output
func (s *System) sourceFiles(pkg *packages.Package) []*goast.File {
	var files []*goast.File
	for _, f := range pkg.Syntax {
		name := pkg.Fset.Position(f.Pos()).Filename
		if strings.HasSuffix(name, s.opts.OutputSuffix) || strings.HasSuffix(name, s.testSuffix()) {
			continue
		}
		files = append(files, f)
	}
	return files
}

func (s *System) loadError(pkg *packages.Package) error {
	for _, e := range pkg.Errors {
		switch e.Kind {
		case packages.ParseError:
			return fmt.Errorf("package %s: %s", pkg.PkgPath, e.Msg)
		case packages.ListError:
			if len(pkg.GoFiles) == 0 {
				return fmt.Errorf("package %s: %s", pkg.PkgPath, e.Msg)
			}
			s.logger.Warn("package list error", zap.String("package", pkg.PkgPath), zap.String("error", e.Msg))
		}
	}
	return nil
}
