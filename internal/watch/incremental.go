package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/propkit/internal/tooling/build"
)

// Regenerator reruns generation for the packages containing changed files
type Regenerator struct {
	opts   build.Options
	logger *zap.Logger

	mu          sync.Mutex
	lastSuccess time.Time
}

// NewRegenerator creates a regenerator. opts.Dir is the module root that
// changed paths are resolved against; opts.Patterns is replaced per run.
func NewRegenerator(opts *build.Options) *Regenerator {
	if opts == nil {
		opts = build.DefaultOptions()
	}
	o := *opts
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.OutputSuffix == "" {
		o.OutputSuffix = build.DefaultOutputSuffix
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &Regenerator{opts: o, logger: o.Logger}
}

// RegenerateResult holds the outcome of one regeneration
type RegenerateResult struct {
	ChangedFiles []string
	// Packages are the patterns that were rebuilt
	Packages []string
	// Orphans are generated files removed because their source was deleted
	Orphans  []string
	Build    *build.Result
	Duration time.Duration
}

// Success reports whether the run produced no error diagnostics
func (r *RegenerateResult) Success() bool {
	return r.Build == nil || !r.Build.HasErrors()
}

// Regenerate rebuilds the packages of changedFiles. Runs are serialized.
func (rg *Regenerator) Regenerate(ctx context.Context, changedFiles []string) (*RegenerateResult, error) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	start := time.Now()
	result := &RegenerateResult{ChangedFiles: changedFiles}

	dirs := make(map[string]struct{})
	for _, file := range changedFiles {
		if !rg.isSource(file) {
			continue
		}
		if _, err := os.Stat(file); os.IsNotExist(err) {
			removed, err := rg.removeOrphan(file)
			if err != nil {
				return nil, err
			}
			if removed != "" {
				result.Orphans = append(result.Orphans, removed)
			}
		}
		dir := filepath.Dir(file)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs[dir] = struct{}{}
		}
	}

	patterns, err := rg.patterns(dirs)
	if err != nil {
		return nil, err
	}
	result.Packages = patterns

	if len(patterns) > 0 {
		opts := rg.opts
		opts.Patterns = patterns
		built, err := build.NewSystem(&opts).Generate(ctx)
		if err != nil {
			return nil, err
		}
		result.Build = built
		if !built.HasErrors() {
			rg.lastSuccess = time.Now()
		}
	}

	result.Duration = time.Since(start)
	rg.logger.Info("regenerated",
		zap.Strings("packages", patterns),
		zap.Int("orphans", len(result.Orphans)),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// LastSuccess returns the time of the last run without errors
func (rg *Regenerator) LastSuccess() time.Time {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.lastSuccess
}

func (rg *Regenerator) isSource(path string) bool {
	if filepath.Ext(path) != ".go" {
		return false
	}
	base := filepath.Base(path)
	suffix := rg.opts.OutputSuffix
	testSuffix := strings.TrimSuffix(suffix, ".go") + "_test.go"
	return !strings.HasSuffix(base, suffix) && !strings.HasSuffix(base, testSuffix)
}

// removeOrphan deletes the generated sibling of a deleted source file
func (rg *Regenerator) removeOrphan(source string) (string, error) {
	out := build.NewSystem(&rg.opts).OutputPath(source)
	generated, exists, err := build.IsGenerated(out)
	if err != nil || !exists || !generated {
		return "", err
	}
	if rg.opts.DryRun {
		return out, nil
	}
	if err := os.Remove(out); err != nil {
		return "", fmt.Errorf("failed to remove %s: %w", out, err)
	}
	return out, nil
}

// patterns converts directories into package patterns relative to the root
func (rg *Regenerator) patterns(dirs map[string]struct{}) ([]string, error) {
	root, err := filepath.Abs(rg.opts.Dir)
	if err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(dirs))
	for dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(rel, "..") {
			rg.logger.Debug("ignoring change outside root", zap.String("dir", dir))
			continue
		}
		if rel == "." {
			patterns = append(patterns, ".")
			continue
		}
		patterns = append(patterns, "./"+filepath.ToSlash(rel))
	}
	sort.Strings(patterns)
	return patterns, nil
}
