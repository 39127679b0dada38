package build

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Clean removes every propkit-generated file under the configured directory.
// Files that carry the output suffix but not propkit's header are left alone.
// It returns the removed paths in walk order.
func (s *System) Clean(ctx context.Context) ([]string, error) {
	var removed []string
	err := filepath.WalkDir(s.opts.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.opts.Dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, s.opts.OutputSuffix) && !strings.HasSuffix(path, s.testSuffix()) {
			return nil
		}

		generated, _, err := IsGenerated(path)
		if err != nil || !generated {
			return err
		}
		if !s.opts.DryRun {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
		}
		s.logger.Info("removed generated file", zap.String("path", path), zap.Bool("dry_run", s.opts.DryRun))
		removed = append(removed, path)
		return nil
	})
	if err != nil {
		return removed, err
	}
	return removed, nil
}

func (s *System) testSuffix() string {
	return strings.TrimSuffix(s.opts.OutputSuffix, ".go") + "_test.go"
}

// skipDir matches directories the go tool ignores
func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
