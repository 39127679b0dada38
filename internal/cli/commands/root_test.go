package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapesSource = `package geom

//propkit:container "shape"
type Shape struct {
	//propkit:property "w"
	Width float64
	//propkit:property "h"
	Height float64
}
`

const duplicateSource = `package geom

//propkit:container "label"
type Label struct {
	//propkit:property "text"
	Text string
	//propkit:property "text"
	Caption string
}
`

// newModule writes a throwaway module holding the given files
func newModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/geom\n\ngo 1.21\n"), 0o644))
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
	return dir
}

// run executes the root command and returns stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	noColor := color.NoColor
	t.Cleanup(func() { color.NoColor = noColor })
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "propkit", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, expected := range []string{"version", "generate", "check", "inspect", "watch", "clean", "lsp", "completion"} {
		found, _, err := cmd.Find([]string{expected})
		require.NoError(t, err, expected)
		assert.Equal(t, expected, found.Name())
	}

	for _, flag := range []string{"dir", "verbose", "no-color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestNewVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	t.Cleanup(func() {
		Version = "dev"
		GitCommit = "unknown"
	})

	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "propkit version: 1.0.0-test")
	assert.Contains(t, stdout, "abc123")
	assert.Contains(t, stdout, "Go version:")
}

func TestLoadProject_ExplicitDir(t *testing.T) {
	dir := newModule(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "propkit.yml"), []byte("generate:\n  suffix: _meta.go\n"), 0o644))

	p, err := loadProject(&globalFlags{dir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, p.dir)

	opts := p.buildOptions([]string{"./geom"})
	assert.Equal(t, "_meta.go", opts.OutputSuffix)
	assert.Equal(t, []string{"./geom"}, opts.Patterns)
	assert.Equal(t, dir, opts.Dir)
}

func TestLoadProject_ArgumentsResolveAgainstWorkingDirectory(t *testing.T) {
	dir := newModule(t, nil)
	sub := filepath.Join(dir, "geom")
	require.NoError(t, os.Mkdir(sub, 0o755))
	chdir(t, sub)

	p, err := loadProject(&globalFlags{})
	require.NoError(t, err)
	assert.Equal(t, dir, p.dir)

	assert.Equal(t, sub, p.buildOptions([]string{"."}).Dir)
	assert.Equal(t, dir, p.buildOptions(nil).Dir)
}

func TestLoadProject_InvalidConfig(t *testing.T) {
	dir := newModule(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "propkit.yml"), []byte("generate:\n  suffix: meta\n"), 0o644))

	_, err := loadProject(&globalFlags{dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIGURATION ERROR")
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "propkit")

	_, _, err = run(t, "completion", "tcsh")
	assert.Error(t, err)
}
