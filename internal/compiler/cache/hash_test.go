package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHasher_HashContent(t *testing.T) {
	hasher := NewFileHasher()

	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		hasher.HashContent(nil))
	assert.Equal(t,
		"b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		hasher.HashContent([]byte("hello world")))
}

func TestFileHasher_HashFile(t *testing.T) {
	hasher := NewFileHasher()
	dir := t.TempDir()

	missing, err := hasher.HashFile(filepath.Join(dir, "missing.go"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))
	got, err := hasher.HashFile(path)
	require.NoError(t, err)
	assert.Equal(t, hasher.HashContent([]byte("hello world")), got)
}

func TestFileHasher_WriteIfChanged(t *testing.T) {
	hasher := NewFileHasher()
	path := filepath.Join(t.TempDir(), "nested", "shape_propkit.go")

	res, err := hasher.WriteIfChanged(path, []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, Created, res)

	info, err := os.Stat(path)
	require.NoError(t, err)
	modTime := info.ModTime()

	res, err = hasher.WriteIfChanged(path, []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, Unchanged, res)
	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, modTime, info.ModTime())

	res, err = hasher.WriteIfChanged(path, []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, Updated, res)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestWriteResult_String(t *testing.T) {
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "updated", Updated.String())
	assert.Equal(t, "unchanged", Unchanged.String())
}
