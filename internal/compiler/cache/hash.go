// Package cache detects unchanged generated output so repeated runs leave
// files and their modification times untouched.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileHasher computes content hashes
type FileHasher struct{}

// NewFileHasher creates a new file hasher
func NewFileHasher() *FileHasher {
	return &FileHasher{}
}

// HashFile computes a SHA-256 hash of the file contents.
// A missing file hashes to the empty string without error.
func (fh *FileHasher) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// HashContent computes a SHA-256 hash of the given content
func (fh *FileHasher) HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// WriteResult reports what WriteIfChanged did
type WriteResult int

const (
	// Unchanged means the file already held the content
	Unchanged WriteResult = iota
	// Created means the file did not exist
	Created
	// Updated means the file existed with different content
	Updated
)

// String returns a short verb for the result
func (r WriteResult) String() string {
	switch r {
	case Created:
		return "created"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// WriteIfChanged writes content to path only when the file's hash differs.
func (fh *FileHasher) WriteIfChanged(path string, content []byte) (WriteResult, error) {
	existing, err := fh.HashFile(path)
	if err != nil {
		return Unchanged, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	if existing == fh.HashContent(content) {
		return Unchanged, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Unchanged, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return Unchanged, fmt.Errorf("failed to write %s: %w", path, err)
	}

	if existing == "" {
		return Created, nil
	}
	return Updated, nil
}
