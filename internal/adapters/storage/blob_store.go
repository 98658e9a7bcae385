// Package storage holds the blob store boundary for beneficiary documents.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore accepts a file under an identifying path and returns a
// retrievable URL for it.
type BlobStore interface {
	Save(ctx context.Context, path string, r io.Reader) (string, error)
}

// localStore implements BlobStore on the local filesystem
type localStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore creates a filesystem-backed blob store. Files are written
// under baseDir and served under baseURL.
func NewLocalStore(baseDir, baseURL string) BlobStore {
	return &localStore{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Save writes the file and returns its URL
func (s *localStore) Save(ctx context.Context, path string, r io.Reader) (string, error) {
	clean := filepath.Clean("/" + path)
	target := filepath.Join(s.baseDir, clean)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return s.baseURL + filepath.ToSlash(clean), nil
}
