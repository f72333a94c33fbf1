package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore archives exports on the local filesystem, for development
type LocalStore struct {
	basePath string
	baseURL  string // where the server exposes basePath, e.g. http://localhost:8085/archive
}

// NewLocalStore creates a local archive rooted at basePath
func NewLocalStore(basePath, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalStore{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// BasePath returns the archive root directory
func (s *LocalStore) BasePath() string {
	return s.basePath
}

// Put writes an export to disk
func (s *LocalStore) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// URL returns the address the server serves key from
func (s *LocalStore) URL(key string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}

// Get opens an archived export
func (s *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return nil, "", err
	}
	file, err := os.Open(filepath.Join(s.basePath, filepath.FromSlash(key)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	return file, contentTypeFor(key), nil
}
