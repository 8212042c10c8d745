package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filevault/internal/domain/services"
)

// LocalStore keeps payloads on the local disk under a root directory.
// The server exposes the directory at /files/ so URLs resolve in dev.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("local storage: directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("local storage: resolve %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("local storage: create %q: %w", abs, err)
	}
	return &LocalStore{
		root:    abs,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Root returns the directory objects are stored under
func (s *LocalStore) Root() string {
	return s.root
}

// Upload writes the payload to <root>/<folder>/<filename>
func (s *LocalStore) Upload(ctx context.Context, data []byte, hint services.UploadHint) (*services.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := ObjectKey(hint)
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("local storage: create folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("local storage: write object: %w", err)
	}

	return &services.StoredObject{
		URL:         s.baseURL + "/files/" + key,
		ExternalRef: key,
	}, nil
}

// Remove deletes the object; a missing file is treated as already removed
func (s *LocalStore) Remove(ctx context.Context, externalRef string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(externalRef)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local storage: remove object: %w", err)
	}
	return nil
}

// resolve maps a key to a path and refuses keys escaping the root
func (s *LocalStore) resolve(key string) (string, error) {
	if key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("local storage: invalid object key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}
