package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Local stores blobs as plain files under a root directory
type Local struct {
	root string
}

// NewLocal returns a filesystem store rooted at dir, creating it if needed
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		dir = "./static/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create storage dir")
	}
	return &Local{root: dir}, nil
}

func (s *Local) pathFor(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", errors.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(filepath.Clean(key))), nil
}

func (s *Local) Put(_ context.Context, key string, r io.Reader, _ string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create blob dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create blob")
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return errors.Wrap(err, "failed to write blob")
	}
	return errors.Wrap(f.Close(), "failed to close blob")
}

func (s *Local) Get(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to open blob")
	}
	return f, nil
}

// Delete removes the blob. Deleting a missing key is not an error.
func (s *Local) Delete(_ context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete blob")
	}
	return nil
}
