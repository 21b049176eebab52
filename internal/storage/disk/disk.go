// Package disk implements image storage on the local filesystem, served
// back by the static /uploads route.
package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Michael-Parekh/proshop/internal/storage"
)

// Storage implements storage.Storage on a local directory.
type Storage struct {
	dir     string
	urlBase string
}

// New creates a disk storage rooted at dir, serving files under urlBase
// (e.g. "/uploads"). The directory is created if missing.
func New(dir, urlBase string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: dir, urlBase: urlBase}, nil
}

// Upload writes the file to disk under its key.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	// Keys are generated server-side, but never trust them as paths.
	key := filepath.Base(input.Key)
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, input.Data); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	return &storage.UploadResult{
		Key: key,
		URL: s.urlBase + "/" + key,
	}, nil
}

// Delete removes the file for the given key.
func (s *Storage) Delete(_ context.Context, key string) error {
	path := filepath.Join(s.dir, filepath.Base(key))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}
