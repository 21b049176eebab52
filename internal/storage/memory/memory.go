package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Michael-Parekh/proshop/internal/storage"
)

// fileEntry stores an uploaded file in memory.
type fileEntry struct {
	Key         string
	ContentType string
	Data        []byte
}

// Storage implements storage.Storage using an in-memory map. It exists for
// testing.
type Storage struct {
	mu      sync.RWMutex
	files   map[string]*fileEntry
	urlBase string
}

// New creates a new in-memory storage instance.
func New(urlBase string) *Storage {
	return &Storage{
		files:   make(map[string]*fileEntry),
		urlBase: urlBase,
	}
}

// Upload stores the file bytes in memory.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload data: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.files[input.Key] = &fileEntry{
		Key:         input.Key,
		ContentType: input.ContentType,
		Data:        data,
	}

	return &storage.UploadResult{
		Key: input.Key,
		URL: s.urlBase + "/" + input.Key,
	}, nil
}

// Delete removes the file from memory.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.files[key]; !exists {
		return fmt.Errorf("file not found: %s", key)
	}

	delete(s.files, key)
	return nil
}

// Get returns the stored bytes for a key. Test helper.
func (s *Storage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.files[key]
	if !exists {
		return nil, false
	}
	return entry.Data, true
}
