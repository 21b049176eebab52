package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Michael-Parekh/proshop/client"
)

// Snapshot is the durable subset of state written after every transition
// that touches it.
type Snapshot struct {
	CartItems       []CartItem              `json:"cartItems"`
	ShippingAddress *client.ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethod   string                  `json:"paymentMethod,omitempty"`
	UserInfo        *client.User            `json:"userInfo,omitempty"`
}

// FileStore persists snapshots as a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed snapshot store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the last saved snapshot. A missing file yields an empty
// snapshot, not an error.
func (f *FileStore) Load() (*Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	return &snap, nil
}

// Save writes the snapshot, replacing any previous one. The write goes
// through a temp file and rename so a crash never leaves a half-written
// snapshot behind.
func (f *FileStore) Save(snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
