package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	gosync "sync"

	"cozyberries-backend/domain/collections"
)

// LocalStore persists a collection on the client side. Local persistence is
// authoritative for the device: a failed save is reported, never swallowed.
type LocalStore interface {
	Load() (collections.Collection, error)
	Save(items collections.Collection) error
}

// MemoryStore is an in-process LocalStore, used by tests and as a fallback
// when no state path is configured.
type MemoryStore struct {
	mu    gosync.Mutex
	items collections.Collection
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements LocalStore.
func (m *MemoryStore) Load() (collections.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Clone(), nil
}

// Save implements LocalStore.
func (m *MemoryStore) Save(items collections.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items.Clone()
	return nil
}

// FileStore persists a collection as JSON on disk. Writes go through a
// temp file and rename so a crash mid-write cannot corrupt the state.
type FileStore struct {
	mu   gosync.Mutex
	path string
}

// NewFileStore creates a store at path, creating parent directories.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load implements LocalStore. A missing file is an empty collection.
func (f *FileStore) Load() (collections.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return collections.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read local state: %w", err)
	}

	var items collections.Collection
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("local state corrupt: %w", err)
	}
	return items, nil
}

// Save implements LocalStore.
func (f *FileStore) Save(items collections.Collection) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode local state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write local state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace local state: %w", err)
	}
	return nil
}
