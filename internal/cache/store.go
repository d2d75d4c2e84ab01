package cache

import (
	"os"
	"path/filepath"

	"lettersmith/internal/errors"
)

// Store is the persistence backend for the session list. Implementations
// return a nil blob with no error when nothing has been written yet.
type Store interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileStore persists the session blob as a single JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewCacheError(errors.ErrCodeCacheReadFailed,
			"Failed to read session store", err).WithContext("path", f.path)
	}
	return data, nil
}

func (f *FileStore) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return errors.NewCacheError(errors.ErrCodeCacheWriteFailed,
			"Failed to create session store directory", err).WithContext("path", f.path)
	}

	// Write-then-rename keeps a crash from truncating the store
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.NewCacheError(errors.ErrCodeCacheWriteFailed,
			"Failed to write session store", err).WithContext("path", f.path)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errors.NewCacheError(errors.ErrCodeCacheWriteFailed,
			"Failed to replace session store", err).WithContext("path", f.path)
	}
	return nil
}

// MemoryStore is the in-process backend used by the server mode and
// tests.
type MemoryStore struct {
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Read() ([]byte, error) {
	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryStore) Write(data []byte) error {
	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}
