package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"lettersmith/internal/errors"
)

// BlobStore receives generated artifacts after a run. Upload failures
// never fail the run; callers log and continue.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) error
}

// FSBlobStore writes artifacts under a base directory.
type FSBlobStore struct {
	dir string
}

func NewFSBlobStore(dir string) *FSBlobStore {
	return &FSBlobStore{dir: dir}
}

func (f *FSBlobStore) Put(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			"Failed to create artifact directory", err).WithContext("dir", f.dir)
	}
	path := filepath.Join(f.dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			"Failed to write artifact", err).WithContext("path", path)
	}
	return nil
}
