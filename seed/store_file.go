package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/errors"
)

// FileStore persists seeds as JSON files in a directory, one file per
// key. Writes go through a temp file and rename so a crashed save never
// leaves a truncated seed behind.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrap(err, "FileStore", "NewFileStore", "directory create")
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key+".json")
}

// Save writes the seed atomically.
func (fs *FileStore) Save(_ context.Context, key string, s Seed) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "FileStore", "Save", "temp file create")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "FileStore", "Save", "temp file write")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "FileStore", "Save", "temp file close")
	}
	if err := os.Rename(tmp.Name(), fs.path(key)); err != nil {
		return errors.Wrap(err, "FileStore", "Save", "file rename")
	}
	return nil
}

// Load reads and validates a seed. A missing file maps to ErrSeedNotFound.
func (fs *FileStore) Load(_ context.Context, key string) (Seed, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return Seed{}, fmt.Errorf("key %s: %w", key, errors.ErrSeedNotFound)
		}
		return Seed{}, errors.Wrap(err, "FileStore", "Load", "file read")
	}
	return Decode(data)
}
