package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Record is one stored snapshot blob. ModTime is the storage-layer
// modification time; staleness is judged against it rather than any
// timestamp inside the payload, so externally touched or stale files
// self-heal as cache misses.
type Record struct {
	Data    []byte
	ModTime time.Time
}

// Store is durable keyed storage for snapshot blobs. Implementations must
// treat a missing key as (nil, nil), not an error.
type Store interface {
	Read(key string) (*Record, error)
	Write(key string, data []byte) error
	Remove(key string) error
	Size(key string) (int64, error)
}

// FileStore keeps each snapshot as a JSON file under dir. Writes go to a
// temp file first and are renamed into place, so readers never observe a
// partial snapshot.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Read(key string) (*Record, error) {
	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("statting %s: %w", key, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return &Record{Data: data, ModTime: info.ModTime()}, nil
}

func (s *FileStore) Write(key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Size(key string) (int64, error) {
	info, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("statting %s: %w", key, err)
	}
	return info.Size(), nil
}
