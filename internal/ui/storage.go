// Package ui holds the two process-wide client state stores: transient
// interface state and form-draft state. Both are synchronous and update by
// replacement: every mutation produces a new state snapshot, and a snapshot
// handed to a reader is never mutated afterwards. Neither store touches the
// network or the relational store.
package ui

import (
	"os"
	"path/filepath"
)

// Storage is the explicit persistence boundary for the subset of state that
// survives reloads. Keys are independent; payloads are schema-free JSON and
// consumers tolerate missing or extra fields.
type Storage interface {
	Read(key string) ([]byte, error)
	Write(key string, data []byte) error
}

// FileStorage keeps one JSON file per key under a directory.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Read(key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, key+".json"))
}

func (s *FileStorage) Write(key string, data []byte) error {
	return os.WriteFile(filepath.Join(s.dir, key+".json"), data, 0o644)
}
