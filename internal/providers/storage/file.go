package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend keeps one JSON file per key under root/namespace/.
type FileBackend struct {
	root string
}

// NewFileBackend creates the root directory if needed.
func NewFileBackend(root string) (*FileBackend, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileBackend{root: root}, nil
}

func (f *FileBackend) Read(_ context.Context, namespace, key string) ([]byte, error) {
	data, err := os.ReadFile(f.keyPath(namespace, key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Write replaces the file atomically so a crash never leaves half a value.
func (f *FileBackend) Write(_ context.Context, namespace, key string, data []byte) error {
	path := f.keyPath(namespace, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (f *FileBackend) Close() error { return nil }

func (f *FileBackend) keyPath(namespace, key string) string {
	return filepath.Join(f.root, sanitize(namespace), sanitize(key)+".json")
}

// sanitize keeps storage paths inside root whatever the caller passes.
func sanitize(part string) string {
	part = strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(part)
	if part == "" || part == "." {
		return "_"
	}
	return part
}
