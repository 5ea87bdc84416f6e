package prefstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File stores each key as <root>/<key>.json.
type File struct {
	Root string
}

func NewFile(root string) *File {
	if root == "" {
		root = "."
	}
	return &File{Root: root}
}

// Path returns the file backing key.
func (f *File) Path(key string) string {
	return filepath.Join(f.Root, key+".json")
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	b, err := os.ReadFile(f.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(b), nil
}

// Set writes to a temp file and renames it so a crash never leaves half a snapshot.
func (f *File) Set(_ context.Context, key, value string) error {
	path := f.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return os.Rename(tmp, path)
}

func (f *File) Close() error { return nil }
