package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// File persists the blob as a single JSON file on disk, the closest
// server-side analogue to a browser's localStorage entry.
type File struct {
	path string
}

// NewFile creates a file backend at the given path. The file is
// created on first Store.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *File) Store(ctx context.Context, data []byte) error {
	// Write to a temp file and rename so readers never observe a
	// half-written blob.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".shortlink-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, f.path)
}

func (f *File) Close() error {
	return nil
}
