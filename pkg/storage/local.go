package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores uploads on the local filesystem under dir/images. Files are
// served back via the router's static /uploads mount.
type Local struct {
	dir string
}

// NewLocal creates a local store and ensures the images directory exists.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Save writes the file to dir/images/filename and returns its relative URL.
func (l *Local) Save(_ context.Context, filename, _ string, body io.Reader, _ int64) (string, error) {
	dst := filepath.Join(l.dir, "images", filepath.Base(filename))
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}
	return "/uploads/images/" + filepath.Base(filename), nil
}
