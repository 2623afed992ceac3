package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileStore keeps the raw bytes of uploaded documents and returns a URL
// they can be fetched from later. Deleting a contract does not remove its
// stored file.
type FileStore interface {
	Save(ctx context.Context, filename string, data []byte, contentType string) (url string, err error)
}

// LocalFileStore writes uploads under a directory served read-only at
// /uploads. Names are timestamp-prefixed so uploads never collide.
type LocalFileStore struct {
	dir string
}

// NewLocalFileStore creates the upload directory if needed.
func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalFileStore{dir: dir}, nil
}

// Dir returns the directory uploads are written to.
func (s *LocalFileStore) Dir() string {
	return s.dir
}

func (s *LocalFileStore) Save(_ context.Context, filename string, data []byte, _ string) (string, error) {
	name := diskName(filename)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return "/uploads/" + name, nil
}

// diskName builds the on-disk filename: unix-millisecond prefix plus the
// original name with path separators stripped and spaces collapsed.
func diskName(filename string) string {
	base := filepath.Base(filename)
	safe := strings.Join(strings.Fields(base), "_")
	if safe == "" || safe == "." || safe == string(filepath.Separator) {
		safe = "upload"
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), safe)
}
