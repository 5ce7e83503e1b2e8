// Package storage persists product image blobs. The rest of the system only
// ever sees the public URL reference.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type ImageStore interface {
	// Save writes the blob and returns its public URL.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Delete removes the blob behind a previously returned URL. Deleting an
	// unknown URL is a no-op.
	Delete(ctx context.Context, url string) error
}

// DiskStore keeps blobs in a local directory served statically under baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &DiskStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *DiskStore) Save(_ context.Context, filename string, r io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	name := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	return s.baseURL + "/" + name, nil
}

func (s *DiskStore) Delete(_ context.Context, url string) error {
	name := filepath.Base(url)
	// Refuse anything that escapes the uploads dir.
	if name == "." || name == string(filepath.Separator) || strings.Contains(name, "..") {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}
