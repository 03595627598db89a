package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore stores blobs as flat files under a root directory. Each blob
// gets a fresh UUID filename, so writes never collide. The handle is the
// absolute file path.
type DiskStore struct {
	root string
}

// NewDiskStore creates a disk-backed blob store rooted at the given
// directory, creating it if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Save writes data to a fresh file and returns its path.
func (s *DiskStore) Save(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, uuid.NewString())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing blob: %w", err)
	}
	return path, nil
}

// Load reads the blob at the given path.
func (s *DiskStore) Load(ctx context.Context, handle string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(handle)
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

// Remove deletes the blob at the given path. Removing a blob that is
// already gone is not an error.
func (s *DiskStore) Remove(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(handle); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob: %w", err)
	}
	return nil
}
