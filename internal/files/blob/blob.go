// Package blob stores raw uploaded content. Entries in the files collection
// reference blobs by an opaque handle; the metadata layer never interprets
// it. Two backends exist: local disk (the default) and S3-compatible object
// storage, selected by configuration at startup.
package blob

import (
	"context"
	"fmt"

	"github.com/filedepot-io/filedepot/internal/config"
)

// Store reads, writes, and removes raw content blobs. Save returns the
// opaque handle to record on the owning entry; Load takes it back.
type Store interface {
	Save(ctx context.Context, data []byte) (string, error)
	Load(ctx context.Context, handle string) ([]byte, error)
	Remove(ctx context.Context, handle string) error
}

// NewStore builds the blob store selected by the configuration.
func NewStore(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch cfg.Backend {
	case config.BlobBackendDisk:
		return NewDiskStore(cfg.FolderPath)
	case config.BlobBackendS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
