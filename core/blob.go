package core

import (
	"context"

	"github.com/pkg/errors"
)

var ErrBlobNotFound = errors.New("blob not found")

// BlobStore persists opaque documents under fixed keys.
// Each Put replaces the whole document; there is no partial update and no versioning,
// so the last writer to complete wins.
type BlobStore interface {
	// Get returns ErrBlobNotFound when nothing was ever stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
