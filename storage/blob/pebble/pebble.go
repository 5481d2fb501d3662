package pebbleblob

import (
	"context"
	"os"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"

	"github.com/trezcool/aula/core"
)

var keyPrefix = []byte("blob:")

// Store persists blobs in an embedded pebble key-value store.
type Store struct {
	db *pebble.DB
}

var _ core.BlobStore = (*Store)(nil)

// Open opens (or creates) the pebble directory at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, errors.Wrap(err, "creating pebble directory")
	}
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "opening pebble")
	}
	return &Store{db: db}, nil
}

func blobKey(key string) []byte {
	return append(append([]byte{}, keyPrefix...), key...)
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	v, closer, err := s.db.Get(blobKey(key))
	if err == pebble.ErrNotFound {
		return nil, core.ErrBlobNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading blob %q", key)
	}
	defer closer.Close()

	// copy value; v is only valid until closer is closed
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *Store) Put(_ context.Context, key string, data []byte) error {
	return errors.Wrapf(s.db.Set(blobKey(key), data, pebble.Sync), "writing blob %q", key)
}

func (s *Store) Delete(_ context.Context, key string) error {
	return errors.Wrapf(s.db.Delete(blobKey(key), pebble.Sync), "deleting blob %q", key)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
