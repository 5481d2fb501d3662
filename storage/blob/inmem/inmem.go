package inmemblob

import (
	"context"
	"sync"

	"github.com/trezcool/aula/core"
)

// Store keeps blobs in process memory; used by tests and the `memory` storage engine.
type Store struct {
	mutex sync.RWMutex
	table map[string][]byte
}

var _ core.BlobStore = (*Store)(nil)

func New() *Store {
	return &Store{table: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	data, ok := s.table[key]
	if !ok {
		return nil, core.ErrBlobNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *Store) Put(_ context.Context, key string, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	in := make([]byte, len(data))
	copy(in, data)
	s.table[key] = in
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
	return nil
}

func (s *Store) Close() error { return nil }
