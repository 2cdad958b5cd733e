package storage

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-local/internal/domain/repository"
)

var _ repository.BlobStore = (*MemoryStore)(nil)

// MemoryStore BlobStore en memoria (STORAGE_DRIVER=memory y tests). No sobrevive al proceso.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore construye el store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get implementa repository.BlobStore.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implementa repository.BlobStore.
func (s *MemoryStore) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := make([]byte, len(data))
	copy(v, data)
	s.data[key] = v
	return nil
}
