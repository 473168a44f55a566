// Package storage holds the key/value media widget state is persisted in,
// together with the YAML settings file.
package storage

import (
	"context"
	"sync"
)

// MemoryStore provides thread-safe in-memory storage.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]byte),
	}
}

// Get returns copies of the blobs stored under keys. Missing keys are
// omitted from the result.
func (s *MemoryStore) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if value, ok := s.data[key]; ok {
			result[key] = clone(value)
		}
	}
	return result, nil
}

// Set stores copies of every blob in record.
func (s *MemoryStore) Set(ctx context.Context, record map[string][]byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range record {
		s.data[key] = clone(value)
	}
	return nil
}

func clone(value []byte) []byte {
	return append([]byte(nil), value...)
}
