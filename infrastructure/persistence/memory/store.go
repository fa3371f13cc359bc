// Package memory provides an in-memory ports.KVStore used in tests and as
// the fallback when no storage path is configured.
package memory

import (
	"context"
	"sync"
)

// Store is a map-backed KVStore. Nothing survives process restart.
type Store struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{items: make(map[string]string)}
}

// GetItem returns the value for key and whether it was present.
func (s *Store) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.items[key]
	return value, ok, nil
}

// SetItem stores value under key, replacing any previous value.
func (s *Store) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (s *Store) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
