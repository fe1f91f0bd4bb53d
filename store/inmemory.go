package store

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]any
}

var _ Store = (*memoryStore)(nil)

// NewInMemory returns a Store backed by a process-local map. Values are
// held as-is, so mutations through stored pointers are visible to later
// readers. Contents are lost on process exit.
func NewInMemory() Store {
	return &memoryStore{entries: make(map[string]any)}
}

func (s *memoryStore) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	_, ok := s.entries[key]
	s.mu.RUnlock()
	return ok, nil
}

func (s *memoryStore) Get(_ context.Context, key string) (any, bool, error) {
	s.mu.RLock()
	val, ok := s.entries[key]
	s.mu.RUnlock()
	return val, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key string, val any) error {
	s.mu.Lock()
	s.entries[key] = val
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	_, ok := s.entries[key]
	if ok {
		delete(s.entries, key)
	}
	s.mu.Unlock()
	return ok, nil
}

func (s *memoryStore) Close() error {
	return nil
}
