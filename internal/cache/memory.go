package cache

import (
	"context"
	"sync"

	"github.com/sdko-org/vertical-padding/internal/addresskey"
	"github.com/sdko-org/vertical-padding/internal/padding"
)

// MemoryStore is a process-local Store, used by tests and the CLI dry run.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[addresskey.Key]padding.BuildingMetadata
	puts    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[addresskey.Key]padding.BuildingMetadata)}
}

func (s *MemoryStore) Get(_ context.Context, key addresskey.Key) (padding.BuildingMetadata, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.entries[key]
	return meta, ok, nil
}

func (s *MemoryStore) PutIfAbsent(_ context.Context, key addresskey.Key, meta padding.BuildingMetadata) (padding.BuildingMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if existing, ok := s.entries[key]; ok {
		return existing, nil
	}
	s.entries[key] = meta
	return meta, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Puts returns how many PutIfAbsent calls were made, including no-ops.
func (s *MemoryStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}
