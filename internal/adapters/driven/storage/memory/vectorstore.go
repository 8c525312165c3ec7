// Package memory provides in-memory implementations of driven port
// interfaces, used in tests and when persistence is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/core/ports/driven"
	"github.com/custodia-labs/recollect/internal/index"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu        sync.RWMutex
	snapshots map[domain.Granularity][]index.Entry
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		snapshots: make(map[domain.Granularity][]index.Entry),
	}
}

// SaveVectors replaces the snapshot for a granularity.
func (s *VectorStore) SaveVectors(_ context.Context, g domain.Granularity, entries []index.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make([]index.Entry, len(entries))
	copy(snapshot, entries)
	s.snapshots[g] = snapshot
	return nil
}

// LoadVectors returns the snapshot for a granularity.
func (s *VectorStore) LoadVectors(_ context.Context, g domain.Granularity) ([]index.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := s.snapshots[g]
	entries := make([]index.Entry, len(snapshot))
	copy(entries, snapshot)
	return entries, nil
}

// Close releases resources.
func (s *VectorStore) Close() error {
	return nil
}
