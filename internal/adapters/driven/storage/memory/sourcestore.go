// Package memory provides in-memory implementations of the driven store
// ports. Used in tests and anywhere persistence is not required.
package memory

import (
	"context"
	"sync"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu      sync.RWMutex
	sources map[string]domain.Source
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{
		sources: make(map[string]domain.Source),
	}
}

// Save stores or updates a source.
func (s *SourceStore) Save(_ context.Context, source domain.Source) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[source.ID] = source
	return nil
}

// Get retrieves a source by ID.
func (s *SourceStore) Get(_ context.Context, id string) (*domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	source, ok := s.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &source, nil
}

// Delete removes a source.
func (s *SourceStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sources, id)
	return nil
}

// List returns all configured sources.
func (s *SourceStore) List(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Source, 0, len(s.sources))
	for _, source := range s.sources {
		result = append(result, source)
	}
	return result, nil
}

// ListEnabled returns all sources with Enabled set.
func (s *SourceStore) ListEnabled(_ context.Context) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Source
	for _, source := range s.sources {
		if source.Enabled {
			result = append(result, source)
		}
	}
	return result, nil
}

// ListByJewel returns all sources referencing a jewel.
func (s *SourceStore) ListByJewel(_ context.Context, jewelID string) ([]domain.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Source
	for _, source := range s.sources {
		if source.JewelID == jewelID {
			result = append(result, source)
		}
	}
	return result, nil
}

// UpdateSyncState applies a partial sync-state update to a source.
func (s *SourceStore) UpdateSyncState(_ context.Context, id string, patch domain.SyncStatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	source, ok := s.sources[id]
	if !ok {
		return domain.ErrNotFound
	}

	if patch.LastSync != nil {
		source.LastSync = patch.LastSync
	}
	if patch.SyncCursor != nil {
		source.SyncCursor = *patch.SyncCursor
	}
	if patch.ClearError {
		source.LastError = ""
		source.ErrorCount = 0
		source.LastErrorAt = nil
	}
	if patch.LastError != nil {
		source.LastError = *patch.LastError
	}
	if patch.ErrorCount != nil {
		source.ErrorCount = *patch.ErrorCount
	}
	if patch.LastErrorAt != nil {
		source.LastErrorAt = patch.LastErrorAt
	}

	s.sources[id] = source
	return nil
}
