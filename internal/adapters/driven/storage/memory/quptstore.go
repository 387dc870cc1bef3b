package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// Ensure QuptStore implements the interface.
var _ driven.QuptStore = (*QuptStore)(nil)

// QuptStore is an in-memory implementation of driven.QuptStore.
type QuptStore struct {
	mu         sync.RWMutex
	qupts      map[string]domain.Qupt
	byExternal map[string]string
}

// NewQuptStore creates a new in-memory qupt store.
func NewQuptStore() *QuptStore {
	return &QuptStore{
		qupts:      make(map[string]domain.Qupt),
		byExternal: make(map[string]string),
	}
}

// BatchInsert stores a batch of qupts, skipping already-known external IDs.
func (s *QuptStore) BatchInsert(_ context.Context, qupts []domain.Qupt) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, q := range qupts {
		if _, exists := s.byExternal[q.ExternalID]; exists {
			continue
		}
		s.qupts[q.ID] = q
		s.byExternal[q.ExternalID] = q.ID
		inserted++
	}
	return inserted, nil
}

// Get retrieves a qupt by ID.
func (s *QuptStore) Get(_ context.Context, id string) (*domain.Qupt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	qupt, ok := s.qupts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &qupt, nil
}

// List returns qupts for an entanglement, newest first, up to limit.
func (s *QuptStore) List(_ context.Context, entanglementID string, limit int) ([]domain.Qupt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Qupt
	for _, q := range s.qupts {
		if q.EntanglementID == entanglementID {
			result = append(result, q)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DeleteBySource removes all qupts for an entanglement and provider tag.
func (s *QuptStore) DeleteBySource(_ context.Context, entanglementID, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, q := range s.qupts {
		if q.EntanglementID == entanglementID && q.Source == provider {
			delete(s.qupts, id)
			delete(s.byExternal, q.ExternalID)
		}
	}
	return nil
}
