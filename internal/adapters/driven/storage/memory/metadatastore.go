package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// Ensure stores implement the interfaces.
var (
	_ driven.JewelStore        = (*JewelStore)(nil)
	_ driven.EntanglementStore = (*EntanglementStore)(nil)
	_ driven.ZokuStore         = (*ZokuStore)(nil)
	_ driven.SyncRunStore      = (*SyncRunStore)(nil)
)

// JewelStore is an in-memory implementation of driven.JewelStore.
type JewelStore struct {
	mu     sync.RWMutex
	jewels map[string]domain.Jewel
}

// NewJewelStore creates a new in-memory jewel store.
func NewJewelStore() *JewelStore {
	return &JewelStore{jewels: make(map[string]domain.Jewel)}
}

// Save stores or updates a jewel.
func (s *JewelStore) Save(_ context.Context, jewel domain.Jewel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jewels[jewel.ID] = jewel
	return nil
}

// Get retrieves a jewel by ID.
func (s *JewelStore) Get(_ context.Context, id string) (*domain.Jewel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	jewel, ok := s.jewels[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &jewel, nil
}

// Delete removes a jewel.
func (s *JewelStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jewels, id)
	return nil
}

// List returns all jewels.
func (s *JewelStore) List(_ context.Context) ([]domain.Jewel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Jewel, 0, len(s.jewels))
	for _, jewel := range s.jewels {
		result = append(result, jewel)
	}
	return result, nil
}

// EntanglementStore is an in-memory implementation of driven.EntanglementStore.
type EntanglementStore struct {
	mu            sync.RWMutex
	entanglements map[string]domain.Entanglement
}

// NewEntanglementStore creates a new in-memory entanglement store.
func NewEntanglementStore() *EntanglementStore {
	return &EntanglementStore{entanglements: make(map[string]domain.Entanglement)}
}

// Save stores or updates an entanglement.
func (s *EntanglementStore) Save(_ context.Context, e domain.Entanglement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entanglements[e.ID] = e
	return nil
}

// Get retrieves an entanglement by ID.
func (s *EntanglementStore) Get(_ context.Context, id string) (*domain.Entanglement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entanglements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &e, nil
}

// Delete removes an entanglement.
func (s *EntanglementStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entanglements, id)
	return nil
}

// List returns all entanglements.
func (s *EntanglementStore) List(_ context.Context) ([]domain.Entanglement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Entanglement, 0, len(s.entanglements))
	for _, e := range s.entanglements {
		result = append(result, e)
	}
	return result, nil
}

// ListChildren returns direct children of an entanglement.
func (s *EntanglementStore) ListChildren(_ context.Context, parentID string) ([]domain.Entanglement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Entanglement
	for _, e := range s.entanglements {
		if e.ParentID == parentID {
			result = append(result, e)
		}
	}
	return result, nil
}

// ZokuStore is an in-memory implementation of driven.ZokuStore.
type ZokuStore struct {
	mu   sync.RWMutex
	zoku map[string]domain.Zoku
}

// NewZokuStore creates a new in-memory zoku store.
func NewZokuStore() *ZokuStore {
	return &ZokuStore{zoku: make(map[string]domain.Zoku)}
}

// Save stores or updates a zoku.
func (s *ZokuStore) Save(_ context.Context, z domain.Zoku) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoku[z.ID] = z
	return nil
}

// Get retrieves a zoku by ID.
func (s *ZokuStore) Get(_ context.Context, id string) (*domain.Zoku, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	z, ok := s.zoku[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &z, nil
}

// List returns all zoku.
func (s *ZokuStore) List(_ context.Context) ([]domain.Zoku, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Zoku, 0, len(s.zoku))
	for _, z := range s.zoku {
		result = append(result, z)
	}
	return result, nil
}

// SyncRunStore is an in-memory implementation of driven.SyncRunStore.
type SyncRunStore struct {
	mu   sync.RWMutex
	runs []domain.SyncRun
}

// NewSyncRunStore creates a new in-memory sync run store.
func NewSyncRunStore() *SyncRunStore {
	return &SyncRunStore{}
}

// Record stores a completed run summary.
func (s *SyncRunStore) Record(_ context.Context, run domain.SyncRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// List returns the most recent runs, newest first, up to limit.
func (s *SyncRunStore) List(_ context.Context, limit int) ([]domain.SyncRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SyncRun, len(s.runs))
	copy(result, s.runs)
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartedAt.After(result[j].StartedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Prune removes all but the most recent keep runs.
func (s *SyncRunStore) Prune(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runs) <= keep {
		return nil
	}
	sort.Slice(s.runs, func(i, j int) bool {
		return s.runs[i].StartedAt.After(s.runs[j].StartedAt)
	})
	s.runs = s.runs[:keep]
	return nil
}
