package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

// Ensure EntanglementService implements the interface.
var _ driving.EntanglementService = (*EntanglementService)(nil)

// EntanglementService manages the entanglement hierarchy.
type EntanglementService struct {
	store driven.EntanglementStore
}

// NewEntanglementService creates a new entanglement service.
func NewEntanglementService(store driven.EntanglementStore) *EntanglementService {
	return &EntanglementService{store: store}
}

// Create stores a new entanglement.
func (s *EntanglementService) Create(ctx context.Context, e domain.Entanglement) (*domain.Entanglement, error) {
	if e.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if e.ParentID != "" {
		if _, err := s.store.Get(ctx, e.ParentID); err != nil {
			return nil, err
		}
	}
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	if err := s.store.Save(ctx, e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Get retrieves an entanglement by ID.
func (s *EntanglementService) Get(ctx context.Context, id string) (*domain.Entanglement, error) {
	return s.store.Get(ctx, id)
}

// List returns all entanglements.
func (s *EntanglementService) List(ctx context.Context) ([]domain.Entanglement, error) {
	return s.store.List(ctx)
}

// ListChildren returns direct children of an entanglement.
func (s *EntanglementService) ListChildren(ctx context.Context, parentID string) ([]domain.Entanglement, error) {
	return s.store.ListChildren(ctx, parentID)
}

// Update modifies an existing entanglement.
func (s *EntanglementService) Update(ctx context.Context, e domain.Entanglement) error {
	if e.ID == "" {
		return domain.ErrInvalidInput
	}
	existing, err := s.store.Get(ctx, e.ID)
	if err != nil {
		return err
	}
	e.CreatedAt = existing.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, e)
}

// Delete removes an entanglement.
func (s *EntanglementService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Ensure ZokuService implements the interface.
var _ driving.ZokuService = (*ZokuService)(nil)

// ZokuService manages zoku.
type ZokuService struct {
	store driven.ZokuStore
}

// NewZokuService creates a new zoku service.
func NewZokuService(store driven.ZokuStore) *ZokuService {
	return &ZokuService{store: store}
}

// Create stores a new zoku.
func (s *ZokuService) Create(ctx context.Context, z domain.Zoku) (*domain.Zoku, error) {
	if z.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if z.Kind == "" {
		z.Kind = "human"
	}
	z.ID = uuid.NewString()
	z.CreatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, z); err != nil {
		return nil, err
	}
	return &z, nil
}

// Get retrieves a zoku by ID.
func (s *ZokuService) Get(ctx context.Context, id string) (*domain.Zoku, error) {
	return s.store.Get(ctx, id)
}

// List returns all zoku.
func (s *ZokuService) List(ctx context.Context) ([]domain.Zoku, error) {
	return s.store.List(ctx)
}
