package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

// Ensure QuptService implements the interface.
var _ driving.QuptService = (*QuptService)(nil)

// QuptService manages qupts outside of the sync path. Synced qupts are
// created only by the orchestrator's batch insert.
type QuptService struct {
	quptStore         driven.QuptStore
	entanglementStore driven.EntanglementStore
}

// NewQuptService creates a new qupt service.
func NewQuptService(quptStore driven.QuptStore, entanglementStore driven.EntanglementStore) *QuptService {
	return &QuptService{
		quptStore:         quptStore,
		entanglementStore: entanglementStore,
	}
}

// Create stores a manually-created qupt.
func (s *QuptService) Create(ctx context.Context, q domain.Qupt) (*domain.Qupt, error) {
	if q.EntanglementID == "" || q.Content == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.entanglementStore.Get(ctx, q.EntanglementID); err != nil {
		return nil, fmt.Errorf("get entanglement: %w", err)
	}

	q.ID = uuid.NewString()
	q.Source = domain.SourceManual
	q.ExternalID = fmt.Sprintf("manual:%s", q.ID)
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	if _, err := s.quptStore.BatchInsert(ctx, []domain.Qupt{q}); err != nil {
		return nil, fmt.Errorf("insert qupt: %w", err)
	}
	return &q, nil
}

// List returns qupts for an entanglement, newest first.
func (s *QuptService) List(ctx context.Context, entanglementID string, limit int) ([]domain.Qupt, error) {
	if entanglementID == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = 50
	}
	return s.quptStore.List(ctx, entanglementID, limit)
}
