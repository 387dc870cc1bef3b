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

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages source configurations.
type SourceService struct {
	sourceStore       driven.SourceStore
	quptStore         driven.QuptStore
	entanglementStore driven.EntanglementStore
	registry          driven.HandlerRegistry
	vault             driven.Vault
}

// NewSourceService creates a new source service.
func NewSourceService(
	sourceStore driven.SourceStore,
	quptStore driven.QuptStore,
	entanglementStore driven.EntanglementStore,
	registry driven.HandlerRegistry,
	vault driven.Vault,
) *SourceService {
	return &SourceService{
		sourceStore:       sourceStore,
		quptStore:         quptStore,
		entanglementStore: entanglementStore,
		registry:          registry,
		vault:             vault,
	}
}

// Create validates and stores a new source. When BackdateDays is set, the
// initial last_sync is backdated so the first sync bootstraps history.
func (s *SourceService) Create(ctx context.Context, in driving.CreateSourceInput) (*domain.Source, error) {
	if in.EntanglementID == "" || in.Type == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.JewelID != "" && len(in.Credential) > 0 {
		return nil, fmt.Errorf("%w: jewel reference and inline credential are mutually exclusive", domain.ErrInvalidInput)
	}

	// Reject unknown types at creation rather than at first sync.
	if _, err := s.registry.Resolve(in.Type); err != nil {
		return nil, err
	}

	if _, err := s.entanglementStore.Get(ctx, in.EntanglementID); err != nil {
		return nil, fmt.Errorf("get entanglement: %w", err)
	}

	source := domain.Source{
		ID:             uuid.NewString(),
		EntanglementID: in.EntanglementID,
		Type:           in.Type,
		Name:           in.Name,
		Config:         in.Config,
		JewelID:        in.JewelID,
		Enabled:        true,
	}

	if len(in.Credential) > 0 {
		blob, err := s.vault.Encrypt(in.Credential)
		if err != nil {
			return nil, fmt.Errorf("encrypt credential: %w", err)
		}
		source.CredentialBlob = blob
	}

	if in.BackdateDays > 0 {
		since := time.Now().UTC().AddDate(0, 0, -in.BackdateDays)
		source.LastSync = &since
	}

	if err := s.sourceStore.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}
	return &source, nil
}

// Get retrieves a source by ID.
func (s *SourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	return s.sourceStore.Get(ctx, id)
}

// List returns sources, optionally filtered by entanglement.
func (s *SourceService) List(ctx context.Context, entanglementID string) ([]domain.Source, error) {
	sources, err := s.sourceStore.List(ctx)
	if err != nil {
		return nil, err
	}
	if entanglementID == "" {
		return sources, nil
	}
	filtered := sources[:0]
	for _, src := range sources {
		if src.EntanglementID == entanglementID {
			filtered = append(filtered, src)
		}
	}
	return filtered, nil
}

// SetEnabled toggles a source.
func (s *SourceService) SetEnabled(ctx context.Context, id string, enabled bool) error {
	source, err := s.sourceStore.Get(ctx, id)
	if err != nil {
		return err
	}
	source.Enabled = enabled
	return s.sourceStore.Save(ctx, *source)
}

// Delete removes a source, optionally cascading its qupts.
//
// Qupts carry only the provider tag, not the source ID, so the cascade
// removes every qupt on the entanglement with the same tag. With two
// same-type sources on one entanglement this also takes the sibling's
// qupts; a re-sync of the sibling restores them.
func (s *SourceService) Delete(ctx context.Context, id string, cascadeQupts bool) error {
	source, err := s.sourceStore.Get(ctx, id)
	if err != nil {
		return err
	}
	if cascadeQupts {
		if err := s.quptStore.DeleteBySource(ctx, source.EntanglementID, source.Type); err != nil {
			return fmt.Errorf("cascade qupts: %w", err)
		}
	}
	return s.sourceStore.Delete(ctx, id)
}
