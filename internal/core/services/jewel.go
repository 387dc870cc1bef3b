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

// Ensure JewelService implements the interface.
var _ driving.JewelService = (*JewelService)(nil)

// JewelService manages encrypted credentials. Plaintext credential material
// only exists between the Create call and the vault; it is never stored or
// returned.
type JewelService struct {
	jewelStore  driven.JewelStore
	sourceStore driven.SourceStore
	vault       driven.Vault
}

// NewJewelService creates a new jewel service.
func NewJewelService(jewelStore driven.JewelStore, sourceStore driven.SourceStore, vault driven.Vault) *JewelService {
	return &JewelService{
		jewelStore:  jewelStore,
		sourceStore: sourceStore,
		vault:       vault,
	}
}

// Create encrypts and stores a new jewel.
func (s *JewelService) Create(ctx context.Context, in driving.CreateJewelInput) (*domain.Jewel, error) {
	if in.Name == "" || in.Type == "" || len(in.Credential) == 0 {
		return nil, domain.ErrInvalidInput
	}

	blob, err := s.vault.Encrypt(in.Credential)
	if err != nil {
		return nil, fmt.Errorf("encrypt credential: %w", err)
	}

	now := time.Now().UTC()
	jewel := domain.Jewel{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Type:       in.Type,
		Blob:       blob,
		Validation: in.Validation,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.jewelStore.Save(ctx, jewel); err != nil {
		return nil, fmt.Errorf("save jewel: %w", err)
	}
	return &jewel, nil
}

// Get retrieves a jewel by ID. The blob stays encrypted.
func (s *JewelService) Get(ctx context.Context, id string) (*domain.Jewel, error) {
	return s.jewelStore.Get(ctx, id)
}

// List returns all jewels.
func (s *JewelService) List(ctx context.Context) ([]domain.Jewel, error) {
	return s.jewelStore.List(ctx)
}

// Usage returns the sources referencing a jewel.
func (s *JewelService) Usage(ctx context.Context, id string) ([]domain.Source, error) {
	if _, err := s.jewelStore.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.sourceStore.ListByJewel(ctx, id)
}

// Delete removes a jewel. Refused while sources still reference it.
func (s *JewelService) Delete(ctx context.Context, id string) error {
	sources, err := s.sourceStore.ListByJewel(ctx, id)
	if err != nil {
		return err
	}
	if len(sources) > 0 {
		return fmt.Errorf("%w: %d source(s)", domain.ErrJewelInUse, len(sources))
	}
	return s.jewelStore.Delete(ctx, id)
}
