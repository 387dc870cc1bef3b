package driving

import (
	"context"
	"encoding/json"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// CreateSourceInput is the input for creating a source.
type CreateSourceInput struct {
	EntanglementID string
	Type           string
	Name           string
	Config         json.RawMessage

	// JewelID references a stored jewel. Mutually exclusive with
	// Credential.
	JewelID string

	// Credential is a plaintext credential payload to encrypt inline.
	Credential json.RawMessage

	// BackdateDays backdates the initial last_sync to bootstrap history.
	// Zero means start from now.
	BackdateDays int
}

// SourceService manages source configuration.
type SourceService interface {
	// Create validates and stores a new source.
	Create(ctx context.Context, in CreateSourceInput) (*domain.Source, error)

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns sources, optionally filtered by entanglement.
	List(ctx context.Context, entanglementID string) ([]domain.Source, error)

	// SetEnabled toggles a source.
	SetEnabled(ctx context.Context, id string, enabled bool) error

	// Delete removes a source, optionally cascading its qupts.
	Delete(ctx context.Context, id string, cascadeQupts bool) error
}

// QuptService manages qupts.
type QuptService interface {
	// Create stores a manually-created qupt (source "manual").
	Create(ctx context.Context, q domain.Qupt) (*domain.Qupt, error)

	// List returns qupts for an entanglement, newest first.
	List(ctx context.Context, entanglementID string, limit int) ([]domain.Qupt, error)
}

// EntanglementService manages entanglements.
type EntanglementService interface {
	Create(ctx context.Context, e domain.Entanglement) (*domain.Entanglement, error)
	Get(ctx context.Context, id string) (*domain.Entanglement, error)
	List(ctx context.Context) ([]domain.Entanglement, error)
	ListChildren(ctx context.Context, parentID string) ([]domain.Entanglement, error)
	Update(ctx context.Context, e domain.Entanglement) error
	Delete(ctx context.Context, id string) error
}

// ZokuService manages zoku.
type ZokuService interface {
	Create(ctx context.Context, z domain.Zoku) (*domain.Zoku, error)
	Get(ctx context.Context, id string) (*domain.Zoku, error)
	List(ctx context.Context) ([]domain.Zoku, error)
}

// CreateJewelInput is the input for storing a credential.
type CreateJewelInput struct {
	Name string
	Type string

	// Credential is the plaintext payload to encrypt.
	Credential json.RawMessage

	// Validation is plaintext metadata about the validated account.
	Validation domain.JewelValidation
}

// JewelService manages encrypted credentials.
type JewelService interface {
	// Create encrypts and stores a new jewel.
	Create(ctx context.Context, in CreateJewelInput) (*domain.Jewel, error)

	// Get retrieves a jewel by ID. The blob stays encrypted.
	Get(ctx context.Context, id string) (*domain.Jewel, error)

	// List returns all jewels.
	List(ctx context.Context) ([]domain.Jewel, error)

	// Usage returns the sources referencing a jewel.
	Usage(ctx context.Context, id string) ([]domain.Source, error)

	// Delete removes a jewel. Fails with domain.ErrJewelInUse while
	// sources still reference it.
	Delete(ctx context.Context, id string) error
}
