package driven

import (
	"context"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// SourceStore persists source configurations and sync state.
type SourceStore interface {
	// Save stores or updates a source.
	Save(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// Delete removes a source.
	Delete(ctx context.Context, id string) error

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)

	// ListEnabled returns all sources with Enabled set.
	ListEnabled(ctx context.Context) ([]domain.Source, error)

	// ListByJewel returns all sources referencing a jewel.
	ListByJewel(ctx context.Context, jewelID string) ([]domain.Source, error)

	// UpdateSyncState applies a partial sync-state update to a source.
	// Only state fields are touched, never Config or Type.
	UpdateSyncState(ctx context.Context, id string, patch domain.SyncStatePatch) error
}

// QuptStore persists qupts.
type QuptStore interface {
	// BatchInsert stores a batch of qupts with insert-or-skip semantics:
	// rows whose ExternalID already exists are silently ignored, never
	// erroring the batch and never overwriting the existing row.
	// Returns the number of rows actually inserted.
	BatchInsert(ctx context.Context, qupts []domain.Qupt) (int, error)

	// Get retrieves a qupt by ID.
	Get(ctx context.Context, id string) (*domain.Qupt, error)

	// List returns qupts for an entanglement, newest first, up to limit.
	List(ctx context.Context, entanglementID string, limit int) ([]domain.Qupt, error)

	// DeleteBySource removes all qupts ingested for a source's
	// entanglement and provider tag. Used when a source is deleted with
	// cascade.
	DeleteBySource(ctx context.Context, entanglementID, provider string) error
}

// JewelStore persists encrypted credentials.
type JewelStore interface {
	// Save stores or updates a jewel.
	Save(ctx context.Context, jewel domain.Jewel) error

	// Get retrieves a jewel by ID.
	Get(ctx context.Context, id string) (*domain.Jewel, error)

	// Delete removes a jewel.
	Delete(ctx context.Context, id string) error

	// List returns all jewels.
	List(ctx context.Context) ([]domain.Jewel, error)
}

// EntanglementStore persists entanglements.
type EntanglementStore interface {
	// Save stores or updates an entanglement.
	Save(ctx context.Context, e domain.Entanglement) error

	// Get retrieves an entanglement by ID.
	Get(ctx context.Context, id string) (*domain.Entanglement, error)

	// Delete removes an entanglement.
	Delete(ctx context.Context, id string) error

	// List returns all entanglements.
	List(ctx context.Context) ([]domain.Entanglement, error)

	// ListChildren returns direct children of an entanglement.
	ListChildren(ctx context.Context, parentID string) ([]domain.Entanglement, error)
}

// ZokuStore persists zoku.
type ZokuStore interface {
	// Save stores or updates a zoku.
	Save(ctx context.Context, z domain.Zoku) error

	// Get retrieves a zoku by ID.
	Get(ctx context.Context, id string) (*domain.Zoku, error)

	// List returns all zoku.
	List(ctx context.Context) ([]domain.Zoku, error)
}

// SyncRunStore records scheduler run summaries.
type SyncRunStore interface {
	// Record stores a completed run summary.
	Record(ctx context.Context, run domain.SyncRun) error

	// List returns the most recent runs, newest first, up to limit.
	List(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// Prune removes all but the most recent keep runs.
	Prune(ctx context.Context, keep int) error
}
