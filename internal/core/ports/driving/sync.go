package driving

import (
	"context"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// SyncOrchestrator executes sync attempts against configured sources.
type SyncOrchestrator interface {
	// Sync executes exactly one sync attempt for one source: resolve the
	// handler, resolve and decrypt credentials, collect a batch, persist
	// it idempotently, and update the source's sync state. On failure the
	// source's last_sync and cursor are left untouched so the next
	// attempt retries the same window.
	Sync(ctx context.Context, sourceID string) (*domain.SyncOutcome, error)

	// SyncAll runs Sync over every enabled source with failure isolation:
	// one source's error never prevents the others from being attempted.
	// Returns the aggregate run summary.
	SyncAll(ctx context.Context) (*domain.SyncRun, error)
}

// Scheduler runs SyncAll on a timer.
type Scheduler interface {
	// Start begins the scheduler loop. Blocks until the context is
	// cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the scheduler, waiting for an in-flight
	// tick to finish.
	Stop() error
}
