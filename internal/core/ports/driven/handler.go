package driven

import (
	"context"
	"encoding/json"
	"time"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// CollectRequest is the input for one handler invocation.
type CollectRequest struct {
	// Source is the source being synced. Handlers read identity fields
	// only; sync-state mutation is the orchestrator's job.
	Source domain.Source

	// Config is the source's raw provider-specific configuration.
	// Each handler parses and validates its own shape.
	Config json.RawMessage

	// Credentials is the decrypted credential payload for this source.
	Credentials json.RawMessage

	// Since is the lower-bound timestamp filter, taken from the source's
	// last successful sync. Nil on the first run. Events at or before
	// Since must be excluded to prevent duplicate emission across runs.
	Since *time.Time

	// Cursor is the previous call's returned cursor. Empty means "start
	// from the provider's default view".
	Cursor string
}

// CollectResult is one finite, in-memory batch of normalized activity.
type CollectResult struct {
	// Qupts are the collected events. EntanglementID is filled in by the
	// orchestrator before persistence.
	Qupts []domain.Qupt

	// Cursor is the resume token for the next invocation. Empty means the
	// next run starts from the provider's default view.
	Cursor string
}

// Handler pulls activity from one external provider and normalizes it into
// qupts. Implementations must return a bounded batch per call; unbounded
// iteration happens across scheduler ticks via the cursor, not within one
// call.
//
// Failure policy is handler-specific but must be one of two modes: swallow
// transient provider errors and return an empty batch with an empty cursor
// so the next run retries from scratch, or propagate the error so the
// orchestrator records a sync failure that surfaces to the user.
type Handler interface {
	// Type returns the source type tag this handler serves.
	Type() string

	// Collect fetches one batch of activity.
	Collect(ctx context.Context, req CollectRequest) (*CollectResult, error)
}

// HandlerRegistry resolves a source type tag to its handler. A lookup miss
// is a configuration error for that source, not a transient failure.
type HandlerRegistry interface {
	// Resolve returns the handler for a source type, or
	// domain.ErrNoHandler when none is registered.
	Resolve(sourceType string) (Handler, error)

	// Types returns all registered source type tags.
	Types() []string
}
