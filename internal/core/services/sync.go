package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
	"github.com/entangle-labs/entangled/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// SyncOrchestrator executes sync attempts for sources: it resolves the
// handler and credentials, collects one batch of activity, persists it
// idempotently, and updates the source's sync state.
//
// Retry policy lives here and nowhere else: a failed attempt leaves
// last_sync and sync_cursor untouched, so the next scheduler tick or
// manual trigger retries the same window. There is no backoff and no
// retry cutoff; error_count is informational.
type SyncOrchestrator struct {
	sourceStore driven.SourceStore
	quptStore   driven.QuptStore
	jewelStore  driven.JewelStore
	registry    driven.HandlerRegistry
	vault       driven.Vault

	// One in-flight sync per source at a time. Serialises manual-trigger
	// and scheduler-tick races on the same Source row.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	sourceStore driven.SourceStore,
	quptStore driven.QuptStore,
	jewelStore driven.JewelStore,
	registry driven.HandlerRegistry,
	vault driven.Vault,
) *SyncOrchestrator {
	return &SyncOrchestrator{
		sourceStore: sourceStore,
		quptStore:   quptStore,
		jewelStore:  jewelStore,
		registry:    registry,
		vault:       vault,
		inFlight:    make(map[string]struct{}),
	}
}

// Sync executes exactly one sync attempt for one source.
func (o *SyncOrchestrator) Sync(ctx context.Context, sourceID string) (*domain.SyncOutcome, error) {
	source, err := o.sourceStore.Get(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if !source.Enabled {
		return nil, fmt.Errorf("%w: %s", domain.ErrSourceDisabled, source.ID)
	}

	if !o.acquire(sourceID) {
		return nil, domain.ErrSyncInProgress
	}
	defer o.release(sourceID)

	// 1. Resolve the handler. A miss is a configuration error: it is
	// recorded as last_error for visibility but does not touch the
	// retry-oriented error counter, since no retry will resolve it.
	handler, err := o.registry.Resolve(source.Type)
	if err != nil {
		o.recordConfigError(ctx, source, err.Error())
		return nil, err
	}

	// 2. Resolve and decrypt credentials. All supported source types
	// require them; an absent credential aborts with a clear error
	// rather than a masked handler failure.
	credentials, jewel, err := o.resolveCredentials(ctx, source)
	if err != nil {
		o.recordFailure(ctx, source, o.sanitize(err, jewel))
		return nil, err
	}

	logger.Info("Starting sync for source %s (%s)", source.ID, source.Type)

	// 3. Collect one batch.
	result, err := handler.Collect(ctx, driven.CollectRequest{
		Source:      *source,
		Config:      source.Config,
		Credentials: credentials,
		Since:       source.LastSync,
		Cursor:      source.SyncCursor,
	})
	if err != nil {
		msg := o.sanitize(err, jewel)
		// A handler rejecting its own config is a configuration error,
		// not a retryable failure.
		if errors.Is(err, domain.ErrInvalidConfig) {
			o.recordConfigError(ctx, source, msg)
		} else {
			o.recordFailure(ctx, source, msg)
		}
		return nil, fmt.Errorf("collect %s: %s", source.Type, msg)
	}

	// 4. Persist the batch idempotently.
	inserted := 0
	if len(result.Qupts) > 0 {
		batch := make([]domain.Qupt, len(result.Qupts))
		for i, q := range result.Qupts {
			if q.ID == "" {
				q.ID = uuid.NewString()
			}
			q.EntanglementID = source.EntanglementID
			if q.Source == "" {
				q.Source = source.Type
			}
			batch[i] = q
		}
		inserted, err = o.quptStore.BatchInsert(ctx, batch)
		if err != nil {
			msg := o.sanitize(err, jewel)
			o.recordFailure(ctx, source, msg)
			return nil, fmt.Errorf("persist qupts: %s", msg)
		}
	}

	// 5. Advance sync state and clear error tracking.
	now := time.Now().UTC()
	cursor := result.Cursor
	patch := domain.SyncStatePatch{
		LastSync:   &now,
		SyncCursor: &cursor,
		ClearError: true,
	}
	if err := o.sourceStore.UpdateSyncState(ctx, source.ID, patch); err != nil {
		return nil, fmt.Errorf("update sync state: %w", err)
	}

	logger.Info("Sync complete for %s: %d collected, %d inserted", source.ID, len(result.Qupts), inserted)

	return &domain.SyncOutcome{
		SourceID:  source.ID,
		Collected: len(result.Qupts),
		Inserted:  inserted,
		Cursor:    result.Cursor,
	}, nil
}

// SyncAll runs Sync over every enabled source with failure isolation and
// returns the aggregate run summary.
func (o *SyncOrchestrator) SyncAll(ctx context.Context) (*domain.SyncRun, error) {
	sources, err := o.sourceStore.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enabled sources: %w", err)
	}

	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, source := range sources {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			outcome, syncErr := o.Sync(ctx, id)

			mu.Lock()
			defer mu.Unlock()
			if syncErr != nil {
				run.Failed++
				logger.Warn("Sync failed for source %s: %v", id, syncErr)
				return
			}
			run.Succeeded++
			run.QuptsInserted += outcome.Inserted
		}(source.ID)
	}
	wg.Wait()

	run.EndedAt = time.Now().UTC()
	logger.Info("Sync run complete: %d succeeded, %d failed, %d qupts", run.Succeeded, run.Failed, run.QuptsInserted)
	return run, nil
}

// resolveCredentials fetches and decrypts the source's credential material.
// Exactly one of the jewel reference and the inline blob is active; the
// jewel wins when both are somehow present. The returned jewel is nil for
// inline credentials.
func (o *SyncOrchestrator) resolveCredentials(
	ctx context.Context, source *domain.Source,
) (json.RawMessage, *domain.Jewel, error) {
	switch {
	case source.JewelID != "":
		jewel, err := o.jewelStore.Get(ctx, source.JewelID)
		if err != nil {
			return nil, nil, fmt.Errorf("get jewel %s: %w", source.JewelID, err)
		}
		plaintext, err := o.vault.Decrypt(jewel.Blob)
		if err != nil {
			return nil, jewel, fmt.Errorf("decrypt jewel %s: %w", source.JewelID, err)
		}
		return plaintext, jewel, nil

	case len(source.CredentialBlob) > 0:
		plaintext, err := o.vault.Decrypt(source.CredentialBlob)
		if err != nil {
			return nil, nil, fmt.Errorf("decrypt credential: %w", err)
		}
		return plaintext, nil, nil

	default:
		return nil, nil, fmt.Errorf("%w for source type %q", domain.ErrJewelRequired, source.Type)
	}
}

// sanitize translates a provider error into a user-facing message. The
// orchestrator is the single point where raw provider errors become
// persisted state; known shapes get a friendlier rewrite that names the
// remediation.
func (o *SyncOrchestrator) sanitize(err error, jewel *domain.Jewel) string {
	msg := err.Error()

	if jewel != nil && jewel.Validation.Email != "" && isPermissionDenied(msg) {
		return fmt.Sprintf(
			"permission denied: share the resource with %s and retry",
			jewel.Validation.Email,
		)
	}

	if errors.Is(err, domain.ErrVaultKey) {
		return "stored credential could not be decrypted; re-add the credential"
	}

	return msg
}

// isPermissionDenied matches the provider permission-denied shape that gets
// rewritten to name the account needing access.
func isPermissionDenied(msg string) bool {
	return strings.Contains(msg, "403") && strings.Contains(msg, "does not have permission")
}

// recordFailure persists error-tracking state for a failed attempt.
// last_sync and sync_cursor are deliberately left untouched so the next
// attempt retries the same window.
func (o *SyncOrchestrator) recordFailure(ctx context.Context, source *domain.Source, msg string) {
	now := time.Now().UTC()
	count := source.ErrorCount + 1
	patch := domain.SyncStatePatch{
		LastError:   &msg,
		ErrorCount:  &count,
		LastErrorAt: &now,
	}
	if err := o.sourceStore.UpdateSyncState(ctx, source.ID, patch); err != nil {
		logger.Error("Failed to record sync error for %s: %v", source.ID, err)
	}
}

// recordConfigError surfaces a configuration error without incrementing the
// retry-oriented error counter: retrying will never resolve it.
func (o *SyncOrchestrator) recordConfigError(ctx context.Context, source *domain.Source, msg string) {
	now := time.Now().UTC()
	patch := domain.SyncStatePatch{
		LastError:   &msg,
		LastErrorAt: &now,
	}
	if err := o.sourceStore.UpdateSyncState(ctx, source.ID, patch); err != nil {
		logger.Error("Failed to record config error for %s: %v", source.ID, err)
	}
}

func (o *SyncOrchestrator) acquire(sourceID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[sourceID]; busy {
		return false
	}
	o.inFlight[sourceID] = struct{}{}
	return true
}

func (o *SyncOrchestrator) release(sourceID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, sourceID)
}
