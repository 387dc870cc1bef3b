package services

import (
	"context"
	"sync"
	"time"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
	"github.com/entangle-labs/entangled/internal/logger"
)

// runHistoryKeep is how many scheduler run summaries are retained.
const runHistoryKeep = 100

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler drives the sync orchestrator on a timer. Each tick attempts
// every enabled source with failure isolation: one source's error never
// aborts the others. The resulting run summary is persisted for
// observability; scheduled runs have no caller to respond to.
type Scheduler struct {
	config   domain.SchedulerConfig
	runStore driven.SyncRunStore
	syncOrch driving.SyncOrchestrator

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler with configuration.
func NewScheduler(
	config domain.SchedulerConfig,
	runStore driven.SyncRunStore,
	syncOrch driving.SyncOrchestrator,
) *Scheduler {
	return &Scheduler{
		config:   config,
		runStore: runStore,
		syncOrch: syncOrch,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is called
// or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	if !s.config.Enabled {
		logger.Info("Scheduler disabled by configuration")
		<-ctx.Done()
		return ctx.Err()
	}

	// Run a tick immediately on startup, then on the interval.
	s.tick(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// Stop gracefully shuts down the scheduler and waits for an in-flight tick.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// tick runs one scheduled pass over all enabled sources.
func (s *Scheduler) tick(ctx context.Context) {
	s.wg.Add(1)
	defer s.wg.Done()

	run, err := s.syncOrch.SyncAll(ctx)
	if err != nil {
		// SyncAll fails only on listing sources; individual source
		// failures are already captured in the run summary.
		logger.Error("Scheduler tick failed: %v", err)
		return
	}

	if s.runStore == nil {
		return
	}
	if err := s.runStore.Record(ctx, *run); err != nil {
		logger.Warn("Failed to record sync run: %v", err)
	}
	if err := s.runStore.Prune(ctx, runHistoryKeep); err != nil {
		logger.Warn("Failed to prune run history: %v", err)
	}
}
