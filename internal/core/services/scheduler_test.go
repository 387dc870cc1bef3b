package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entangle-labs/entangled/internal/adapters/driven/storage/memory"
	"github.com/entangle-labs/entangled/internal/core/domain"
)

// mockOrchestrator implements driving.SyncOrchestrator for scheduler tests.
type mockOrchestrator struct {
	mu    sync.Mutex
	calls int
	run   domain.SyncRun
}

func (m *mockOrchestrator) Sync(_ context.Context, sourceID string) (*domain.SyncOutcome, error) {
	return &domain.SyncOutcome{SourceID: sourceID}, nil
}

func (m *mockOrchestrator) SyncAll(_ context.Context) (*domain.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	run := m.run
	run.ID = time.Now().Format("150405.000000000")
	run.StartedAt = time.Now().UTC()
	run.EndedAt = run.StartedAt
	return &run, nil
}

func (m *mockOrchestrator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestScheduler_TicksImmediatelyAndOnInterval(t *testing.T) {
	orch := &mockOrchestrator{run: domain.SyncRun{Succeeded: 2}}
	runStore := memory.NewSyncRunStore()
	s := NewScheduler(domain.SchedulerConfig{
		Interval: 20 * time.Millisecond,
		Enabled:  true,
	}, runStore, orch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// immediate tick plus at least one interval tick
	require.Eventually(t, func() bool { return orch.callCount() >= 2 },
		time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	cancel()
	<-done

	runs, err := runStore.List(context.Background(), 10)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(runs), 2)
	assert.Equal(t, 2, runs[0].Succeeded)
}

func TestScheduler_DisabledDoesNotTick(t *testing.T) {
	orch := &mockOrchestrator{}
	s := NewScheduler(domain.SchedulerConfig{
		Interval: 5 * time.Millisecond,
		Enabled:  false,
	}, memory.NewSyncRunStore(), orch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	assert.Zero(t, orch.callCount())
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	orch := &mockOrchestrator{}
	s := NewScheduler(domain.SchedulerConfig{
		Interval: time.Hour,
		Enabled:  true,
	}, memory.NewSyncRunStore(), orch)

	ctx := context.Background()
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return orch.callCount() == 1 },
		time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
	assert.NoError(t, <-done)
}

func TestScheduler_PrunesRunHistory(t *testing.T) {
	orch := &mockOrchestrator{}
	runStore := memory.NewSyncRunStore()

	// preload beyond the retention window
	for i := 0; i < runHistoryKeep+10; i++ {
		require.NoError(t, runStore.Record(context.Background(), domain.SyncRun{
			ID:        time.Now().Format("150405") + string(rune('a'+i%26)),
			StartedAt: time.Now().UTC().Add(time.Duration(-i) * time.Minute),
		}))
	}

	s := NewScheduler(domain.SchedulerConfig{
		Interval: time.Hour,
		Enabled:  true,
	}, runStore, orch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return orch.callCount() == 1 },
		time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())
	cancel()
	<-done

	runs, err := runStore.List(context.Background(), runHistoryKeep*2)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(runs), runHistoryKeep)
}
