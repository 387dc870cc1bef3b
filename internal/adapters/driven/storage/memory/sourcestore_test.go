package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

func TestSourceStore_SaveGetDelete(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	source := domain.Source{ID: "src-1", Type: "github", Name: "widgets", Enabled: true}
	require.NoError(t, store.Save(ctx, source))

	got, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "widgets", got.Name)

	require.NoError(t, store.Delete(ctx, "src-1"))
	_, err = store.Get(ctx, "src-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_ListEnabled(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Source{ID: "on", Enabled: true}))
	require.NoError(t, store.Save(ctx, domain.Source{ID: "off", Enabled: false}))

	enabled, err := store.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "on", enabled[0].ID)
}

func TestSourceStore_UpdateSyncState(t *testing.T) {
	store := NewSourceStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.Source{ID: "src-1", Enabled: true}))

	msg := "boom"
	count := 3
	at := time.Now().UTC()
	require.NoError(t, store.UpdateSyncState(ctx, "src-1", domain.SyncStatePatch{
		LastError: &msg, ErrorCount: &count, LastErrorAt: &at,
	}))

	got, err := store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "boom", got.LastError)
	assert.Equal(t, 3, got.ErrorCount)
	assert.Nil(t, got.LastSync)

	now := time.Now().UTC()
	cursor := "next"
	require.NoError(t, store.UpdateSyncState(ctx, "src-1", domain.SyncStatePatch{
		LastSync: &now, SyncCursor: &cursor, ClearError: true,
	}))

	got, err = store.Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Empty(t, got.LastError)
	assert.Zero(t, got.ErrorCount)
	assert.Equal(t, "next", got.SyncCursor)
	require.NotNil(t, got.LastSync)
}

func TestSourceStore_UpdateSyncStateNotFound(t *testing.T) {
	store := NewSourceStore()
	err := store.UpdateSyncState(context.Background(), "missing", domain.SyncStatePatch{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
