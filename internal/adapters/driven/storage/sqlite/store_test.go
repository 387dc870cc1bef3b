package sqlite

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "entangled-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestEntanglement creates an entanglement to satisfy foreign key
// constraints on sources and qupts.
func createTestEntanglement(t *testing.T, store *Store, id string) {
	t.Helper()
	err := store.EntanglementStore().Save(context.Background(), domain.Entanglement{
		ID:   id,
		Name: "Entanglement " + id,
	})
	require.NoError(t, err)
}

func testQupt(entanglementID, externalID string, at time.Time) domain.Qupt {
	return domain.Qupt{
		ID:             "qupt-" + externalID,
		EntanglementID: entanglementID,
		Content:        "activity " + externalID,
		Source:         "github",
		ExternalID:     externalID,
		Metadata:       map[string]any{"repo": "acme/widgets"},
		CreatedAt:      at,
	}
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "entangled-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "entangled.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	assert.NoError(t, store.db.Ping())
}

func TestSourceStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestEntanglement(t, store, "ent-1")

	lastSync := time.Now().UTC().Truncate(time.Second)
	source := domain.Source{
		ID:             "src-1",
		EntanglementID: "ent-1",
		Type:           "github",
		Name:           "widgets repo",
		Config:         json.RawMessage(`{"owner":"acme","repo":"widgets"}`),
		JewelID:        "jewel-1",
		Enabled:        true,
		LastSync:       &lastSync,
		SyncCursor:     "42",
	}

	// jewel must exist before the source can reference it
	require.NoError(t, store.JewelStore().Save(ctx, domain.Jewel{
		ID: "jewel-1", Name: "gh token", Type: "github", Blob: []byte{1, 2, 3},
	}))
	require.NoError(t, store.SourceStore().Save(ctx, source))

	got, err := store.SourceStore().Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, "ent-1", got.EntanglementID)
	assert.Equal(t, "github", got.Type)
	assert.JSONEq(t, `{"owner":"acme","repo":"widgets"}`, string(got.Config))
	assert.Equal(t, "jewel-1", got.JewelID)
	assert.True(t, got.Enabled)
	require.NotNil(t, got.LastSync)
	assert.WithinDuration(t, lastSync, *got.LastSync, time.Second)
	assert.Equal(t, "42", got.SyncCursor)
	assert.Empty(t, got.LastError)
	assert.Zero(t, got.ErrorCount)
}

func TestSourceStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.SourceStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_ListEnabled(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestEntanglement(t, store, "ent-1")
	require.NoError(t, store.SourceStore().Save(ctx, domain.Source{
		ID: "src-on", EntanglementID: "ent-1", Type: "github", Name: "on",
		Config: json.RawMessage(`{}`), Enabled: true,
	}))
	require.NoError(t, store.SourceStore().Save(ctx, domain.Source{
		ID: "src-off", EntanglementID: "ent-1", Type: "github", Name: "off",
		Config: json.RawMessage(`{}`), Enabled: false,
	}))

	enabled, err := store.SourceStore().ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "src-on", enabled[0].ID)

	all, err := store.SourceStore().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSourceStore_ListByJewel(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestEntanglement(t, store, "ent-1")
	require.NoError(t, store.JewelStore().Save(ctx, domain.Jewel{
		ID: "jewel-1", Name: "shared", Type: "zammad", Blob: []byte{9},
	}))
	require.NoError(t, store.SourceStore().Save(ctx, domain.Source{
		ID: "src-a", EntanglementID: "ent-1", Type: "zammad", Name: "a",
		Config: json.RawMessage(`{}`), JewelID: "jewel-1",
	}))
	require.NoError(t, store.SourceStore().Save(ctx, domain.Source{
		ID: "src-b", EntanglementID: "ent-1", Type: "zammad", Name: "b",
		Config: json.RawMessage(`{}`),
	}))

	refs, err := store.SourceStore().ListByJewel(ctx, "jewel-1")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "src-a", refs[0].ID)
}

func TestSourceStore_UpdateSyncState(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestEntanglement(t, store, "ent-1")
	require.NoError(t, store.SourceStore().Save(ctx, domain.Source{
		ID: "src-1", EntanglementID: "ent-1", Type: "zammad", Name: "tickets",
		Config: json.RawMessage(`{}`), Enabled: true,
	}))

	// record a failure
	errMsg := "zammad API error (status 401)"
	count := 1
	errAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.SourceStore().UpdateSyncState(ctx, "src-1", domain.SyncStatePatch{
		LastError:   &errMsg,
		ErrorCount:  &count,
		LastErrorAt: &errAt,
	}))

	got, err := store.SourceStore().Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Equal(t, errMsg, got.LastError)
	assert.Equal(t, 1, got.ErrorCount)
	require.NotNil(t, got.LastErrorAt)
	assert.Nil(t, got.LastSync, "failure must not touch last_sync")
	assert.Empty(t, got.SyncCursor, "failure must not touch the cursor")

	// success clears the error state
	now := time.Now().UTC().Truncate(time.Second)
	cursor := "3"
	require.NoError(t, store.SourceStore().UpdateSyncState(ctx, "src-1", domain.SyncStatePatch{
		LastSync:   &now,
		SyncCursor: &cursor,
		ClearError: true,
	}))

	got, err = store.SourceStore().Get(ctx, "src-1")
	require.NoError(t, err)
	assert.Empty(t, got.LastError)
	assert.Zero(t, got.ErrorCount)
	assert.Nil(t, got.LastErrorAt)
	require.NotNil(t, got.LastSync)
	assert.Equal(t, "3", got.SyncCursor)
}

func TestSourceStore_UpdateSyncStateNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	err := store.SourceStore().UpdateSyncState(context.Background(), "missing", domain.SyncStatePatch{
		ClearError: true,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuptStore_BatchInsertSkipsDuplicates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestEntanglement(t, store, "ent-1")
	now := time.Now().UTC().Truncate(time.Second)

	first := []domain.Qupt{
		testQupt("ent-1", "github:100", now),
		testQupt("ent-1", "github:101", now.Add(time.Minute)),
	}
	inserted, err := store.QuptStore().BatchInsert(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// overlapping batch: one known external ID, one new
	second := []domain.Qupt{
		testQupt("ent-1", "github:101", now.Add(time.Minute)),
		testQupt("ent-1", "github:102", now.Add(2*time.Minute)),
	}
	inserted, err = store.QuptStore().BatchInsert(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	qupts, err := store.QuptStore().List(ctx, "ent-1", 10)
	require.NoError(t, err)
	assert.Len(t, qupts, 3)
}

func TestQuptStore_BatchInsertEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	inserted, err := store.QuptStore().BatchInsert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestQuptStore_ListNewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestEntanglement(t, store, "ent-1")
	base := time.Now().UTC().Truncate(time.Second)
	batch := []domain.Qupt{
		testQupt("ent-1", "github:1", base),
		testQupt("ent-1", "github:2", base.Add(time.Hour)),
		testQupt("ent-1", "github:3", base.Add(30*time.Minute)),
	}
	_, err := store.QuptStore().BatchInsert(ctx, batch)
	require.NoError(t, err)

	qupts, err := store.QuptStore().List(ctx, "ent-1", 2)
	require.NoError(t, err)
	require.Len(t, qupts, 2)
	assert.Equal(t, "github:2", qupts[0].ExternalID)
	assert.Equal(t, "github:3", qupts[1].ExternalID)
	assert.Equal(t, "acme/widgets", qupts[0].Metadata["repo"])
}

func TestQuptStore_DeleteBySource(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	createTestEntanglement(t, store, "ent-1")
	now := time.Now().UTC()
	gh := testQupt("ent-1", "github:1", now)
	zd := testQupt("ent-1", "zammad:article:7", now)
	zd.Source = "zammad"
	_, err := store.QuptStore().BatchInsert(ctx, []domain.Qupt{gh, zd})
	require.NoError(t, err)

	require.NoError(t, store.QuptStore().DeleteBySource(ctx, "ent-1", "github"))

	qupts, err := store.QuptStore().List(ctx, "ent-1", 10)
	require.NoError(t, err)
	require.Len(t, qupts, 1)
	assert.Equal(t, "zammad", qupts[0].Source)
}

func TestJewelStore_Roundtrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	jewel := domain.Jewel{
		ID:   "jewel-1",
		Name: "drive service account",
		Type: "gdrive",
		Blob: []byte{0xde, 0xad, 0xbe, 0xef},
		Validation: domain.JewelValidation{
			Email:       "sync-bot@example.com",
			ValidatedAt: time.Now().UTC().Truncate(time.Second),
		},
	}
	require.NoError(t, store.JewelStore().Save(ctx, jewel))

	got, err := store.JewelStore().Get(ctx, "jewel-1")
	require.NoError(t, err)
	assert.Equal(t, jewel.Blob, got.Blob)
	assert.Equal(t, "sync-bot@example.com", got.Validation.Email)

	jewels, err := store.JewelStore().List(ctx)
	require.NoError(t, err)
	assert.Len(t, jewels, 1)

	require.NoError(t, store.JewelStore().Delete(ctx, "jewel-1"))
	_, err = store.JewelStore().Get(ctx, "jewel-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntanglementStore_Children(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.EntanglementStore().Save(ctx, domain.Entanglement{
		ID: "root", Name: "Platform",
	}))
	require.NoError(t, store.EntanglementStore().Save(ctx, domain.Entanglement{
		ID: "child-1", ParentID: "root", Name: "Billing",
	}))
	require.NoError(t, store.EntanglementStore().Save(ctx, domain.Entanglement{
		ID: "child-2", ParentID: "root", Name: "Search",
	}))

	children, err := store.EntanglementStore().ListChildren(ctx, "root")
	require.NoError(t, err)
	assert.Len(t, children, 2)

	got, err := store.EntanglementStore().Get(ctx, "child-1")
	require.NoError(t, err)
	assert.Equal(t, "root", got.ParentID)
}

func TestZokuStore_Roundtrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.ZokuStore().Save(ctx, domain.Zoku{
		ID: "zoku-1", Name: "Ada", Kind: "human", Email: "ada@example.com",
	}))

	got, err := store.ZokuStore().Get(ctx, "zoku-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)

	zoku, err := store.ZokuStore().List(ctx)
	require.NoError(t, err)
	assert.Len(t, zoku, 1)
}

func TestSyncRunStore_RecordAndPrune(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SyncRunStore().Record(ctx, domain.SyncRun{
			ID:            string(rune('a' + i)),
			StartedAt:     base.Add(time.Duration(i) * time.Minute),
			EndedAt:       base.Add(time.Duration(i)*time.Minute + 30*time.Second),
			Succeeded:     2,
			Failed:        1,
			QuptsInserted: i,
		}))
	}

	runs, err := store.SyncRunStore().List(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "e", runs[0].ID, "newest first")

	require.NoError(t, store.SyncRunStore().Prune(ctx, 2))
	runs, err = store.SyncRunStore().List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "e", runs[0].ID)
	assert.Equal(t, "d", runs[1].ID)
}
