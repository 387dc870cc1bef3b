package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

func TestQuptStore_BatchInsertSkipsDuplicates(t *testing.T) {
	store := NewQuptStore()
	ctx := context.Background()
	now := time.Now().UTC()

	inserted, err := store.BatchInsert(ctx, []domain.Qupt{
		{ID: "q1", EntanglementID: "ent-1", ExternalID: "github:1", CreatedAt: now},
		{ID: "q2", EntanglementID: "ent-1", ExternalID: "github:2", CreatedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	inserted, err = store.BatchInsert(ctx, []domain.Qupt{
		{ID: "q3", EntanglementID: "ent-1", ExternalID: "github:2", CreatedAt: now},
		{ID: "q4", EntanglementID: "ent-1", ExternalID: "github:3", CreatedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestQuptStore_ListNewestFirst(t *testing.T) {
	store := NewQuptStore()
	ctx := context.Background()
	base := time.Now().UTC()

	_, err := store.BatchInsert(ctx, []domain.Qupt{
		{ID: "q1", EntanglementID: "ent-1", ExternalID: "a", CreatedAt: base},
		{ID: "q2", EntanglementID: "ent-1", ExternalID: "b", CreatedAt: base.Add(time.Hour)},
		{ID: "q3", EntanglementID: "other", ExternalID: "c", CreatedAt: base},
	})
	require.NoError(t, err)

	qupts, err := store.List(ctx, "ent-1", 10)
	require.NoError(t, err)
	require.Len(t, qupts, 2)
	assert.Equal(t, "q2", qupts[0].ID)
}

func TestQuptStore_DeleteBySource(t *testing.T) {
	store := NewQuptStore()
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := store.BatchInsert(ctx, []domain.Qupt{
		{ID: "q1", EntanglementID: "ent-1", Source: "github", ExternalID: "github:1", CreatedAt: now},
		{ID: "q2", EntanglementID: "ent-1", Source: "gmail", ExternalID: "gmail:1", CreatedAt: now},
	})
	require.NoError(t, err)

	require.NoError(t, store.DeleteBySource(ctx, "ent-1", "github"))

	qupts, err := store.List(ctx, "ent-1", 10)
	require.NoError(t, err)
	require.Len(t, qupts, 1)
	assert.Equal(t, "gmail", qupts[0].Source)

	// the freed external ID can be ingested again
	inserted, err := store.BatchInsert(ctx, []domain.Qupt{
		{ID: "q5", EntanglementID: "ent-1", Source: "github", ExternalID: "github:1", CreatedAt: now},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}
