package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entangle-labs/entangled/internal/adapters/driven/storage/memory"
	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

type sourceServiceFixture struct {
	svc               *SourceService
	sourceStore       *memory.SourceStore
	quptStore         *memory.QuptStore
	entanglementStore *memory.EntanglementStore
}

func newSourceServiceFixture(t *testing.T) *sourceServiceFixture {
	t.Helper()
	f := &sourceServiceFixture{
		sourceStore:       memory.NewSourceStore(),
		quptStore:         memory.NewQuptStore(),
		entanglementStore: memory.NewEntanglementStore(),
	}
	registry := NewHandlerRegistry(
		&mockHandler{typ: "github"},
		&mockHandler{typ: "zammad"},
	)
	f.svc = NewSourceService(f.sourceStore, f.quptStore, f.entanglementStore,
		registry, &passthroughVault{})

	require.NoError(t, f.entanglementStore.Save(context.Background(), domain.Entanglement{
		ID: "ent-1", Name: "Platform",
	}))
	return f
}

func TestSourceService_Create(t *testing.T) {
	f := newSourceServiceFixture(t)

	source, err := f.svc.Create(context.Background(), driving.CreateSourceInput{
		EntanglementID: "ent-1",
		Type:           "github",
		Name:           "widgets repo",
		Config:         json.RawMessage(`{"owner":"acme","repo":"widgets"}`),
		Credential:     []byte(`{"token":"tok"}`),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, source.ID)
	assert.True(t, source.Enabled, "new sources start enabled")
	assert.Nil(t, source.LastSync)
	assert.NotEmpty(t, source.CredentialBlob)

	stored, err := f.sourceStore.Get(context.Background(), source.ID)
	require.NoError(t, err)
	assert.Equal(t, "widgets repo", stored.Name)
}

func TestSourceService_CreateBackdated(t *testing.T) {
	f := newSourceServiceFixture(t)

	source, err := f.svc.Create(context.Background(), driving.CreateSourceInput{
		EntanglementID: "ent-1",
		Type:           "github",
		Name:           "widgets repo",
		Config:         json.RawMessage(`{}`),
		JewelID:        "jewel-1",
		BackdateDays:   30,
	})
	require.NoError(t, err)
	require.NotNil(t, source.LastSync)

	wanted := time.Now().UTC().AddDate(0, 0, -30)
	assert.WithinDuration(t, wanted, *source.LastSync, time.Minute)
}

func TestSourceService_CreateRejectsUnknownType(t *testing.T) {
	f := newSourceServiceFixture(t)

	_, err := f.svc.Create(context.Background(), driving.CreateSourceInput{
		EntanglementID: "ent-1",
		Type:           "jira",
		Name:           "tickets",
	})
	assert.ErrorIs(t, err, domain.ErrNoHandler)
}

func TestSourceService_CreateRejectsBothCredentialForms(t *testing.T) {
	f := newSourceServiceFixture(t)

	_, err := f.svc.Create(context.Background(), driving.CreateSourceInput{
		EntanglementID: "ent-1",
		Type:           "github",
		JewelID:        "jewel-1",
		Credential:     []byte(`{"token":"tok"}`),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSourceService_CreateRequiresEntanglement(t *testing.T) {
	f := newSourceServiceFixture(t)

	_, err := f.svc.Create(context.Background(), driving.CreateSourceInput{
		EntanglementID: "missing",
		Type:           "github",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceService_ListFiltersByEntanglement(t *testing.T) {
	f := newSourceServiceFixture(t)
	ctx := context.Background()

	require.NoError(t, f.entanglementStore.Save(ctx, domain.Entanglement{ID: "ent-2", Name: "Search"}))

	_, err := f.svc.Create(ctx, driving.CreateSourceInput{
		EntanglementID: "ent-1", Type: "github", Name: "a", JewelID: "j",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, driving.CreateSourceInput{
		EntanglementID: "ent-2", Type: "zammad", Name: "b", JewelID: "j",
	})
	require.NoError(t, err)

	all, err := f.svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := f.svc.List(ctx, "ent-2")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].Name)
}

func TestSourceService_SetEnabled(t *testing.T) {
	f := newSourceServiceFixture(t)
	ctx := context.Background()

	source, err := f.svc.Create(ctx, driving.CreateSourceInput{
		EntanglementID: "ent-1", Type: "github", Name: "a", JewelID: "j",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.SetEnabled(ctx, source.ID, false))
	got, err := f.svc.Get(ctx, source.ID)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
}

func TestSourceService_DeleteCascadesQupts(t *testing.T) {
	f := newSourceServiceFixture(t)
	ctx := context.Background()

	source, err := f.svc.Create(ctx, driving.CreateSourceInput{
		EntanglementID: "ent-1", Type: "github", Name: "a", JewelID: "j",
	})
	require.NoError(t, err)

	_, err = f.quptStore.BatchInsert(ctx, []domain.Qupt{
		{ID: "q1", EntanglementID: "ent-1", Source: "github", ExternalID: "github:1"},
		{ID: "q2", EntanglementID: "ent-1", Source: "manual", ExternalID: "manual:x"},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, source.ID, true))

	_, err = f.svc.Get(ctx, source.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	remaining, err := f.quptStore.List(ctx, "ent-1", 10)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "manual", remaining[0].Source, "only provider qupts are cascaded")
}

func TestSourceService_DeleteCascadeIsPerProviderTag(t *testing.T) {
	f := newSourceServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, driving.CreateSourceInput{
		EntanglementID: "ent-1", Type: "github", Name: "backend", JewelID: "j",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, driving.CreateSourceInput{
		EntanglementID: "ent-1", Type: "github", Name: "frontend", JewelID: "j",
	})
	require.NoError(t, err)

	_, err = f.quptStore.BatchInsert(ctx, []domain.Qupt{
		{ID: "q1", EntanglementID: "ent-1", Source: "github", ExternalID: "github:be:1"},
		{ID: "q2", EntanglementID: "ent-1", Source: "github", ExternalID: "github:fe:1"},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, first.ID, true))

	// qupts are keyed by provider tag, so the sibling github source's
	// qupts go with them; a re-sync re-inserts them by external_id
	remaining, err := f.quptStore.List(ctx, "ent-1", 10)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
