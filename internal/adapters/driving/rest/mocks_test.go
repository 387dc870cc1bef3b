package rest

import (
	"context"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

// mockSourceService is a mock implementation of driving.SourceService.
type mockSourceService struct {
	sources []domain.Source
	source  *domain.Source
	created *domain.Source
	err     error

	deletedID      string
	deletedCascade bool
	enabledID      string
	enabledValue   bool
}

func (m *mockSourceService) Create(_ context.Context, _ driving.CreateSourceInput) (*domain.Source, error) {
	return m.created, m.err
}

func (m *mockSourceService) Get(_ context.Context, _ string) (*domain.Source, error) {
	return m.source, m.err
}

func (m *mockSourceService) List(_ context.Context, _ string) ([]domain.Source, error) {
	return m.sources, m.err
}

func (m *mockSourceService) SetEnabled(_ context.Context, id string, enabled bool) error {
	m.enabledID = id
	m.enabledValue = enabled
	return m.err
}

func (m *mockSourceService) Delete(_ context.Context, id string, cascade bool) error {
	m.deletedID = id
	m.deletedCascade = cascade
	return m.err
}

// mockSyncOrchestrator is a mock implementation of driving.SyncOrchestrator.
type mockSyncOrchestrator struct {
	outcome  *domain.SyncOutcome
	run      *domain.SyncRun
	err      error
	syncedID string
}

func (m *mockSyncOrchestrator) Sync(_ context.Context, sourceID string) (*domain.SyncOutcome, error) {
	m.syncedID = sourceID
	return m.outcome, m.err
}

func (m *mockSyncOrchestrator) SyncAll(_ context.Context) (*domain.SyncRun, error) {
	return m.run, m.err
}

// mockEntanglementService is a mock implementation of driving.EntanglementService.
type mockEntanglementService struct {
	entanglements []domain.Entanglement
	entanglement  *domain.Entanglement
	err           error
}

func (m *mockEntanglementService) Create(_ context.Context, _ domain.Entanglement) (*domain.Entanglement, error) {
	return m.entanglement, m.err
}

func (m *mockEntanglementService) Get(_ context.Context, _ string) (*domain.Entanglement, error) {
	return m.entanglement, m.err
}

func (m *mockEntanglementService) List(_ context.Context) ([]domain.Entanglement, error) {
	return m.entanglements, m.err
}

func (m *mockEntanglementService) ListChildren(_ context.Context, _ string) ([]domain.Entanglement, error) {
	return m.entanglements, m.err
}

func (m *mockEntanglementService) Update(_ context.Context, _ domain.Entanglement) error {
	return m.err
}

func (m *mockEntanglementService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockZokuService is a mock implementation of driving.ZokuService.
type mockZokuService struct {
	zoku []domain.Zoku
	one  *domain.Zoku
	err  error
}

func (m *mockZokuService) Create(_ context.Context, _ domain.Zoku) (*domain.Zoku, error) {
	return m.one, m.err
}

func (m *mockZokuService) Get(_ context.Context, _ string) (*domain.Zoku, error) {
	return m.one, m.err
}

func (m *mockZokuService) List(_ context.Context) ([]domain.Zoku, error) {
	return m.zoku, m.err
}

// mockQuptService is a mock implementation of driving.QuptService.
type mockQuptService struct {
	qupts   []domain.Qupt
	created *domain.Qupt
	err     error

	listEntanglementID string
	listLimit          int
}

func (m *mockQuptService) Create(_ context.Context, q domain.Qupt) (*domain.Qupt, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.created != nil {
		return m.created, nil
	}
	return &q, nil
}

func (m *mockQuptService) List(_ context.Context, entanglementID string, limit int) ([]domain.Qupt, error) {
	m.listEntanglementID = entanglementID
	m.listLimit = limit
	return m.qupts, m.err
}

// mockJewelService is a mock implementation of driving.JewelService.
type mockJewelService struct {
	jewels []domain.Jewel
	jewel  *domain.Jewel
	usage  []domain.Source
	err    error
}

func (m *mockJewelService) Create(_ context.Context, _ driving.CreateJewelInput) (*domain.Jewel, error) {
	return m.jewel, m.err
}

func (m *mockJewelService) Get(_ context.Context, _ string) (*domain.Jewel, error) {
	return m.jewel, m.err
}

func (m *mockJewelService) List(_ context.Context) ([]domain.Jewel, error) {
	return m.jewels, m.err
}

func (m *mockJewelService) Usage(_ context.Context, _ string) ([]domain.Source, error) {
	return m.usage, m.err
}

func (m *mockJewelService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockSyncRunStore is a mock implementation of driven.SyncRunStore.
type mockSyncRunStore struct {
	runs []domain.SyncRun
	err  error
}

func (m *mockSyncRunStore) Record(_ context.Context, _ domain.SyncRun) error {
	return m.err
}

func (m *mockSyncRunStore) List(_ context.Context, _ int) ([]domain.SyncRun, error) {
	return m.runs, m.err
}

func (m *mockSyncRunStore) Prune(_ context.Context, _ int) error {
	return m.err
}
