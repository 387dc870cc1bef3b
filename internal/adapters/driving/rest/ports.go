// Package rest exposes the entangled services over a small JSON HTTP API.
// It is a thin adapter: request parsing and response shaping only, with all
// behaviour delegated to the core services through their driving ports.
package rest

import (
	"errors"

	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

// ErrMissingSourceService is returned when the source service is not provided.
var ErrMissingSourceService = errors.New("rest: source service is required")

// ErrMissingSyncOrchestrator is returned when the sync orchestrator is not provided.
var ErrMissingSyncOrchestrator = errors.New("rest: sync orchestrator is required")

// Ports aggregates all driving port interfaces required by the REST server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Source manages source configurations.
	Source driving.SourceService

	// Sync executes sync attempts.
	Sync driving.SyncOrchestrator

	// Entanglement manages entanglements.
	Entanglement driving.EntanglementService

	// Zoku manages participants.
	Zoku driving.ZokuService

	// Qupt manages qupts.
	Qupt driving.QuptService

	// Jewel manages stored credentials.
	Jewel driving.JewelService

	// Runs exposes scheduler run history. Optional.
	Runs driven.SyncRunStore
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Source == nil {
		return ErrMissingSourceService
	}
	if p.Sync == nil {
		return ErrMissingSyncOrchestrator
	}
	// The remaining ports are optional; their routes respond 503 when unset.
	return nil
}
