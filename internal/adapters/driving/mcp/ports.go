package mcp

import (
	"github.com/entangle-labs/entangled/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
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
	// Entanglement, Zoku and Qupt are optional; their tools report a tool
	// error when unset.
	return nil
}
