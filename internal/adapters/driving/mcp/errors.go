// Package mcp provides an MCP (Model Context Protocol) server adapter for
// entangled. It lets AI assistants browse entanglements and activity and
// trigger source synchronisation.
package mcp

import "errors"

// ErrMissingSourceService is returned when the source service is not provided.
var ErrMissingSourceService = errors.New("mcp: source service is required")

// ErrMissingSyncOrchestrator is returned when the sync orchestrator is not provided.
var ErrMissingSyncOrchestrator = errors.New("mcp: sync orchestrator is required")
