// Package driving defines the interfaces through which adapters (CLI, REST,
// MCP) invoke the core services.
package driving
