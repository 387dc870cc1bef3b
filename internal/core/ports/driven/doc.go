// Package driven defines the interfaces the core depends on: persistence
// stores, the credential vault, and the provider handler contract.
// Adapters implement these; the core never imports adapters.
package driven
