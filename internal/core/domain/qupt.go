package domain

import "time"

// SourceManual marks qupts created directly through the API rather than
// pulled from an external provider.
const SourceManual = "manual"

// Qupt is one normalized unit of external activity.
// Qupts are immutable once created, except for deletion.
type Qupt struct {
	// ID is the unique identifier for the qupt.
	ID string

	// EntanglementID is the owning entanglement.
	EntanglementID string

	// ZokuID is the acting participant, when known. Empty otherwise.
	ZokuID string

	// Content is a human-readable one-line summary of the activity.
	Content string

	// Source is the provider tag ("github", "zammad", "gdrive", "gmail",
	// or "manual").
	Source string

	// ExternalID is the provider-native unique identifier, formatted
	// "{provider}:{...}". Globally unique: re-ingesting the same provider
	// event is a no-op, not a duplicate row.
	ExternalID string

	// Metadata is the provider-specific payload.
	Metadata map[string]any

	// CreatedAt is the event's original timestamp at the provider, not
	// ingestion time. Preserves chronological ordering in aggregated
	// views even though sync runs in batches after the fact.
	CreatedAt time.Time
}
