package domain

import (
	"encoding/json"
	"time"
)

// Source is a configured external-activity feed attached to one entanglement.
// Each source selects a handler via Type and carries the handler's opaque
// pagination cursor plus error-tracking state between sync attempts.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// EntanglementID is the owning entanglement.
	EntanglementID string

	// Type identifies the handler ("github", "zammad", "gdrive", "gmail").
	Type string

	// Name is the human-readable name for this source.
	Name string

	// Config contains handler-specific configuration as raw JSON.
	// Parsed and validated by the matching handler at sync time.
	Config json.RawMessage

	// JewelID references a stored jewel holding this source's credentials.
	// Empty when CredentialBlob is used instead.
	JewelID string

	// CredentialBlob is an inline encrypted credential, used when the
	// source does not reference a shared jewel. Exactly one of JewelID
	// and CredentialBlob is active at a time.
	CredentialBlob []byte

	// Enabled controls whether the scheduler picks this source up.
	Enabled bool

	// LastSync is when the last successful sync completed. Nil before the
	// first successful sync (often backdated on creation to bootstrap
	// history).
	LastSync *time.Time

	// SyncCursor is the handler-defined pagination resume token from the
	// last successful sync. Meaningless without the paired Type.
	SyncCursor string

	// LastError is the sanitized message from the most recent failed
	// attempt. Empty after any successful sync.
	LastError string

	// ErrorCount counts consecutive failed sync attempts. Reset to 0 on
	// success. Informational only; there is no retry cutoff.
	ErrorCount int

	// LastErrorAt is when the most recent failure was recorded.
	LastErrorAt *time.Time

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// HasCredentials reports whether the source carries any credential material,
// either inline or via a jewel reference.
func (s *Source) HasCredentials() bool {
	return s.JewelID != "" || len(s.CredentialBlob) > 0
}

// SyncStatePatch is a partial update to a source's sync-state fields.
// Nil fields are left unchanged. Config and Type are never mutated as a
// side effect of a sync attempt.
type SyncStatePatch struct {
	LastSync    *time.Time
	SyncCursor  *string
	LastError   *string
	ErrorCount  *int
	LastErrorAt *time.Time
	ClearError  bool
}
