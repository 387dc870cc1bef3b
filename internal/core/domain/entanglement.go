package domain

import "time"

// Entanglement is a hierarchical project or initiative record. It owns
// sources and aggregates qupts, including from descendant entanglements.
type Entanglement struct {
	// ID is the unique identifier.
	ID string

	// ParentID is the parent entanglement, empty for roots.
	ParentID string

	// Name is the human-readable name.
	Name string

	// Description is an optional longer description.
	Description string

	// CreatedAt is when the entanglement was created.
	CreatedAt time.Time

	// UpdatedAt is when the entanglement was last updated.
	UpdatedAt time.Time
}

// Zoku is a human or agent participant.
type Zoku struct {
	// ID is the unique identifier.
	ID string

	// Name is the display name.
	Name string

	// Kind is "human" or "agent".
	Kind string

	// Email is the participant's contact address, when known.
	Email string

	// CreatedAt is when the zoku was created.
	CreatedAt time.Time
}
