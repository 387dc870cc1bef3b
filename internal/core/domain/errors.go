package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoHandler indicates no handler is registered for a source type.
	// This is a configuration error: retrying will never resolve it.
	ErrNoHandler = errors.New("no handler for source type")

	// ErrInvalidConfig indicates a source's config is missing a required
	// field or cannot be parsed for its type.
	ErrInvalidConfig = errors.New("invalid source configuration")

	// ErrJewelRequired indicates the source type requires credentials but
	// neither an inline blob nor a jewel reference is configured.
	ErrJewelRequired = errors.New("credentials required")

	// ErrSyncInProgress indicates a sync is already running for the source.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrJewelInUse indicates a jewel cannot be deleted because sources
	// still reference it.
	ErrJewelInUse = errors.New("jewel is in use by one or more sources")

	// ErrSourceDisabled indicates the source is disabled and will not sync.
	ErrSourceDisabled = errors.New("source is disabled")

	// Credential errors.

	// ErrAuthInvalid indicates the stored credentials were rejected by the
	// provider.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrVaultKey indicates the vault key is missing or cannot decrypt the
	// stored blob.
	ErrVaultKey = errors.New("vault key invalid")

	// ErrRateLimited indicates the provider API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
