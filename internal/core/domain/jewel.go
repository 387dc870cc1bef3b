package domain

import (
	"encoding/json"
	"time"
)

// Jewel is encrypted provider auth material, optionally shared across
// multiple sources. The blob is decrypted only transiently inside a sync
// attempt and never persisted decrypted.
type Jewel struct {
	// ID is the unique identifier.
	ID string

	// Name is the human-readable label.
	Name string

	// Type is the provider this jewel authenticates against.
	Type string

	// Blob is the AES-GCM encrypted credential payload.
	Blob []byte

	// Validation holds plaintext metadata recorded when the credential was
	// last validated against the provider (e.g. the service account email).
	// Used to build remediation messages for permission errors.
	Validation JewelValidation

	// CreatedAt is when the jewel was created.
	CreatedAt time.Time

	// UpdatedAt is when the jewel was last updated.
	UpdatedAt time.Time
}

// JewelValidation is the plaintext validation metadata for a jewel.
type JewelValidation struct {
	// Email is the account the credential authenticates as.
	Email string `json:"email,omitempty"`

	// ValidatedAt is when the credential was last checked.
	ValidatedAt time.Time `json:"validated_at,omitempty"`
}

// Credential shapes, decrypted from a jewel blob or a source's inline blob.

// TokenCredential is a plain API token, used by GitHub sources.
type TokenCredential struct {
	Token string `json:"token"`
}

// ZammadCredential carries the instance URL and API token.
type ZammadCredential struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// GoogleCredential is the OAuth client triple used by Drive and Gmail
// sources. A fresh access token is minted from the refresh token on every
// sync attempt.
type GoogleCredential struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
}

// DecodeCredential unmarshals a decrypted credential payload into v.
func DecodeCredential(plaintext []byte, v any) error {
	return json.Unmarshal(plaintext, v)
}
