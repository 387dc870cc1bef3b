package driven

// Vault encrypts and decrypts credential blobs. The core treats both
// directions as opaque; key handling lives entirely in the adapter.
type Vault interface {
	// Encrypt seals a plaintext credential payload.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt opens a sealed blob. Returns domain.ErrVaultKey when the
	// blob cannot be authenticated with the configured key.
	Decrypt(blob []byte) ([]byte, error)
}

// ConfigStore provides persistent key-value configuration.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	GetBool(key string) bool

	// Set stores a configuration value.
	Set(key string, value any) error
}
