// Package vault seals and opens credential blobs with AES-256-GCM. The
// cipher key is derived from a master passphrase with argon2id, using a
// per-installation salt generated on first use and stored next to the
// database. Blobs are laid out as nonce || ciphertext.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// Ensure Vault implements the interface.
var _ driven.Vault = (*Vault)(nil)

const (
	saltFile = "vault.salt"
	saltLen  = 16

	// argon2id parameters
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
)

// Vault is an AES-GCM credential vault keyed from a master passphrase.
type Vault struct {
	aead cipher.AEAD
}

// New creates a vault keyed from passphrase. dataDir holds the salt file;
// if empty it defaults to ~/.entangled/data.
func New(passphrase string, dataDir string) (*Vault, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: empty vault passphrase", domain.ErrVaultKey)
	}

	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".entangled", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	salt, err := loadOrCreateSalt(filepath.Join(dataDir, saltFile))
	if err != nil {
		return nil, err
	}

	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keyLen)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt seals a plaintext credential payload.
func (v *Vault) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return v.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a sealed blob.
func (v *Vault) Decrypt(blob []byte) ([]byte, error) {
	nonceSize := v.aead.NonceSize()
	if len(blob) < nonceSize {
		return nil, fmt.Errorf("%w: blob too short", domain.ErrVaultKey)
	}
	nonce, ciphertext := blob[:nonceSize], blob[nonceSize:]
	plaintext, err := v.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVaultKey, err)
	}
	return plaintext, nil
}

// loadOrCreateSalt reads the salt file, generating it on first use.
func loadOrCreateSalt(path string) ([]byte, error) {
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) != saltLen {
			return nil, fmt.Errorf("%w: corrupt salt file %s", domain.ErrVaultKey, path)
		}
		return salt, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading salt file: %w", err)
	}

	salt = make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	if err := os.WriteFile(path, salt, 0600); err != nil {
		return nil, fmt.Errorf("writing salt file: %w", err)
	}
	return salt, nil
}
