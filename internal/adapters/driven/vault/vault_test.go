package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

func TestVault_Roundtrip(t *testing.T) {
	v, err := New("correct horse battery staple", t.TempDir())
	require.NoError(t, err)

	plaintext := []byte(`{"token":"ghp_secret"}`)
	blob, err := v.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, blob)

	got, err := v.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestVault_NonceUniqueness(t *testing.T) {
	v, err := New("pass", t.TempDir())
	require.NoError(t, err)

	a, err := v.Encrypt([]byte("same"))
	require.NoError(t, err)
	b, err := v.Encrypt([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVault_WrongPassphrase(t *testing.T) {
	dir := t.TempDir()

	v1, err := New("right", dir)
	require.NoError(t, err)
	blob, err := v1.Encrypt([]byte("secret"))
	require.NoError(t, err)

	// same salt, different passphrase
	v2, err := New("wrong", dir)
	require.NoError(t, err)
	_, err = v2.Decrypt(blob)
	assert.ErrorIs(t, err, domain.ErrVaultKey)
}

func TestVault_SaltPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	v1, err := New("pass", dir)
	require.NoError(t, err)
	blob, err := v1.Encrypt([]byte("secret"))
	require.NoError(t, err)

	v2, err := New("pass", dir)
	require.NoError(t, err)
	got, err := v2.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), got)
}

func TestVault_EmptyPassphrase(t *testing.T) {
	_, err := New("", t.TempDir())
	assert.ErrorIs(t, err, domain.ErrVaultKey)
}

func TestVault_DecryptTruncatedBlob(t *testing.T) {
	v, err := New("pass", t.TempDir())
	require.NoError(t, err)

	_, err = v.Decrypt([]byte{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrVaultKey)
}
