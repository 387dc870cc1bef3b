package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

func TestHandlerRegistry_Resolve(t *testing.T) {
	registry := NewHandlerRegistry(
		&mockHandler{typ: "github"},
		&mockHandler{typ: "zammad"},
		&mockHandler{typ: "gdrive"},
		&mockHandler{typ: "gmail"},
	)

	handler, err := registry.Resolve("zammad")
	require.NoError(t, err)
	assert.Equal(t, "zammad", handler.Type())
}

func TestHandlerRegistry_ResolveGdocsAlias(t *testing.T) {
	registry := NewHandlerRegistry(&mockHandler{typ: "gdrive"})

	handler, err := registry.Resolve("gdocs")
	require.NoError(t, err)
	assert.Equal(t, "gdrive", handler.Type())
}

func TestHandlerRegistry_ResolveUnknownType(t *testing.T) {
	registry := NewHandlerRegistry(&mockHandler{typ: "github"})

	_, err := registry.Resolve("jira")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoHandler)
	assert.Contains(t, err.Error(), "jira")
}

func TestHandlerRegistry_TypesSorted(t *testing.T) {
	registry := NewHandlerRegistry(
		&mockHandler{typ: "zammad"},
		&mockHandler{typ: "github"},
		&mockHandler{typ: "gmail"},
		&mockHandler{typ: "gdrive"},
	)

	assert.Equal(t, []string{"gdrive", "github", "gmail", "zammad"}, registry.Types())
}
