package services

import (
	"fmt"
	"sort"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// Ensure HandlerRegistry implements the interface.
var _ driven.HandlerRegistry = (*HandlerRegistry)(nil)

// HandlerRegistry is a static lookup from a source type tag to its handler.
// Handlers are registered at construction; there is no runtime mutation of
// the table.
type HandlerRegistry struct {
	handlers map[string]driven.Handler
}

// NewHandlerRegistry creates a registry over the given handlers.
func NewHandlerRegistry(handlers ...driven.Handler) *HandlerRegistry {
	r := &HandlerRegistry{
		handlers: make(map[string]driven.Handler, len(handlers)),
	}
	for _, h := range handlers {
		r.handlers[h.Type()] = h
	}
	return r
}

// typeAliases maps legacy type tags to their canonical handler type.
var typeAliases = map[string]string{
	"gdocs": "gdrive",
}

// Resolve returns the handler for a source type. A miss is a configuration
// error for that source, never a transient failure.
func (r *HandlerRegistry) Resolve(sourceType string) (driven.Handler, error) {
	if canonical, ok := typeAliases[sourceType]; ok {
		sourceType = canonical
	}
	h, ok := r.handlers[sourceType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoHandler, sourceType)
	}
	return h, nil
}

// Types returns all registered source type tags, sorted.
func (r *HandlerRegistry) Types() []string {
	types := make([]string, 0, len(r.handlers))
	for t := range r.handlers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
