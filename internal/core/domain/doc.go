// Package domain contains the core business entities and errors for
// Entangle: entanglements, zoku, qupts, sources, and jewels.
// It has no dependencies on adapters or external services.
package domain
