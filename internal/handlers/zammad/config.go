package zammad

import (
	"encoding/json"
	"fmt"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// PerPage is the fixed page size for ticket search. A full page means more
// results may follow and produces a next-page cursor.
const PerPage = 50

// Config holds the parsed configuration for a Zammad source.
type Config struct {
	// URL is the Zammad instance base URL. Falls back to the credential's
	// URL when empty.
	URL string `json:"url,omitempty"`

	// Query is the ticket search query. Empty means all tickets.
	Query string `json:"query,omitempty"`

	// IncludeArticles emits one qupt per ticket article (reply/comment)
	// in addition to the ticket-level qupt.
	IncludeArticles bool `json:"include_articles,omitempty"`
}

// ParseConfig parses and validates a source's raw config.
func ParseConfig(raw json.RawMessage) (*Config, error) {
	var cfg Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
	}
	return &cfg, nil
}
