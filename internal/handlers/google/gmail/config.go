package gmail

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// ErrConfigMissingLabel indicates the source config lacks the label field.
var ErrConfigMissingLabel = errors.New("gmail config: label is required")

// Config is the source configuration for a Gmail label source.
type Config struct {
	// Label is the Gmail label name to collect messages from.
	Label string `json:"label"`
}

// ParseConfig decodes and validates a raw source configuration.
func ParseConfig(raw json.RawMessage) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	if cfg.Label == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, ErrConfigMissingLabel)
	}
	return &cfg, nil
}
