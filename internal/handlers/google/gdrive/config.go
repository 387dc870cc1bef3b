package gdrive

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// ErrConfigMissingDocument indicates document_id is missing from the
// source config.
var ErrConfigMissingDocument = errors.New("gdrive: document_id is required")

// Config holds the parsed configuration for a Google Drive/Docs source.
type Config struct {
	// DocumentID is the Drive file to track.
	DocumentID string `json:"document_id"`

	// TrackComments emits one qupt per comment newer than since, in
	// addition to the revision qupts.
	TrackComments bool `json:"track_comments,omitempty"`
}

// ParseConfig parses and validates a source's raw config.
func ParseConfig(raw json.RawMessage) (*Config, error) {
	var cfg Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
	}
	if cfg.DocumentID == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, ErrConfigMissingDocument)
	}
	return &cfg, nil
}
