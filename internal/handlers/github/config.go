package github

import (
	"encoding/json"
	"fmt"

	"github.com/entangle-labs/entangled/internal/core/domain"
)

// Event tags as they appear in a source's events filter. These are the
// normalized names, not the GitHub API event type strings.
const (
	EventPush         = "push"
	EventPullRequest  = "pull_request"
	EventIssues       = "issues"
	EventIssueComment = "issue_comment"
	EventCreate       = "create"
	EventDelete       = "delete"
	EventFork         = "fork"
	EventStar         = "star"
	EventRelease      = "release"
)

// apiEventTags maps GitHub API event type strings to normalized tags.
var apiEventTags = map[string]string{
	"PushEvent":         EventPush,
	"PullRequestEvent":  EventPullRequest,
	"IssuesEvent":       EventIssues,
	"IssueCommentEvent": EventIssueComment,
	"CreateEvent":       EventCreate,
	"DeleteEvent":       EventDelete,
	"ForkEvent":         EventFork,
	"WatchEvent":        EventStar,
	"ReleaseEvent":      EventRelease,
}

var validEventTags = func() map[string]bool {
	m := make(map[string]bool, len(apiEventTags))
	for _, tag := range apiEventTags {
		m[tag] = true
	}
	return m
}()

// Config holds the parsed configuration for a GitHub source.
type Config struct {
	// Owner is the repository owner login.
	Owner string `json:"owner"`

	// Repo is the repository name.
	Repo string `json:"repo"`

	// Events filters by normalized event tag. Empty means all types.
	Events []string `json:"events,omitempty"`
}

// ParseConfig parses and validates a source's raw config.
func ParseConfig(raw json.RawMessage) (*Config, error) {
	var cfg Config
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
		}
	}
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, ErrConfigMissingRepo)
	}
	for _, tag := range cfg.Events {
		if !validEventTags[tag] {
			return nil, fmt.Errorf("%w: %w: %q", domain.ErrInvalidConfig, ErrConfigInvalidEvent, tag)
		}
	}
	return &cfg, nil
}

// WantsEvent reports whether a normalized event tag passes the filter.
// An empty filter list means all types.
func (c *Config) WantsEvent(tag string) bool {
	if len(c.Events) == 0 {
		return true
	}
	for _, e := range c.Events {
		if e == tag {
			return true
		}
	}
	return false
}
