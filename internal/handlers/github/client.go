package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout is the HTTP request timeout for outbound calls.
	DefaultTimeout = 30 * time.Second

	// EventsPageSize is the fixed page size for the repository events
	// fetch. The handler always re-fetches the latest page; dedup is by
	// since-filtering and external_id.
	EventsPageSize = 100
)

// Client wraps the go-github client with rate limiting and error
// translation.
type Client struct {
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// NewClient creates a GitHub API client with a static access token.
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:          gh.NewClient(tc),
		rateLimiter: NewRateLimiter(),
	}
}

// ListRepositoryEvents fetches the latest page of events for a repository.
func (c *Client) ListRepositoryEvents(ctx context.Context, owner, repo string) ([]*gh.Event, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.ListOptions{PerPage: EventsPageSize}
	events, resp, err := c.gh.Activity.ListRepositoryEvents(ctx, owner, repo, opts)
	if err != nil {
		return nil, c.wrapError(err, "list events")
	}

	c.updateRateLimitFromResponse(resp)
	return events, nil
}

// GetCommit fetches a single commit for push-event enrichment.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*gh.RepositoryCommit, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	commit, resp, err := c.gh.Repositories.GetCommit(ctx, owner, repo, sha, nil)
	if err != nil {
		return nil, c.wrapError(err, "get commit")
	}

	c.updateRateLimitFromResponse(resp)
	return commit, nil
}

// GetPullRequest fetches a pull request for PR-event enrichment.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, c.wrapError(err, "get pull request")
	}

	c.updateRateLimitFromResponse(resp)
	return pr, nil
}

// updateRateLimitFromResponse updates the rate limiter from response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     AuthenticatedRateLimit,
		}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
