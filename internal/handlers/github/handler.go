package github

import (
	"context"
	"fmt"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/logger"
)

// Ensure Handler implements the interface.
var _ driven.Handler = (*Handler)(nil)

// api is the subset of the GitHub client the handler needs. Narrowed for
// testability.
type api interface {
	ListRepositoryEvents(ctx context.Context, owner, repo string) ([]*ghEvent, error)
	GetCommitMessage(ctx context.Context, owner, repo, sha string) (string, error)
	GetPullRequestDetail(ctx context.Context, owner, repo string, number int) (title, body string, err error)
}

// Handler pulls repository events from GitHub. It always re-fetches the
// latest page of events and produces no pagination cursor; correctness
// relies entirely on the since timestamp and external_id dedup.
type Handler struct {
	newAPI func(ctx context.Context, token string) api
}

// New creates a new GitHub handler.
func New() *Handler {
	return &Handler{
		newAPI: func(ctx context.Context, token string) api {
			return newClientAPI(NewClient(ctx, token))
		},
	}
}

// Type returns the source type tag this handler serves.
func (h *Handler) Type() string {
	return "github"
}

// Collect fetches the latest page of repository events, filters by since
// and the configured event allow-list, and enriches push and pull-request
// events with best-effort secondary detail fetches.
//
// Transient API errors are swallowed: the call returns an empty batch with
// no cursor and the next scheduled run retries from scratch. Auth and
// rate-limit failures propagate so the orchestrator records a sync failure.
func (h *Handler) Collect(ctx context.Context, req driven.CollectRequest) (*driven.CollectResult, error) {
	cfg, err := ParseConfig(req.Config)
	if err != nil {
		return nil, err
	}

	var cred domain.TokenCredential
	if err := domain.DecodeCredential(req.Credentials, &cred); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthInvalid, err)
	}
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: github token is empty", domain.ErrAuthInvalid)
	}

	client := h.newAPI(ctx, cred.Token)

	events, err := client.ListRepositoryEvents(ctx, cfg.Owner, cfg.Repo)
	if err != nil {
		if IsRateLimited(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}
		if IsUnauthorized(err) || IsForbidden(err) || IsNotFound(err) {
			return nil, err
		}
		logger.Warn("github: transient error listing events for %s/%s, retrying next run: %v", cfg.Owner, cfg.Repo, err)
		return &driven.CollectResult{}, nil
	}

	qupts := make([]domain.Qupt, 0, len(events))
	for _, ev := range events {
		tag, known := apiEventTags[ev.Type]
		if !known || !cfg.WantsEvent(tag) {
			continue
		}
		if req.Since != nil && !ev.CreatedAt.After(*req.Since) {
			continue
		}
		qupts = append(qupts, normalizeEvent(ctx, client, cfg, ev, tag))
	}

	return &driven.CollectResult{Qupts: qupts}, nil
}
