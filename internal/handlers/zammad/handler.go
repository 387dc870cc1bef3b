package zammad

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/logger"
)

// Ensure Handler implements the interface.
var _ driven.Handler = (*Handler)(nil)

// api is the subset of the Zammad client the handler needs.
type api interface {
	SearchTickets(ctx context.Context, query string, page int) ([]Ticket, error)
	ListArticles(ctx context.Context, ticketID int) ([]Article, error)
}

// Handler pulls tickets and ticket articles from a Zammad instance. It
// paginates ticket search results with a page-number cursor: a full page
// yields cursor page+1, a short page ends the pagination. Errors propagate
// so the orchestrator records a sync failure.
type Handler struct {
	newAPI func(baseURL, token string) api
}

// New creates a new Zammad handler.
func New() *Handler {
	return &Handler{
		newAPI: func(baseURL, token string) api {
			return NewClient(baseURL, token)
		},
	}
}

// Type returns the source type tag this handler serves.
func (h *Handler) Type() string {
	return "zammad"
}

// Collect fetches one page of ticket search results. Every ticket on the
// page is emitted; the since filter is applied through the search query
// (updated_at inclusion), not a strict post-filter. Articles, when
// enabled, are filtered strictly by created_at > since.
func (h *Handler) Collect(ctx context.Context, req driven.CollectRequest) (*driven.CollectResult, error) {
	cfg, err := ParseConfig(req.Config)
	if err != nil {
		return nil, err
	}

	var cred domain.ZammadCredential
	if err := domain.DecodeCredential(req.Credentials, &cred); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthInvalid, err)
	}
	if cred.Token == "" {
		return nil, fmt.Errorf("%w: zammad token is empty", domain.ErrAuthInvalid)
	}

	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = cred.URL
	}
	if baseURL == "" {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidConfig, ErrBaseURLRequired)
	}

	client := h.newAPI(baseURL, cred.Token)

	page := 1
	if req.Cursor != "" {
		page, err = strconv.Atoi(req.Cursor)
		if err != nil || page < 1 {
			logger.Warn("zammad: invalid cursor %q, restarting from page 1", req.Cursor)
			page = 1
		}
	}

	tickets, err := client.SearchTickets(ctx, buildQuery(cfg.Query, req.Since), page)
	if err != nil {
		return nil, err
	}

	var qupts []domain.Qupt
	for _, t := range tickets {
		qupts = append(qupts, ticketQupt(t))

		if !cfg.IncludeArticles {
			continue
		}
		articles, err := client.ListArticles(ctx, t.ID)
		if err != nil {
			return nil, fmt.Errorf("list articles for ticket %d: %w", t.ID, err)
		}
		for _, a := range articles {
			if req.Since != nil && !a.CreatedAt.After(*req.Since) {
				continue
			}
			qupts = append(qupts, articleQupt(t, a))
		}
	}

	cursor := ""
	if len(tickets) == PerPage {
		cursor = strconv.Itoa(page + 1)
	}

	return &driven.CollectResult{Qupts: qupts, Cursor: cursor}, nil
}

// buildQuery combines the configured search query with the since bound.
func buildQuery(base string, since *time.Time) string {
	if since == nil {
		if base == "" {
			return "*"
		}
		return base
	}
	bound := fmt.Sprintf("updated_at:>%s", since.UTC().Format("2006-01-02T15:04:05Z"))
	if base == "" {
		return bound
	}
	return fmt.Sprintf("(%s) AND %s", base, bound)
}

func ticketQupt(t Ticket) domain.Qupt {
	return domain.Qupt{
		Content:    fmt.Sprintf("Ticket #%s updated: %s", t.Number, t.Title),
		Source:     "zammad",
		ExternalID: fmt.Sprintf("zammad:ticket:%d:%s", t.ID, t.UpdatedAt.UTC().Format(time.RFC3339)),
		Metadata: map[string]any{
			"ticket_id": t.ID,
			"number":    t.Number,
			"title":     t.Title,
			"state":     t.State,
			"customer":  t.Customer,
		},
		CreatedAt: t.UpdatedAt,
	}
}

func articleQupt(t Ticket, a Article) domain.Qupt {
	subject := a.Subject
	if subject == "" {
		subject = t.Title
	}
	return domain.Qupt{
		Content:    fmt.Sprintf("Reply on ticket #%s: %s", t.Number, subject),
		Source:     "zammad",
		ExternalID: fmt.Sprintf("zammad:article:%d", a.ID),
		Metadata: map[string]any{
			"ticket_id":  t.ID,
			"article_id": a.ID,
			"from":       a.From,
			"internal":   a.Internal,
		},
		CreatedAt: a.CreatedAt,
	}
}
