package gmail

import (
	"context"
	"fmt"
	"time"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/handlers/google"
)

// Ensure Handler implements the interface.
var _ driven.Handler = (*Handler)(nil)

// PageSize is how many message IDs one Collect call pulls.
const PageSize = 50

// Message is one mail message with the header fields the handler needs.
type Message struct {
	ID           string
	From         string
	Subject      string
	BodyPreview  string
	InternalDate time.Time
}

// api is the subset of the Gmail API the handler needs.
type api interface {
	ResolveLabelID(ctx context.Context, name string) (string, error)
	ListMessageIDs(ctx context.Context, labelID, pageToken string) (ids []string, nextToken string, err error)
	GetMessage(ctx context.Context, id string) (Message, error)
}

// Handler pulls messages carrying a configured label from Gmail. The
// cursor is the provider's native page token, passed back verbatim. The
// label name is resolved to its ID on every call so renames surface as
// errors instead of silently collecting the wrong mail.
//
// A fresh access token is minted from the stored refresh token before
// every call. Errors propagate so the orchestrator records a sync failure.
type Handler struct {
	newAPI func(ctx context.Context, cred domain.GoogleCredential) (api, error)
}

// New creates a new Gmail handler.
func New() *Handler {
	return &Handler{
		newAPI: func(ctx context.Context, cred domain.GoogleCredential) (api, error) {
			ts, err := google.TokenSource(ctx, cred)
			if err != nil {
				return nil, err
			}
			svc, err := google.NewGmailService(ctx, ts)
			if err != nil {
				return nil, fmt.Errorf("create gmail service: %w", err)
			}
			return &gmailAPI{svc: svc}, nil
		},
	}
}

// Type returns the source type tag this handler serves.
func (h *Handler) Type() string {
	return "gmail"
}

// Collect fetches one page of labelled messages newer than since.
func (h *Handler) Collect(ctx context.Context, req driven.CollectRequest) (*driven.CollectResult, error) {
	cfg, err := ParseConfig(req.Config)
	if err != nil {
		return nil, err
	}

	var cred domain.GoogleCredential
	if err := domain.DecodeCredential(req.Credentials, &cred); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthInvalid, err)
	}

	client, err := h.newAPI(ctx, cred)
	if err != nil {
		return nil, err
	}

	labelID, err := client.ResolveLabelID(ctx, cfg.Label)
	if err != nil {
		return nil, err
	}

	ids, nextToken, err := client.ListMessageIDs(ctx, labelID, req.Cursor)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	var qupts []domain.Qupt
	for _, id := range ids {
		msg, err := client.GetMessage(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", id, err)
		}
		if req.Since != nil && !msg.InternalDate.After(*req.Since) {
			continue
		}
		qupts = append(qupts, messageQupt(cfg.Label, msg))
	}

	return &driven.CollectResult{Qupts: qupts, Cursor: nextToken}, nil
}

func messageQupt(label string, msg Message) domain.Qupt {
	content := fmt.Sprintf("Email from %s: %s", msg.From, msg.Subject)
	if msg.BodyPreview != "" {
		content = fmt.Sprintf("%s\n%s", content, msg.BodyPreview)
	}
	return domain.Qupt{
		Content:    content,
		Source:     "gmail",
		ExternalID: fmt.Sprintf("gmail:%s", msg.ID),
		Metadata: map[string]any{
			"message_id": msg.ID,
			"from":       msg.From,
			"subject":    msg.Subject,
			"label":      label,
		},
		CreatedAt: msg.InternalDate,
	}
}
