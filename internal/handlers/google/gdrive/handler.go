package gdrive

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
	"github.com/entangle-labs/entangled/internal/handlers/google"
	"github.com/entangle-labs/entangled/internal/logger"
)

// Ensure Handler implements the interface.
var _ driven.Handler = (*Handler)(nil)

// Revision is one document revision from the Drive API.
type Revision struct {
	ID           string
	ModifiedTime time.Time
	Author       string
}

// Comment is one document comment from the Drive API.
type Comment struct {
	ID          string
	Content     string
	Author      string
	CreatedTime time.Time
}

// api is the subset of the Drive API the handler needs.
type api interface {
	GetDocumentTitle(ctx context.Context, documentID string) (string, error)
	ListRevisions(ctx context.Context, documentID string) ([]Revision, error)
	ListComments(ctx context.Context, documentID string) ([]Comment, error)
}

// Handler pulls document revisions and comments from Google Drive. The
// cursor is a numeric revision-ID high-water-mark: only revisions above it
// are emitted, and the returned cursor is the maximum revision ID seen.
// Comments are filtered independently by created time against since.
//
// A fresh access token is minted from the stored refresh token before
// every call. Errors propagate so the orchestrator records a sync failure;
// permission denials carry the provider's text for translation.
type Handler struct {
	newAPI func(ctx context.Context, cred domain.GoogleCredential) (api, error)
}

// New creates a new Google Drive handler.
func New() *Handler {
	return &Handler{
		newAPI: func(ctx context.Context, cred domain.GoogleCredential) (api, error) {
			ts, err := google.TokenSource(ctx, cred)
			if err != nil {
				return nil, err
			}
			svc, err := google.NewDriveService(ctx, ts)
			if err != nil {
				return nil, fmt.Errorf("create drive service: %w", err)
			}
			return &driveAPI{svc: svc}, nil
		},
	}
}

// Type returns the source type tag this handler serves.
func (h *Handler) Type() string {
	return "gdrive"
}

// Collect fetches revisions above the cursor high-water-mark and, when
// enabled, comments newer than since. The document title is fetched once
// per call and attached to every emitted qupt.
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

	title, err := client.GetDocumentTitle(ctx, cfg.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}

	highWater := parseHighWater(req.Cursor)

	revisions, err := client.ListRevisions(ctx, cfg.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}

	var qupts []domain.Qupt
	newHighWater := highWater
	for _, rev := range revisions {
		id, err := strconv.ParseInt(rev.ID, 10, 64)
		if err != nil {
			logger.Debug("gdrive: skipping non-numeric revision id %q", rev.ID)
			continue
		}
		if id <= highWater {
			continue
		}
		if id > newHighWater {
			newHighWater = id
		}
		qupts = append(qupts, revisionQupt(cfg.DocumentID, title, rev))
	}

	if cfg.TrackComments {
		comments, err := client.ListComments(ctx, cfg.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		for _, c := range comments {
			if req.Since != nil && !c.CreatedTime.After(*req.Since) {
				continue
			}
			qupts = append(qupts, commentQupt(cfg.DocumentID, title, c))
		}
	}

	cursor := req.Cursor
	if newHighWater > highWater {
		cursor = strconv.FormatInt(newHighWater, 10)
	}

	return &driven.CollectResult{Qupts: qupts, Cursor: cursor}, nil
}

// parseHighWater decodes the revision high-water-mark cursor. An invalid
// cursor restarts from zero rather than failing the sync.
func parseHighWater(cursor string) int64 {
	if cursor == "" {
		return 0
	}
	hwm, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil || hwm < 0 {
		logger.Warn("gdrive: invalid cursor %q, restarting from zero", cursor)
		return 0
	}
	return hwm
}

func revisionQupt(documentID, title string, rev Revision) domain.Qupt {
	content := fmt.Sprintf("Edited document %q", title)
	if rev.Author != "" {
		content = fmt.Sprintf("%s edited document %q", rev.Author, title)
	}
	return domain.Qupt{
		Content:    content,
		Source:     "gdrive",
		ExternalID: fmt.Sprintf("gdrive:%s:rev:%s", documentID, rev.ID),
		Metadata: map[string]any{
			"document_id": documentID,
			"title":       title,
			"revision_id": rev.ID,
			"author":      rev.Author,
		},
		CreatedAt: rev.ModifiedTime,
	}
}

func commentQupt(documentID, title string, c Comment) domain.Qupt {
	content := fmt.Sprintf("Commented on %q: %s", title, firstChars(c.Content, 120))
	if c.Author != "" {
		content = fmt.Sprintf("%s commented on %q: %s", c.Author, title, firstChars(c.Content, 120))
	}
	return domain.Qupt{
		Content:    content,
		Source:     "gdrive",
		ExternalID: fmt.Sprintf("gdrive:%s:comment:%s", documentID, c.ID),
		Metadata: map[string]any{
			"document_id": documentID,
			"title":       title,
			"comment_id":  c.ID,
			"author":      c.Author,
		},
		CreatedAt: c.CreatedTime,
	}
}

// firstChars trims s to at most n bytes, cutting on a rune boundary so
// the result stays valid UTF-8.
func firstChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
