package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"google.golang.org/api/gmail/v1"
)

// ErrLabelNotFound indicates the configured label does not exist in the
// mailbox the credential grants access to.
var ErrLabelNotFound = errors.New("gmail label not found")

// previewLen caps the plaintext body preview attached to each qupt.
const previewLen = 200

// gmailAPI adapts the Gmail service to the handler's api interface. All
// calls run against the authenticated user's own mailbox.
type gmailAPI struct {
	svc *gmail.Service
}

// ResolveLabelID looks the label name up in the mailbox's label list.
// Label names are matched case-insensitively, following the Gmail UI.
func (g *gmailAPI) ResolveLabelID(ctx context.Context, name string) (string, error) {
	list, err := g.svc.Users.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list labels: %w", err)
	}
	for _, label := range list.Labels {
		if strings.EqualFold(label.Name, name) {
			return label.Id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrLabelNotFound, name)
}

// ListMessageIDs fetches one page of message IDs carrying the label.
func (g *gmailAPI) ListMessageIDs(ctx context.Context, labelID, pageToken string) ([]string, string, error) {
	call := g.svc.Users.Messages.List("me").
		LabelIds(labelID).
		MaxResults(PageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	resp, err := call.Do()
	if err != nil {
		return nil, "", err
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, resp.NextPageToken, nil
}

// GetMessage fetches a full message and extracts the header fields and a
// short plaintext preview.
func (g *gmailAPI) GetMessage(ctx context.Context, id string) (Message, error) {
	msg, err := g.svc.Users.Messages.Get("me", id).Format("full").Context(ctx).Do()
	if err != nil {
		return Message{}, err
	}

	out := Message{
		ID:           msg.Id,
		InternalDate: time.UnixMilli(msg.InternalDate).UTC(),
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "From":
				out.From = h.Value
			case "Subject":
				out.Subject = h.Value
			}
		}
		out.BodyPreview = bodyPreview(msg.Payload)
	}
	return out, nil
}

// bodyPreview walks the MIME tree for the first text/plain part and
// returns its start, trimmed to previewLen.
func bodyPreview(part *gmail.MessagePart) string {
	body := findPlainText(part)
	if body == "" {
		return ""
	}
	body = strings.TrimSpace(body)
	if len(body) > previewLen {
		cut := previewLen
		// back up to a rune boundary so the preview stays valid UTF-8
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut] + "…"
	}
	return body
}

func findPlainText(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(part.Body.Data)
		if err != nil {
			return ""
		}
		return string(decoded)
	}
	for _, child := range part.Parts {
		if text := findPlainText(child); text != "" {
			return text
		}
	}
	return ""
}
