package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/logger"
)

// ghEvent is the handler-internal view of one repository event, with the
// payload fields each event type needs already extracted.
type ghEvent struct {
	ID        string
	Type      string
	Actor     string
	CreatedAt time.Time
	Payload   eventPayload
}

// eventPayload carries the type-specific payload fields used for summaries
// and enrichment. Only the fields relevant to the event's type are set.
type eventPayload struct {
	Action      string
	Number      int
	Title       string
	Ref         string
	RefType     string
	HeadSHA     string
	CommitCount int
	Tag         string
}

// enrichment is the optional detail from a secondary fetch. The core event
// is emitted unconditionally; enrichment is attached when the fetch
// succeeds and simply absent otherwise.
type enrichment struct {
	CommitMessage string
	PRTitle       string
	PRBody        string
}

// normalizeEvent converts one repository event into a qupt, issuing
// best-effort secondary detail fetches for push and pull-request events.
// A failed secondary fetch logs a warning and never aborts the event.
func normalizeEvent(ctx context.Context, client api, cfg *Config, ev *ghEvent, tag string) domain.Qupt {
	repo := fmt.Sprintf("%s/%s", cfg.Owner, cfg.Repo)
	extra := enrich(ctx, client, cfg, ev, tag)

	metadata := map[string]any{
		"event_type": tag,
		"repo":       repo,
		"actor":      ev.Actor,
	}
	if ev.Payload.Action != "" {
		metadata["action"] = ev.Payload.Action
	}
	if ev.Payload.Number > 0 {
		metadata["number"] = ev.Payload.Number
	}
	if extra != nil {
		if extra.CommitMessage != "" {
			metadata["commit_message"] = extra.CommitMessage
		}
		if extra.PRTitle != "" {
			metadata["pr_title"] = extra.PRTitle
		}
		if extra.PRBody != "" {
			metadata["pr_body"] = extra.PRBody
		}
	}

	return domain.Qupt{
		Content:    summarize(ev, tag, repo, extra),
		Source:     "github",
		ExternalID: fmt.Sprintf("github:%s", ev.ID),
		Metadata:   metadata,
		CreatedAt:  ev.CreatedAt,
	}
}

// enrich issues the secondary detail fetch for event types that have one.
func enrich(ctx context.Context, client api, cfg *Config, ev *ghEvent, tag string) *enrichment {
	switch tag {
	case EventPush:
		if ev.Payload.HeadSHA == "" {
			return nil
		}
		msg, err := client.GetCommitMessage(ctx, cfg.Owner, cfg.Repo, ev.Payload.HeadSHA)
		if err != nil {
			logger.Warn("github: commit detail fetch failed for %s: %v", ev.Payload.HeadSHA, err)
			return nil
		}
		return &enrichment{CommitMessage: firstLine(msg)}

	case EventPullRequest:
		if ev.Payload.Number == 0 {
			return nil
		}
		title, body, err := client.GetPullRequestDetail(ctx, cfg.Owner, cfg.Repo, ev.Payload.Number)
		if err != nil {
			logger.Warn("github: pull request detail fetch failed for #%d: %v", ev.Payload.Number, err)
			return nil
		}
		return &enrichment{PRTitle: title, PRBody: body}

	default:
		return nil
	}
}

// summarize builds the one-line human-readable summary for an event.
func summarize(ev *ghEvent, tag, repo string, extra *enrichment) string {
	switch tag {
	case EventPush:
		s := fmt.Sprintf("Pushed %d commit(s) to %s", ev.Payload.CommitCount, repo)
		if extra != nil && extra.CommitMessage != "" {
			s += ": " + extra.CommitMessage
		}
		return s
	case EventPullRequest:
		s := fmt.Sprintf("%s pull request #%d in %s", titleCase(ev.Payload.Action), ev.Payload.Number, repo)
		if extra != nil && extra.PRTitle != "" {
			s += ": " + extra.PRTitle
		}
		return s
	case EventIssues:
		return fmt.Sprintf("%s issue #%d in %s: %s", titleCase(ev.Payload.Action), ev.Payload.Number, repo, ev.Payload.Title)
	case EventIssueComment:
		return fmt.Sprintf("Commented on issue #%d in %s: %s", ev.Payload.Number, repo, ev.Payload.Title)
	case EventCreate:
		return fmt.Sprintf("Created %s %s in %s", ev.Payload.RefType, ev.Payload.Ref, repo)
	case EventDelete:
		return fmt.Sprintf("Deleted %s %s in %s", ev.Payload.RefType, ev.Payload.Ref, repo)
	case EventFork:
		return fmt.Sprintf("Forked %s", repo)
	case EventStar:
		return fmt.Sprintf("Starred %s", repo)
	case EventRelease:
		return fmt.Sprintf("%s release %s in %s", titleCase(ev.Payload.Action), ev.Payload.Tag, repo)
	default:
		return fmt.Sprintf("%s in %s", tag, repo)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

func titleCase(s string) string {
	if s == "" {
		return "Updated"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// clientAPI adapts *Client to the handler's api interface, converting
// go-github event payloads into the internal representation.
type clientAPI struct {
	client *Client
}

func newClientAPI(client *Client) *clientAPI {
	return &clientAPI{client: client}
}

// ListRepositoryEvents fetches and converts the latest page of events.
func (a *clientAPI) ListRepositoryEvents(ctx context.Context, owner, repo string) ([]*ghEvent, error) {
	events, err := a.client.ListRepositoryEvents(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	converted := make([]*ghEvent, 0, len(events))
	for _, ev := range events {
		converted = append(converted, convertEvent(ev))
	}
	return converted, nil
}

// GetCommitMessage fetches the commit message for push enrichment.
func (a *clientAPI) GetCommitMessage(ctx context.Context, owner, repo, sha string) (string, error) {
	commit, err := a.client.GetCommit(ctx, owner, repo, sha)
	if err != nil {
		return "", err
	}
	return commit.GetCommit().GetMessage(), nil
}

// GetPullRequestDetail fetches title and body for PR enrichment.
func (a *clientAPI) GetPullRequestDetail(ctx context.Context, owner, repo string, number int) (string, string, error) {
	pr, err := a.client.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return "", "", err
	}
	return pr.GetTitle(), pr.GetBody(), nil
}

// convertEvent extracts the payload fields the handler uses from a raw
// go-github event. Payload parse failures leave the payload fields zero;
// the event is still emitted with a generic summary.
func convertEvent(ev *gh.Event) *ghEvent {
	out := &ghEvent{
		ID:        ev.GetID(),
		Type:      ev.GetType(),
		Actor:     ev.GetActor().GetLogin(),
		CreatedAt: ev.GetCreatedAt().Time,
	}

	payload, err := ev.ParsePayload()
	if err != nil {
		logger.Debug("github: payload parse failed for event %s: %v", out.ID, err)
		return out
	}

	switch p := payload.(type) {
	case *gh.PushEvent:
		out.Payload.HeadSHA = p.GetHead()
		out.Payload.CommitCount = len(p.Commits)
	case *gh.PullRequestEvent:
		out.Payload.Action = p.GetAction()
		out.Payload.Number = p.GetNumber()
	case *gh.IssuesEvent:
		out.Payload.Action = p.GetAction()
		out.Payload.Number = p.GetIssue().GetNumber()
		out.Payload.Title = p.GetIssue().GetTitle()
	case *gh.IssueCommentEvent:
		out.Payload.Action = p.GetAction()
		out.Payload.Number = p.GetIssue().GetNumber()
		out.Payload.Title = p.GetIssue().GetTitle()
	case *gh.CreateEvent:
		out.Payload.Ref = p.GetRef()
		out.Payload.RefType = p.GetRefType()
	case *gh.DeleteEvent:
		out.Payload.Ref = p.GetRef()
		out.Payload.RefType = p.GetRefType()
	case *gh.ReleaseEvent:
		out.Payload.Action = p.GetAction()
		out.Payload.Tag = p.GetRelease().GetTagName()
	}

	return out
}
