package github

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entangle-labs/entangled/internal/core/domain"
	"github.com/entangle-labs/entangled/internal/core/ports/driven"
)

// fakeAPI implements the api interface for handler tests.
type fakeAPI struct {
	events    []*ghEvent
	listErr   error
	commitMsg string
	commitErr error
	prTitle   string
	prBody    string
	prErr     error
}

func (f *fakeAPI) ListRepositoryEvents(_ context.Context, _, _ string) ([]*ghEvent, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

func (f *fakeAPI) GetCommitMessage(_ context.Context, _, _, _ string) (string, error) {
	return f.commitMsg, f.commitErr
}

func (f *fakeAPI) GetPullRequestDetail(_ context.Context, _, _ string, _ int) (string, string, error) {
	return f.prTitle, f.prBody, f.prErr
}

func newTestHandler(f *fakeAPI) *Handler {
	return &Handler{
		newAPI: func(_ context.Context, _ string) api { return f },
	}
}

func collectReq(config string, since *time.Time, cursor string) driven.CollectRequest {
	return driven.CollectRequest{
		Config:      json.RawMessage(config),
		Credentials: json.RawMessage(`{"token":"ghp_x"}`),
		Since:       since,
		Cursor:      cursor,
	}
}

func TestCollect_SinceBoundaryIsExclusive(t *testing.T) {
	since := time.Unix(1700000000, 0).UTC()
	f := &fakeAPI{events: []*ghEvent{
		{ID: "1", Type: "PushEvent", CreatedAt: time.Unix(1699999999, 0).UTC()},
		{ID: "2", Type: "PushEvent", CreatedAt: time.Unix(1700000000, 0).UTC()},
		{ID: "3", Type: "PushEvent", CreatedAt: time.Unix(1700000001, 0).UTC()},
	}}
	h := newTestHandler(f)

	result, err := h.Collect(context.Background(), collectReq(`{"owner":"acme","repo":"widgets"}`, &since, ""))
	require.NoError(t, err)
	require.Len(t, result.Qupts, 1, "only events strictly after since")
	assert.Equal(t, "github:3", result.Qupts[0].ExternalID)
	assert.Empty(t, result.Cursor, "github produces no cursor")
}

func TestCollect_EmptyEventFilterMeansAll(t *testing.T) {
	f := &fakeAPI{events: []*ghEvent{
		{ID: "1", Type: "PushEvent", CreatedAt: time.Now().UTC()},
		{ID: "2", Type: "WatchEvent", CreatedAt: time.Now().UTC()},
	}}
	h := newTestHandler(f)

	result, err := h.Collect(context.Background(), collectReq(`{"owner":"acme","repo":"widgets"}`, nil, ""))
	require.NoError(t, err)
	assert.Len(t, result.Qupts, 2)
}

func TestCollect_EventFilter(t *testing.T) {
	f := &fakeAPI{events: []*ghEvent{
		{ID: "1", Type: "PushEvent", CreatedAt: time.Now().UTC()},
		{ID: "2", Type: "WatchEvent", CreatedAt: time.Now().UTC()},
		{ID: "3", Type: "IssuesEvent", CreatedAt: time.Now().UTC(),
			Payload: eventPayload{Action: "opened", Number: 7, Title: "Crash on boot"}},
	}}
	h := newTestHandler(f)

	result, err := h.Collect(context.Background(),
		collectReq(`{"owner":"acme","repo":"widgets","events":["issues"]}`, nil, ""))
	require.NoError(t, err)
	require.Len(t, result.Qupts, 1)
	assert.Equal(t, "github:3", result.Qupts[0].ExternalID)
	assert.Contains(t, result.Qupts[0].Content, "Opened issue #7")
}

func TestCollect_UnknownEventTypesSkipped(t *testing.T) {
	f := &fakeAPI{events: []*ghEvent{
		{ID: "1", Type: "GollumEvent", CreatedAt: time.Now().UTC()},
	}}
	h := newTestHandler(f)

	result, err := h.Collect(context.Background(), collectReq(`{"owner":"acme","repo":"widgets"}`, nil, ""))
	require.NoError(t, err)
	assert.Empty(t, result.Qupts)
}

func TestCollect_PushEnrichment(t *testing.T) {
	f := &fakeAPI{
		events: []*ghEvent{
			{ID: "1", Type: "PushEvent", CreatedAt: time.Now().UTC(),
				Payload: eventPayload{HeadSHA: "abc123", CommitCount: 2}},
		},
		commitMsg: "Fix flaky retry test\n\nLonger explanation.",
	}
	h := newTestHandler(f)

	result, err := h.Collect(context.Background(), collectReq(`{"owner":"acme","repo":"widgets"}`, nil, ""))
	require.NoError(t, err)
	require.Len(t, result.Qupts, 1)
	assert.Equal(t, "Pushed 2 commit(s) to acme/widgets: Fix flaky retry test", result.Qupts[0].Content)
	assert.Equal(t, "Fix flaky retry test", result.Qupts[0].Metadata["commit_message"])
}

func TestCollect_EnrichmentFailureKeepsEvent(t *testing.T) {
	f := &fakeAPI{
		events: []*ghEvent{
			{ID: "1", Type: "PullRequestEvent", CreatedAt: time.Now().UTC(),
				Payload: eventPayload{Action: "opened", Number: 12}},
		},
		prErr: errors.New("boom"),
	}
	h := newTestHandler(f)

	result, err := h.Collect(context.Background(), collectReq(`{"owner":"acme","repo":"widgets"}`, nil, ""))
	require.NoError(t, err)
	require.Len(t, result.Qupts, 1, "core event survives a failed detail fetch")
	assert.Equal(t, "Opened pull request #12 in acme/widgets", result.Qupts[0].Content)
	assert.NotContains(t, result.Qupts[0].Metadata, "pr_title")
}

func TestCollect_TransientErrorSwallowed(t *testing.T) {
	f := &fakeAPI{listErr: &APIError{StatusCode: 502, Message: "bad gateway"}}
	h := newTestHandler(f)

	result, err := h.Collect(context.Background(), collectReq(`{"owner":"acme","repo":"widgets"}`, nil, ""))
	require.NoError(t, err, "transient errors defer to the next scheduled run")
	assert.Empty(t, result.Qupts)
	assert.Empty(t, result.Cursor)
}

func TestCollect_AuthErrorsPropagate(t *testing.T) {
	for _, status := range []int{401, 403, 404} {
		f := &fakeAPI{listErr: &APIError{StatusCode: status, Message: "denied"}}
		h := newTestHandler(f)

		_, err := h.Collect(context.Background(), collectReq(`{"owner":"acme","repo":"widgets"}`, nil, ""))
		assert.Error(t, err, "status %d must surface as a sync failure", status)
	}
}

func TestCollect_RateLimitPropagates(t *testing.T) {
	f := &fakeAPI{listErr: &RateLimitError{ResetAt: time.Unix(1700000000, 0).UTC()}}
	h := newTestHandler(f)

	_, err := h.Collect(context.Background(), collectReq(`{"owner":"acme","repo":"widgets"}`, nil, ""))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestCollect_ConfigValidation(t *testing.T) {
	h := newTestHandler(&fakeAPI{})

	_, err := h.Collect(context.Background(), collectReq(`{"repo":"widgets"}`, nil, ""))
	assert.ErrorIs(t, err, ErrConfigMissingRepo)

	_, err = h.Collect(context.Background(),
		collectReq(`{"owner":"acme","repo":"widgets","events":["bogus"]}`, nil, ""))
	assert.ErrorIs(t, err, ErrConfigInvalidEvent)
}

func TestCollect_EmptyToken(t *testing.T) {
	h := newTestHandler(&fakeAPI{})

	_, err := h.Collect(context.Background(), driven.CollectRequest{
		Config:      json.RawMessage(`{"owner":"acme","repo":"widgets"}`),
		Credentials: json.RawMessage(`{"token":""}`),
	})
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
}
