package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/scheduler"
)

const testWebhookSecret = "test-secret"

// signPayload returns the X-Hub-Signature-256 value GitHub would send for body.
func signPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func makeWebhookRequest(t *testing.T, eventType string, body []byte, signature string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/github", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if eventType != "" {
		req.Header.Set("X-GitHub-Event", eventType)
	}
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	return req
}

type fakeStore struct {
	jobs []core.ReviewJobPayload
}

func (f *fakeStore) UpsertProvider(ctx context.Context, p *core.Provider) (int64, error) {
	return 1, nil
}
func (f *fakeStore) UpsertInstallation(ctx context.Context, inst *core.Installation) (int64, error) {
	return 1, nil
}
func (f *fakeStore) UpsertRepo(ctx context.Context, repo *core.Repo) (int64, error) { return 1, nil }
func (f *fakeStore) UpsertAuthor(ctx context.Context, login string) (int64, error)  { return 1, nil }
func (f *fakeStore) UpsertPullRequest(ctx context.Context, pr *core.PullRequest) (int64, error) {
	return 9, nil
}
func (f *fakeStore) GetRepoConfig(ctx context.Context, repoID int64) (*core.RepoConfig, error) {
	return nil, nil
}
func (f *fakeStore) GetLatestRun(ctx context.Context, pullRequestID int64) (*core.ReviewRun, error) {
	return nil, nil
}
func (f *fakeStore) ResolveCanonicalCommentID(ctx context.Context, pullRequestID int64, providerCommentID, inReplyToID string) (string, error) {
	return providerCommentID, nil
}
func (f *fakeStore) SaveFeedback(ctx context.Context, fb *core.Feedback) error { return nil }

type fakeQueue struct {
	enqueued []core.ReviewJobPayload
}

func (q *fakeQueue) Enqueue(ctx context.Context, kind core.JobKind, payload any) error {
	if job, ok := payload.(core.ReviewJobPayload); ok {
		q.enqueued = append(q.enqueued, job)
	}
	return nil
}
func (q *fakeQueue) Subscribe(ctx context.Context, kind core.JobKind, concurrency int, handle func(context.Context, any) error) error {
	return nil
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestHandler(queue *fakeQueue) *WebhookHandler {
	sched := scheduler.New(&fakeStore{}, queue, "grepiku-bot", []string{"/review"}, testLogger())
	return NewWebhookHandler(testWebhookSecret, nil, sched, testLogger())
}

func pullRequestOpenedPayload() []byte {
	payload := map[string]any{
		"action": "opened",
		"number": 7,
		"pull_request": map[string]any{
			"number": 7,
			"title":  "add feature",
			"state":  "open",
			"draft":  false,
			"head":   map[string]any{"ref": "feature", "sha": "abc123"},
			"base":   map[string]any{"ref": "main", "sha": "def456"},
			"user":   map[string]any{"login": "octocat"},
		},
		"repository": map[string]any{
			"name":      "widgets",
			"full_name": "acme/widgets",
			"owner":     map[string]any{"login": "acme"},
		},
	}
	body, _ := json.Marshal(payload)
	return body
}

func issueCommentOnIssuePayload() []byte {
	payload := map[string]any{
		"action": "created",
		"issue": map[string]any{
			"number": 3,
		},
		"comment": map[string]any{
			"id":   1,
			"body": "just a regular issue comment",
			"user": map[string]any{"login": "octocat"},
		},
		"repository": map[string]any{
			"name":      "widgets",
			"full_name": "acme/widgets",
			"owner":     map[string]any{"login": "acme"},
		},
	}
	body, _ := json.Marshal(payload)
	return body
}

func TestHandle_ValidPullRequestOpenedEnqueuesReview(t *testing.T) {
	queue := &fakeQueue{}
	h := newTestHandler(queue)

	body := pullRequestOpenedPayload()
	req := makeWebhookRequest(t, "pull_request", body, signPayload(testWebhookSecret, body))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "abc123", queue.enqueued[0].HeadSHA)
	assert.Equal(t, core.TriggerPullRequestEvent, queue.enqueued[0].Trigger)
}

func TestHandle_InvalidSignatureRejected(t *testing.T) {
	queue := &fakeQueue{}
	h := newTestHandler(queue)

	body := pullRequestOpenedPayload()
	req := makeWebhookRequest(t, "pull_request", body, signPayload("wrong-secret", body))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, queue.enqueued)
}

func TestHandle_IssueCommentOnNonPullRequestIssueIsIgnored(t *testing.T) {
	queue := &fakeQueue{}
	h := newTestHandler(queue)

	body := issueCommentOnIssuePayload()
	req := makeWebhookRequest(t, "issue_comment", body, signPayload(testWebhookSecret, body))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, queue.enqueued)
}

func TestHandle_UnhandledEventTypeIsReported(t *testing.T) {
	queue := &fakeQueue{}
	h := newTestHandler(queue)

	body := []byte(`{}`)
	req := makeWebhookRequest(t, "ping", body, signPayload(testWebhookSecret, body))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "event type not handled", rec.Body.String())
	assert.Empty(t, queue.enqueued)
}
