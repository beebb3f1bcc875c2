package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/grepiku/internal/core"
)

type fakeStore struct {
	repoConfig    *core.RepoConfig
	latestRun     *core.ReviewRun
	feedback      []core.Feedback
	nextPRID      int64
	resolvedID    string
}

func (f *fakeStore) UpsertProvider(ctx context.Context, p *core.Provider) (int64, error) { return 1, nil }
func (f *fakeStore) UpsertInstallation(ctx context.Context, inst *core.Installation) (int64, error) {
	return 1, nil
}
func (f *fakeStore) UpsertRepo(ctx context.Context, repo *core.Repo) (int64, error) { return 1, nil }
func (f *fakeStore) UpsertAuthor(ctx context.Context, login string) (int64, error)  { return 1, nil }
func (f *fakeStore) UpsertPullRequest(ctx context.Context, pr *core.PullRequest) (int64, error) {
	if f.nextPRID != 0 {
		return f.nextPRID, nil
	}
	return 9, nil
}
func (f *fakeStore) GetRepoConfig(ctx context.Context, repoID int64) (*core.RepoConfig, error) {
	return f.repoConfig, nil
}
func (f *fakeStore) GetLatestRun(ctx context.Context, pullRequestID int64) (*core.ReviewRun, error) {
	return f.latestRun, nil
}
func (f *fakeStore) ResolveCanonicalCommentID(ctx context.Context, pullRequestID int64, providerCommentID, inReplyToID string) (string, error) {
	if f.resolvedID != "" {
		return f.resolvedID, nil
	}
	return providerCommentID, nil
}
func (f *fakeStore) SaveFeedback(ctx context.Context, fb *core.Feedback) error {
	f.feedback = append(f.feedback, *fb)
	return nil
}

type enqueued struct {
	queue   core.JobKind
	payload any
}

type fakeQueue struct {
	jobs []enqueued
}

func (q *fakeQueue) Enqueue(ctx context.Context, queue core.JobKind, payload any) error {
	q.jobs = append(q.jobs, enqueued{queue: queue, payload: payload})
	return nil
}
func (q *fakeQueue) Subscribe(ctx context.Context, queue core.JobKind, concurrency int, handle func(context.Context, any) error) error {
	return nil
}

func testLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestHandle_PullRequestEnqueuesReviewJob(t *testing.T) {
	store := &fakeStore{}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", []string{"/review"}, testLogger())

	ev := &core.WebhookEvent{
		Type: core.EventPullRequest, Provider: "github", RepoFullName: "acme/widgets",
		PRNumber: 5, PRState: "open", HeadSHA: "abc123", Action: "opened",
	}
	require.NoError(t, s.Handle(context.Background(), ev))

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, core.JobReview, queue.jobs[0].queue)
	payload := queue.jobs[0].payload.(core.ReviewJobPayload)
	assert.Equal(t, "abc123", payload.HeadSHA)
	assert.Equal(t, core.TriggerPullRequestEvent, payload.Trigger)
}

func TestHandle_PullRequestClosedIsIgnored(t *testing.T) {
	store := &fakeStore{}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", nil, testLogger())

	ev := &core.WebhookEvent{Type: core.EventPullRequest, PRNumber: 5, PRState: "closed"}
	require.NoError(t, s.Handle(context.Background(), ev))

	assert.Empty(t, queue.jobs)
}

func TestHandle_PullRequestSameHeadShaNonFailedRunIsIgnored(t *testing.T) {
	store := &fakeStore{
		latestRun: &core.ReviewRun{ID: 1, HeadSHA: "abc123", Status: core.ReviewRunCompleted},
	}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", nil, testLogger())

	ev := &core.WebhookEvent{Type: core.EventPullRequest, PRNumber: 5, PRState: "open", HeadSHA: "abc123"}
	require.NoError(t, s.Handle(context.Background(), ev))

	assert.Empty(t, queue.jobs)
}

func TestHandle_PullRequestSameHeadShaFailedRunRetries(t *testing.T) {
	store := &fakeStore{
		latestRun: &core.ReviewRun{ID: 1, HeadSHA: "abc123", Status: core.ReviewRunFailed},
	}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", nil, testLogger())

	ev := &core.WebhookEvent{Type: core.EventPullRequest, PRNumber: 5, PRState: "open", HeadSHA: "abc123"}
	require.NoError(t, s.Handle(context.Background(), ev))

	assert.Len(t, queue.jobs, 1)
}

func TestHandle_PullRequestSuppressedByTriggerConfig(t *testing.T) {
	store := &fakeStore{repoConfig: &core.RepoConfig{Triggers: &core.TriggerConfig{ManualOnly: true}}}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", nil, testLogger())

	ev := &core.WebhookEvent{Type: core.EventPullRequest, PRNumber: 5, PRState: "open", HeadSHA: "abc123"}
	require.NoError(t, s.Handle(context.Background(), ev))

	assert.Empty(t, queue.jobs)
}

func TestHandle_PullRequestSynchronizeFromAutoAcceptedSuggestionSuppressed(t *testing.T) {
	store := &fakeStore{}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", nil, testLogger())

	ev := &core.WebhookEvent{
		Type: core.EventPullRequest, PRNumber: 5, PRState: "open", HeadSHA: "abc123",
		Action: "synchronize", HeadCommitMessage: "Apply suggestions from code review",
	}
	require.NoError(t, s.Handle(context.Background(), ev))

	assert.Empty(t, queue.jobs)
}

func TestHandle_CommentFromBotIsIgnored(t *testing.T) {
	store := &fakeStore{}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", []string{"/review"}, testLogger())

	ev := &core.WebhookEvent{
		Type: core.EventComment, PRNumber: 5, CommentAuthor: "grepiku-bot[bot]", CommentBody: "/review",
	}
	require.NoError(t, s.Handle(context.Background(), ev))

	assert.Empty(t, queue.jobs)
	assert.Empty(t, store.feedback)
}

func TestHandle_CommentWithReviewTriggerEnqueuesReplyAndForcedReview(t *testing.T) {
	store := &fakeStore{latestRun: &core.ReviewRun{ID: 4}}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", []string{"/review"}, testLogger())

	ev := &core.WebhookEvent{
		Type: core.EventComment, PRNumber: 5, CommentAuthor: "alice", CommentBody: "/review",
		CommentID: "c1",
	}
	require.NoError(t, s.Handle(context.Background(), ev))

	require.Len(t, queue.jobs, 2)
	assert.Equal(t, core.JobCommentReply, queue.jobs[0].queue)
	assert.Equal(t, core.JobReview, queue.jobs[1].queue)
	forced := queue.jobs[1].payload.(core.ReviewJobPayload)
	assert.True(t, forced.Force)
	assert.Equal(t, core.TriggerCommentCommand, forced.Trigger)

	require.Len(t, store.feedback, 1)
	assert.Equal(t, core.FeedbackReply, store.feedback[0].Type)
}

func TestHandle_CommentPlainReplyRecordsFeedbackOnly(t *testing.T) {
	store := &fakeStore{latestRun: &core.ReviewRun{ID: 4}}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", []string{"/review"}, testLogger())

	ev := &core.WebhookEvent{
		Type: core.EventComment, PRNumber: 5, CommentAuthor: "alice", CommentBody: "fixed, thanks!",
		CommentID: "c1",
	}
	require.NoError(t, s.Handle(context.Background(), ev))

	assert.Empty(t, queue.jobs)
	require.Len(t, store.feedback, 1)
	assert.Equal(t, "resolved", store.feedback[0].Action)
}

func TestHandle_CommentThreadReplyWithoutCommandStillEnqueuesReply(t *testing.T) {
	store := &fakeStore{latestRun: &core.ReviewRun{ID: 4}}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", []string{"/review"}, testLogger())

	ev := &core.WebhookEvent{
		Type: core.EventComment, PRNumber: 5, CommentAuthor: "alice", CommentBody: "not fixed yet",
		CommentID: "c2", InReplyToID: "c1",
	}
	require.NoError(t, s.Handle(context.Background(), ev))

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, core.JobCommentReply, queue.jobs[0].queue)
	require.Len(t, store.feedback, 1)
	assert.Equal(t, "", store.feedback[0].Action)
}

func TestHandle_ReactionRecordsFeedbackAgainstLatestRun(t *testing.T) {
	store := &fakeStore{latestRun: &core.ReviewRun{ID: 7}}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", nil, testLogger())

	ev := &core.WebhookEvent{
		Type: core.EventReaction, PRNumber: 5, CommentID: "c1", ReactionContent: "+1",
	}
	require.NoError(t, s.Handle(context.Background(), ev))

	require.Len(t, store.feedback, 1)
	assert.Equal(t, core.FeedbackReaction, store.feedback[0].Type)
	assert.Equal(t, "+1", store.feedback[0].Sentiment)
	assert.Equal(t, int64(7), store.feedback[0].ReviewRunID)
}

func TestHandle_ReactionWithNoPriorRunIsANoop(t *testing.T) {
	store := &fakeStore{}
	queue := &fakeQueue{}
	s := New(store, queue, "grepiku-bot", nil, testLogger())

	ev := &core.WebhookEvent{Type: core.EventReaction, PRNumber: 5, CommentID: "c1"}
	require.NoError(t, s.Handle(context.Background(), ev))

	assert.Empty(t, store.feedback)
}
