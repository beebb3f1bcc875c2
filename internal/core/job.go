package core

import "context"

// JobKind enumerates the queues a review job can be dispatched on.
type JobKind string

const (
	JobReview       JobKind = "review"
	JobCommentReply JobKind = "comment-reply"
	JobIndex        JobKind = "index"
	JobAnalytics    JobKind = "analytics"
)

// ReviewTrigger records what caused a review job to be enqueued, threaded
// through to the orchestrator so it can pick incremental-vs-full diffing
// and disable incremental mode for manual/forced runs.
type ReviewTrigger string

const (
	TriggerPullRequestEvent ReviewTrigger = "pull_request"
	TriggerManual           ReviewTrigger = "manual"
	TriggerCommentCommand   ReviewTrigger = "comment"
)

// ReviewJobPayload is the (repo, pull_request, head_revision) triple plus
// dispatch metadata the orchestrator needs.
type ReviewJobPayload struct {
	Provider       string
	InstallationID int64
	RepoID         int64
	RepoFullName   string
	PullRequestID  int64
	PRNumber       int
	HeadSHA        string
	Trigger        ReviewTrigger
	Force          bool
	RulesOverride  map[string]any
}

// CommentReplyPayload drives a best-effort reply/reaction side-effect
// triggered by a non-review comment command.
type CommentReplyPayload struct {
	Provider       string
	InstallationID int64
	RepoFullName   string
	PRNumber       int
	CommentID      string
	Trigger        CommentTrigger
}

// IndexJobPayload refreshes a repository's code index and graph.
type IndexJobPayload struct {
	RepoID   int64
	RepoPath string
	Force    bool
}

// AnalyticsJobPayload is an opaque, additive payload for the (non-core)
// analytics worker; the core only needs to be able to enqueue it.
type AnalyticsJobPayload struct {
	ReviewRunID int64
}

// Job is a single, executable unit of work dispatched by a queue consumer.
type Job interface {
	Kind() JobKind
	Run(ctx context.Context, payload any) error
}

// Queue is the minimal FIFO-per-queue contract. Concrete implementations
// live in internal/jobqueue (an in-process channel queue and a Redis-backed
// one); neither retries a payload whose handler returned an error.
type Queue interface {
	// Enqueue admits a payload onto the named queue.
	Enqueue(ctx context.Context, queue JobKind, payload any) error
	// Subscribe registers a handler consumed by `concurrency` workers until
	// ctx is canceled. Subscribe blocks the calling goroutine; callers run it
	// in its own goroutine per queue.
	Subscribe(ctx context.Context, queue JobKind, concurrency int, handle func(context.Context, any) error) error
}
