package forge

import "context"

// ProviderClient is the full surface the orchestrator drives a review
// through. Every call is atomic from the orchestrator's perspective: a
// partial failure returns an error and the enclosing job is retried by the
// queue rather than left half-applied.
//
// Methods marked optional may return ErrNotSupported on adapters that don't
// back the underlying forge feature (e.g. a provider without reactions);
// callers must treat that as "skip, don't fail the run".
//
//go:generate mockgen -destination=../../mocks/mock_provider_client.go -package=mocks github.com/sevigo/grepiku/internal/forge ProviderClient
type ProviderClient interface {
	FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestInfo, error)
	FetchCommit(ctx context.Context, owner, repo, sha string) (*CommitInfo, error)
	FetchDiffPatch(ctx context.Context, owner, repo string, number int) (string, error)
	ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error)

	UpdatePullRequestBody(ctx context.Context, owner, repo string, number int, body string) error

	CreateSummaryComment(ctx context.Context, owner, repo string, number int, body string) (int64, error)
	UpdateSummaryComment(ctx context.Context, owner, repo string, commentID int64, body string) error

	CreateInlineComment(ctx context.Context, owner, repo string, number int, headSHA string, c NewInlineComment) (int64, error)
	ListInlineComments(ctx context.Context, owner, repo string, number int) ([]InlineComment, error)
	UpdateInlineComment(ctx context.Context, owner, repo string, commentID int64, body string) error
	// ResolveInlineThread is optional; adapters without review-thread
	// resolution support return ErrNotSupported.
	ResolveInlineThread(ctx context.Context, owner, repo string, commentID int64) error

	CreateStatusCheck(ctx context.Context, owner, repo string, state StatusCheckState) (StatusCheckRef, error)
	UpdateStatusCheck(ctx context.Context, owner, repo string, ref StatusCheckRef, state StatusCheckState) error

	// AddReaction is optional and best-effort: callers must not fail
	// a job solely because a reaction couldn't be posted.
	AddReaction(ctx context.Context, owner, repo string, commentID int64, reaction string) error
	// ReplyToComment is optional; adapters without threaded issue-comment
	// replies fall back to CreateSummaryComment-style top-level posts.
	ReplyToComment(ctx context.Context, owner, repo string, number int, inReplyTo int64, body string) (int64, error)

	// CreatePullRequest and FindOpenPullRequestByHead are optional: only
	// exercised by tooling that opens PRs on the bot's own behalf, not by
	// the review pipeline itself.
	CreatePullRequest(ctx context.Context, owner, repo, title, body, head, base string) (*PullRequestInfo, error)
	FindOpenPullRequestByHead(ctx context.Context, owner, repo, headRef string) (*PullRequestInfo, error)
}
