package scheduler

import (
	"context"

	"github.com/sevigo/grepiku/internal/core"
)

// Store is the persistence contract the scheduler depends on: admitting a
// normalized webhook event into the entity graph and answering the debounce
// question before a job is enqueued.
type Store interface {
	UpsertProvider(ctx context.Context, p *core.Provider) (int64, error)
	UpsertInstallation(ctx context.Context, inst *core.Installation) (int64, error)
	UpsertRepo(ctx context.Context, repo *core.Repo) (int64, error)
	// UpsertAuthor records a PR/comment author as a user and returns an
	// opaque author id PullRequest.AuthorID can reference.
	UpsertAuthor(ctx context.Context, login string) (int64, error)
	UpsertPullRequest(ctx context.Context, pr *core.PullRequest) (int64, error)

	// GetRepoConfig returns the repo's parsed `.grepiku.yml`, or nil if the
	// repo has none committed yet. Only the Triggers field is consulted
	// here; the rest feeds config resolution inside the review job itself.
	GetRepoConfig(ctx context.Context, repoID int64) (*core.RepoConfig, error)

	// GetLatestRun returns the most recent ReviewRun for pullRequestID, or
	// nil if none has ever been started.
	GetLatestRun(ctx context.Context, pullRequestID int64) (*core.ReviewRun, error)

	// ResolveCanonicalCommentID maps a provider comment id to the finding
	// comment id it is anchored to, following an in_reply_to chain one level
	// deep. Returns the input id unchanged when no finding is known for it.
	ResolveCanonicalCommentID(ctx context.Context, pullRequestID int64, providerCommentID, inReplyToID string) (string, error)

	SaveFeedback(ctx context.Context, fb *core.Feedback) error
}
