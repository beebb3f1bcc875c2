package orchestrator

import (
	"context"

	"github.com/sevigo/grepiku/internal/core"
)

// Store is the persistence contract the orchestrator depends on. The
// concrete implementation (internal/storage) backs it with sqlx over
// Postgres, or over SQLite for the offline CLI; the same code serves both.
//
// Its mock lives in its own storemocks package rather than the shared
// mocks package: FeedbackCategoryCounts returns a type defined here, so a
// mock sharing mocks.MockStageRunner's package would import orchestrator
// back, and orchestrator's own internal tests import the mocks package.
//
//go:generate mockgen -destination=../../mocks/storemocks/mock_orchestrator_store.go -package=storemocks -mock_names=Store=MockOrchestratorStore github.com/sevigo/grepiku/internal/orchestrator Store
type Store interface {
	GetRepo(ctx context.Context, repoID int64) (*core.Repo, error)
	GetPullRequest(ctx context.Context, id int64) (*core.PullRequest, error)
	UpsertPullRequest(ctx context.Context, pr *core.PullRequest) error

	// GetLatestCompletedRun returns the most recent completed ReviewRun for
	// pullRequestID, or nil if none exists — the incremental
	// decision's anchor.
	GetLatestCompletedRun(ctx context.Context, pullRequestID int64) (*core.ReviewRun, error)
	// HasCompletedRun reports whether a ReviewRun for (pullRequestID, headSHA)
	// has already completed. No orchestrator code path calls it.
	HasCompletedRun(ctx context.Context, pullRequestID int64, headSHA string) (bool, error)

	CreateReviewRun(ctx context.Context, run *core.ReviewRun) (int64, error)
	UpdateReviewRun(ctx context.Context, run *core.ReviewRun) error

	ListOpenFindings(ctx context.Context, pullRequestID int64) ([]core.Finding, error)
	SaveFindings(ctx context.Context, findings []core.Finding) error

	ListReviewComments(ctx context.Context, pullRequestID int64) ([]core.ReviewComment, error)
	SaveReviewComment(ctx context.Context, c *core.ReviewComment) error

	GetRepoConfig(ctx context.Context, repoID int64) (*core.RepoConfig, []string, error)
	// SaveRepoConfig persists the `.grepiku.yml` read from the checkout
	// (config resolution step 4) so GetRepoConfig reflects it on the run
	// that loaded it and on every run after, without re-reading the repo.
	SaveRepoConfig(ctx context.Context, repoID int64, rawYAML string, warnings []string) error
	// GetMemoryRules returns accumulated feedback-derived overrides (the
	// stored memory-rules overlay) as a partially-populated RepoConfig;
	// nil if the repo has none yet.
	GetMemoryRules(ctx context.Context, repoID int64) (*core.RepoConfig, error)
	GetInstallationDefaults(ctx context.Context, installationID int64) (*core.RepoConfig, error)

	// FeedbackCategoryCounts summarizes prior accept/reject sentiment per
	// category for the reviewer prompt's feedback hint and the quality
	// gate's "often rejected" filter.
	FeedbackCategoryCounts(ctx context.Context, pullRequestID int64) (map[core.Category]FeedbackCounts, error)
}

// FeedbackCounts is one category's accept/reject tally.
type FeedbackCounts struct {
	Accepted int
	Rejected int
}
