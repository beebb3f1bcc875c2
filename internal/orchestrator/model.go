package orchestrator

import (
	"context"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/forge"
)

// ClientFactory mints a forge.ProviderClient bound to one installation, and
// returns the raw access token alongside it for the worktree checkout
// (which has to authenticate a plain `git` operation, not just API calls).
type ClientFactory interface {
	NewClient(ctx context.Context, provider string, installationID int64) (forge.ProviderClient, string, error)
}

// WorktreeManager is the contract the orchestrator drives for checkout.
type WorktreeManager interface {
	EnsureRepoCheckout(ctx context.Context, owner, repo, headSHA, token string) (string, error)
}

// run carries the state threaded through one Orchestrator.Run call. It is
// built up step by step rather than passed as a dozen separate parameters.
type run struct {
	job core.ReviewJobPayload

	repo   *core.Repo
	pr     *core.PullRequest
	client forge.ProviderClient
	token  string

	reviewRunID  int64
	traceID      string
	worktreePath string
	bundleDir    string
	outDir       string

	resolved *core.ResolvedConfig

	incremental  bool
	baseForDiff  string
	touchedPaths map[string]bool

	diffPatch    string
	changedFiles []forge.ChangedFile

	draft    core.ReviewOutput
	final    core.FinalReview
	verdicts core.VerdictsOutput
	coverage core.CoveragePlan
	checks   core.ChecksOutput

	priorOpen   []core.Finding
	findings    []core.Finding
	carriedOver int

	feedback map[core.Category]FeedbackCounts
	warnings []string
}

func (r *run) owner() string {
	i := ownerSplit(r.job.RepoFullName)
	if i < 0 {
		return r.job.RepoFullName
	}
	return r.job.RepoFullName[:i]
}

func (r *run) repoName() string {
	i := ownerSplit(r.job.RepoFullName)
	if i < 0 {
		return r.job.RepoFullName
	}
	return r.job.RepoFullName[i+1:]
}

func ownerSplit(fullName string) int {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return i
		}
	}
	return -1
}
