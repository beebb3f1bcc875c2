package storage

import (
	"context"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/orchestrator"
)

// orchestratorStore adapts *DB to orchestrator.Store. It exists only to
// rename the two methods whose orchestrator signature collides with the
// one scheduler.Store needs (UpsertPullRequest, GetRepoConfig); every
// other method is promoted straight through from the embedded *DB.
type orchestratorStore struct{ *DB }

var _ orchestrator.Store = orchestratorStore{}

// NewOrchestratorStore adapts db to the orchestrator.Store contract.
func NewOrchestratorStore(db *DB) orchestrator.Store { return orchestratorStore{db} }

func (o orchestratorStore) UpsertPullRequest(ctx context.Context, pr *core.PullRequest) error {
	_, err := o.DB.UpsertPullRequest(ctx, pr)
	return err
}

func (o orchestratorStore) GetRepoConfig(ctx context.Context, repoID int64) (*core.RepoConfig, []string, error) {
	return o.DB.GetRepoConfigWithWarnings(ctx, repoID)
}
