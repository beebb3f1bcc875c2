package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/scheduler"
)

var _ scheduler.Store = (*DB)(nil)

// UpsertProvider returns the id of the (kind, base_url) pair, inserting it
// if this is the first time the scheduler has seen it.
func (db *DB) UpsertProvider(ctx context.Context, p *core.Provider) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id, db.rebind(`SELECT id FROM providers WHERE kind = ? AND base_url = ?`), p.Kind, p.BaseURL)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("storage: lookup provider: %w", err)
	}
	id, err = db.insertReturningID(ctx, `INSERT INTO providers (kind, base_url) VALUES (?, ?)`, p.Kind, p.BaseURL)
	if err != nil {
		return 0, fmt.Errorf("storage: insert provider: %w", err)
	}
	return id, nil
}

// UpsertInstallation returns the id of the (provider_id, external_id) pair.
func (db *DB) UpsertInstallation(ctx context.Context, inst *core.Installation) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id,
		db.rebind(`SELECT id FROM installations WHERE provider_id = ? AND external_id = ?`),
		inst.ProviderID, inst.ExternalID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("storage: lookup installation: %w", err)
	}
	id, err = db.insertReturningID(ctx,
		`INSERT INTO installations (provider_id, external_id) VALUES (?, ?)`,
		inst.ProviderID, inst.ExternalID)
	if err != nil {
		return 0, fmt.Errorf("storage: insert installation: %w", err)
	}
	return id, nil
}

// UpsertRepo inserts or refreshes the mutable fields (owner/name/full_name/
// default_branch can change on a rename) of a (provider_id, external_id) repo.
func (db *DB) UpsertRepo(ctx context.Context, repo *core.Repo) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id,
		db.rebind(`SELECT id FROM repos WHERE provider_id = ? AND external_id = ?`),
		repo.ProviderID, repo.ExternalID)
	if err == nil {
		_, uerr := db.ExecContext(ctx, db.rebind(`
			UPDATE repos SET owner = ?, name = ?, full_name = ?, default_branch = ? WHERE id = ?`),
			repo.Owner, repo.Name, repo.FullName, repo.DefaultBranch, id)
		if uerr != nil {
			return 0, fmt.Errorf("storage: refresh repo: %w", uerr)
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("storage: lookup repo: %w", err)
	}
	id, err = db.insertReturningID(ctx, `
		INSERT INTO repos (provider_id, external_id, owner, name, full_name, default_branch)
		VALUES (?, ?, ?, ?, ?, ?)`,
		repo.ProviderID, repo.ExternalID, repo.Owner, repo.Name, repo.FullName, repo.DefaultBranch)
	if err != nil {
		return 0, fmt.Errorf("storage: insert repo: %w", err)
	}
	return id, nil
}

// ListRepos returns every repo row, newest first. Used by cmd/cli's status
// command; nothing in the review pipeline itself needs a full repo listing.
func (db *DB) ListRepos(ctx context.Context) ([]core.Repo, error) {
	var repos []core.Repo
	err := db.SelectContext(ctx, &repos, `SELECT id, provider_id, external_id, owner, name, full_name, default_branch FROM repos ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("storage: list repos: %w", err)
	}
	return repos, nil
}

// UpsertAuthor returns the id of a login, inserting it on first sight.
func (db *DB) UpsertAuthor(ctx context.Context, login string) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id, db.rebind(`SELECT id FROM authors WHERE login = ?`), login)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("storage: lookup author: %w", err)
	}
	id, err = db.insertReturningID(ctx, `INSERT INTO authors (login) VALUES (?)`, login)
	if err != nil {
		return 0, fmt.Errorf("storage: insert author: %w", err)
	}
	return id, nil
}

// UpsertPullRequest inserts or refreshes a (repo_id, number) pull request,
// writing back the assigned id.
func (db *DB) UpsertPullRequest(ctx context.Context, pr *core.PullRequest) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id,
		db.rebind(`SELECT id FROM pull_requests WHERE repo_id = ? AND number = ?`), pr.RepoID, pr.Number)
	if err == nil {
		pr.ID = id
		_, uerr := db.ExecContext(ctx, db.rebind(`
			UPDATE pull_requests SET external_id = ?, title = ?, body = ?, state = ?,
				base_ref = ?, head_ref = ?, base_sha = ?, head_sha = ?, draft = ?, author_id = ?
			WHERE id = ?`),
			pr.ExternalID, pr.Title, pr.Body, pr.State, pr.BaseRef, pr.HeadRef,
			pr.BaseSHA, pr.HeadSHA, pr.Draft, pr.AuthorID, id)
		if uerr != nil {
			return 0, fmt.Errorf("storage: refresh pull request: %w", uerr)
		}
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("storage: lookup pull request: %w", err)
	}
	id, err = db.insertReturningID(ctx, `
		INSERT INTO pull_requests
			(repo_id, number, external_id, title, body, state, base_ref, head_ref, base_sha, head_sha, draft, author_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pr.RepoID, pr.Number, pr.ExternalID, pr.Title, pr.Body, pr.State,
		pr.BaseRef, pr.HeadRef, pr.BaseSHA, pr.HeadSHA, pr.Draft, pr.AuthorID)
	if err != nil {
		return 0, fmt.Errorf("storage: insert pull request: %w", err)
	}
	pr.ID = id
	return id, nil
}

// repoConfigRow mirrors the repo_configs table for scanning.
type repoConfigRow struct {
	RawYAML  string `db:"raw_yaml"`
	Warnings string `db:"warnings"`
}

// GetRepoConfig parses the repo's stored `.grepiku.yml` blob into a
// core.RepoConfig. It returns core.DefaultRepoConfig() if the repo has
// never pushed a config file.
func (db *DB) GetRepoConfig(ctx context.Context, repoID int64) (*core.RepoConfig, error) {
	var row repoConfigRow
	err := db.GetContext(ctx, &row, db.rebind(`SELECT raw_yaml, warnings FROM repo_configs WHERE repo_id = ?`), repoID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultRepoConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get repo config: %w", err)
	}
	cfg := core.DefaultRepoConfig()
	if row.RawYAML != "" {
		if err := yaml.Unmarshal([]byte(row.RawYAML), cfg); err != nil {
			return nil, fmt.Errorf("storage: parse stored repo config: %w", err)
		}
	}
	return cfg, nil
}

// SaveRepoConfig persists the raw YAML and any parse warnings produced for
// a repo's config file.
func (db *DB) SaveRepoConfig(ctx context.Context, repoID int64, rawYAML string, warnings []string) error {
	warnJSON, err := json.Marshal(warnings)
	if err != nil {
		return fmt.Errorf("storage: marshal warnings: %w", err)
	}
	var exists bool
	err = db.GetContext(ctx, &exists, db.rebind(`SELECT true FROM repo_configs WHERE repo_id = ?`), repoID)
	switch {
	case err == nil:
		_, err = db.ExecContext(ctx, db.rebind(`
			UPDATE repo_configs SET raw_yaml = ?, warnings = ?, updated_at = CURRENT_TIMESTAMP WHERE repo_id = ?`),
			rawYAML, string(warnJSON), repoID)
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.ExecContext(ctx, db.rebind(`
			INSERT INTO repo_configs (repo_id, raw_yaml, warnings) VALUES (?, ?, ?)`),
			repoID, rawYAML, string(warnJSON))
	default:
		return fmt.Errorf("storage: lookup repo config: %w", err)
	}
	if err != nil {
		return fmt.Errorf("storage: save repo config: %w", err)
	}
	return nil
}

// GetLatestRun returns the most recently started ReviewRun for a pull
// request, or nil if none has ever run.
func (db *DB) GetLatestRun(ctx context.Context, pullRequestID int64) (*core.ReviewRun, error) {
	var run core.ReviewRun
	err := db.GetContext(ctx, &run, db.rebind(`
		SELECT id, pull_request_id, head_sha, status, trigger, started_at, completed_at,
			draft_json, final_json, verdicts_json, checks_json, context_pack_json
		FROM review_runs WHERE pull_request_id = ? ORDER BY started_at DESC LIMIT 1`),
		pullRequestID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get latest run: %w", err)
	}
	return &run, nil
}

// ResolveCanonicalCommentID walks the review_comments table to find the
// root comment of a reply thread. If providerCommentID already names a
// known row, it is its own canonical id. If inReplyToID names a known row,
// that row's id is canonical. Otherwise providerCommentID is returned
// unchanged: it is the first comment seen in what may become a thread.
func (db *DB) ResolveCanonicalCommentID(ctx context.Context, pullRequestID int64, providerCommentID, inReplyToID string) (string, error) {
	var id string
	err := db.GetContext(ctx, &id,
		db.rebind(`SELECT provider_comment_id FROM review_comments WHERE pull_request_id = ? AND provider_comment_id = ?`),
		pullRequestID, providerCommentID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("storage: resolve canonical comment: %w", err)
	}
	if inReplyToID != "" {
		err = db.GetContext(ctx, &id,
			db.rebind(`SELECT provider_comment_id FROM review_comments WHERE pull_request_id = ? AND provider_comment_id = ?`),
			pullRequestID, inReplyToID)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("storage: resolve canonical comment: %w", err)
		}
	}
	return providerCommentID, nil
}

// SaveFeedback inserts a Feedback row, writing back its assigned id.
func (db *DB) SaveFeedback(ctx context.Context, fb *core.Feedback) error {
	id, err := db.insertReturningID(ctx, `
		INSERT INTO feedback (review_run_id, type, sentiment, action, comment_id, metadata)
		VALUES (?, ?, ?, ?, ?, ?)`,
		fb.ReviewRunID, fb.Type, fb.Sentiment, fb.Action, fb.CommentID, fb.Metadata)
	if err != nil {
		return fmt.Errorf("storage: save feedback: %w", err)
	}
	fb.ID = id
	return nil
}
