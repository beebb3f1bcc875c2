package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/orchestrator"
)

// GetRepo loads a Repo by id.
func (db *DB) GetRepo(ctx context.Context, repoID int64) (*core.Repo, error) {
	var repo core.Repo
	err := db.GetContext(ctx, &repo, db.rebind(`
		SELECT id, provider_id, external_id, owner, name, full_name, default_branch
		FROM repos WHERE id = ?`), repoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get repo: %w", err)
	}
	return &repo, nil
}

// GetPullRequest loads a PullRequest by id.
func (db *DB) GetPullRequest(ctx context.Context, id int64) (*core.PullRequest, error) {
	var pr core.PullRequest
	err := db.GetContext(ctx, &pr, db.rebind(`
		SELECT id, repo_id, number, external_id, title, body, state, base_ref, head_ref,
			base_sha, head_sha, draft, author_id
		FROM pull_requests WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get pull request: %w", err)
	}
	return &pr, nil
}

// ListPullRequestsByRepo returns every pull request filed against repoID,
// newest first. Used by cmd/terminal to browse a repo's review history
// offline; no review-pipeline component needs the full list.
func (db *DB) ListPullRequestsByRepo(ctx context.Context, repoID int64) ([]core.PullRequest, error) {
	var prs []core.PullRequest
	err := db.SelectContext(ctx, &prs, db.rebind(`
		SELECT id, repo_id, number, external_id, title, body, state, base_ref, head_ref,
			base_sha, head_sha, draft, author_id
		FROM pull_requests WHERE repo_id = ? ORDER BY number DESC`), repoID)
	if err != nil {
		return nil, fmt.Errorf("storage: list pull requests: %w", err)
	}
	return prs, nil
}

// ListReviewRuns returns every run recorded for a pull request, newest
// first. Used by cmd/terminal to replay past runs offline.
func (db *DB) ListReviewRuns(ctx context.Context, pullRequestID int64) ([]core.ReviewRun, error) {
	var runs []core.ReviewRun
	err := db.SelectContext(ctx, &runs, db.rebind(`
		SELECT id, pull_request_id, head_sha, status, trigger, started_at, completed_at,
			draft_json, final_json, verdicts_json, checks_json, context_pack_json
		FROM review_runs WHERE pull_request_id = ? ORDER BY started_at DESC`), pullRequestID)
	if err != nil {
		return nil, fmt.Errorf("storage: list review runs: %w", err)
	}
	return runs, nil
}

// GetLatestCompletedRun returns the most recent completed ReviewRun for a
// pull request, or nil if none has completed yet.
func (db *DB) GetLatestCompletedRun(ctx context.Context, pullRequestID int64) (*core.ReviewRun, error) {
	var run core.ReviewRun
	err := db.GetContext(ctx, &run, db.rebind(`
		SELECT id, pull_request_id, head_sha, status, trigger, started_at, completed_at,
			draft_json, final_json, verdicts_json, checks_json, context_pack_json
		FROM review_runs
		WHERE pull_request_id = ? AND status = ?
		ORDER BY started_at DESC LIMIT 1`),
		pullRequestID, core.ReviewRunCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get latest completed run: %w", err)
	}
	return &run, nil
}

// HasCompletedRun reports whether a ReviewRun for (pullRequestID, headSHA)
// with status completed exists.
func (db *DB) HasCompletedRun(ctx context.Context, pullRequestID int64, headSHA string) (bool, error) {
	var count int
	err := db.GetContext(ctx, &count, db.rebind(`
		SELECT COUNT(*) FROM review_runs WHERE pull_request_id = ? AND head_sha = ? AND status = ?`),
		pullRequestID, headSHA, core.ReviewRunCompleted)
	if err != nil {
		return false, fmt.Errorf("storage: has completed run: %w", err)
	}
	return count > 0, nil
}

// CreateReviewRun inserts a new ReviewRun row, writing back its assigned id.
func (db *DB) CreateReviewRun(ctx context.Context, run *core.ReviewRun) (int64, error) {
	id, err := db.insertReturningID(ctx, `
		INSERT INTO review_runs (pull_request_id, head_sha, status, trigger, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		run.PullRequestID, run.HeadSHA, run.Status, run.Trigger, run.StartedAt)
	if err != nil {
		return 0, fmt.Errorf("storage: create review run: %w", err)
	}
	run.ID = id
	return id, nil
}

// UpdateReviewRun rewrites the mutable fields of an in-flight or completed
// ReviewRun: status, completion time, and every produced JSON artifact.
func (db *DB) UpdateReviewRun(ctx context.Context, run *core.ReviewRun) error {
	_, err := db.ExecContext(ctx, db.rebind(`
		UPDATE review_runs SET status = ?, completed_at = ?, draft_json = ?, final_json = ?,
			verdicts_json = ?, checks_json = ?, context_pack_json = ?
		WHERE id = ?`),
		run.Status, run.CompletedAt, run.DraftJSON, run.FinalJSON,
		run.VerdictsJSON, run.ChecksJSON, run.ContextPackJSON, run.ID)
	if err != nil {
		return fmt.Errorf("storage: update review run: %w", err)
	}
	return nil
}

// ListOpenFindings returns every open Finding for a pull request, used by
// the reconciler to diff against the new run's candidate findings.
func (db *DB) ListOpenFindings(ctx context.Context, pullRequestID int64) ([]core.Finding, error) {
	var findings []core.Finding
	err := db.SelectContext(ctx, &findings, db.rebind(`
		SELECT id, pull_request_id, first_seen_run_id, last_seen_run_id, status, fingerprint,
			hunk_hash, context_hash, comment_id, comment_key, path, line, side, severity,
			category, title, body, evidence, suggested_patch, rule_id
		FROM findings WHERE pull_request_id = ? AND status = ?`),
		pullRequestID, core.FindingOpen)
	if err != nil {
		return nil, fmt.Errorf("storage: list open findings: %w", err)
	}
	return findings, nil
}

// SaveFindings upserts a batch of findings keyed by id: zero-value ids are
// inserted, non-zero ids are updated in place. The reconciler is
// responsible for setting status transitions (fixed/obsolete) before
// calling this.
func (db *DB) SaveFindings(ctx context.Context, findings []core.Finding) error {
	if len(findings) == 0 {
		return nil
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin save findings: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := range findings {
		f := &findings[i]
		if f.ID == 0 {
			row := tx.QueryRowContext(ctx, db.rebind(`
				INSERT INTO findings
					(pull_request_id, first_seen_run_id, last_seen_run_id, status, fingerprint,
					 hunk_hash, context_hash, comment_id, comment_key, path, line, side, severity,
					 category, title, body, evidence, suggested_patch, rule_id)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				RETURNING id`),
				f.PullRequestID, f.FirstSeenRunID, f.LastSeenRunID, f.Status, f.Fingerprint,
				f.HunkHash, f.ContextHash, f.CommentID, f.CommentKey, f.Path, f.Line, f.Side,
				f.Severity, f.Category, f.Title, f.Body, f.Evidence, f.SuggestedPatch, f.RuleID)
			if err := row.Scan(&f.ID); err != nil {
				return fmt.Errorf("storage: insert finding: %w", err)
			}
			continue
		}
		_, err := tx.ExecContext(ctx, db.rebind(`
			UPDATE findings SET last_seen_run_id = ?, status = ?, fingerprint = ?, hunk_hash = ?,
				context_hash = ?, comment_id = ?, comment_key = ?, path = ?, line = ?, side = ?,
				severity = ?, title = ?, body = ?, evidence = ?, suggested_patch = ?, rule_id = ?
			WHERE id = ?`),
			f.LastSeenRunID, f.Status, f.Fingerprint, f.HunkHash,
			f.ContextHash, f.CommentID, f.CommentKey, f.Path, f.Line, f.Side,
			f.Severity, f.Title, f.Body, f.Evidence, f.SuggestedPatch, f.RuleID, f.ID)
		if err != nil {
			return fmt.Errorf("storage: update finding: %w", err)
		}
	}
	return tx.Commit()
}

// ListReviewComments returns every posted ReviewComment for a pull request.
func (db *DB) ListReviewComments(ctx context.Context, pullRequestID int64) ([]core.ReviewComment, error) {
	var comments []core.ReviewComment
	err := db.SelectContext(ctx, &comments, db.rebind(`
		SELECT id, pull_request_id, finding_id, kind, provider_comment_id, body, url
		FROM review_comments WHERE pull_request_id = ?`), pullRequestID)
	if err != nil {
		return nil, fmt.Errorf("storage: list review comments: %w", err)
	}
	return comments, nil
}

// SaveReviewComment inserts a posted ReviewComment row.
func (db *DB) SaveReviewComment(ctx context.Context, c *core.ReviewComment) error {
	id, err := db.insertReturningID(ctx, `
		INSERT INTO review_comments (pull_request_id, finding_id, kind, provider_comment_id, body, url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.PullRequestID, c.FindingID, c.Kind, c.ProviderCommentID, c.Body, c.URL)
	if err != nil {
		return fmt.Errorf("storage: save review comment: %w", err)
	}
	c.ID = id
	return nil
}

// GetRepoConfigWithWarnings returns the repo's parsed config and stored
// parse warnings. It backs orchestratorStore.GetRepoConfig; it has its own
// name here because *DB also exposes a single-return GetRepoConfig for
// scheduler.Store and Go methods can't be overloaded by return arity.
func (db *DB) GetRepoConfigWithWarnings(ctx context.Context, repoID int64) (*core.RepoConfig, []string, error) {
	var row repoConfigRow
	err := db.GetContext(ctx, &row, db.rebind(`SELECT raw_yaml, warnings FROM repo_configs WHERE repo_id = ?`), repoID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultRepoConfig(), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("storage: get repo config: %w", err)
	}
	cfg := core.DefaultRepoConfig()
	if row.RawYAML != "" {
		if err := yaml.Unmarshal([]byte(row.RawYAML), cfg); err != nil {
			return nil, nil, fmt.Errorf("storage: parse stored repo config: %w", err)
		}
	}
	var warnings []string
	if row.Warnings != "" {
		if err := json.Unmarshal([]byte(row.Warnings), &warnings); err != nil {
			return nil, nil, fmt.Errorf("storage: parse stored warnings: %w", err)
		}
	}
	return cfg, warnings, nil
}

// GetMemoryRules returns the repo's accumulated feedback-derived config
// overlay, or nil if the repo has none recorded yet.
func (db *DB) GetMemoryRules(ctx context.Context, repoID int64) (*core.RepoConfig, error) {
	var configJSON string
	err := db.GetContext(ctx, &configJSON, db.rebind(`SELECT config_json FROM memory_rules WHERE repo_id = ?`), repoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get memory rules: %w", err)
	}
	var cfg core.RepoConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return nil, fmt.Errorf("storage: parse memory rules: %w", err)
	}
	return &cfg, nil
}

// SaveMemoryRules upserts the repo's feedback-derived config overlay.
func (db *DB) SaveMemoryRules(ctx context.Context, repoID int64, cfg *core.RepoConfig) error {
	blob, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("storage: marshal memory rules: %w", err)
	}
	var exists bool
	err = db.GetContext(ctx, &exists, db.rebind(`SELECT true FROM memory_rules WHERE repo_id = ?`), repoID)
	switch {
	case err == nil:
		_, err = db.ExecContext(ctx, db.rebind(`
			UPDATE memory_rules SET config_json = ?, updated_at = CURRENT_TIMESTAMP WHERE repo_id = ?`),
			string(blob), repoID)
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.ExecContext(ctx, db.rebind(`INSERT INTO memory_rules (repo_id, config_json) VALUES (?, ?)`),
			repoID, string(blob))
	default:
		return fmt.Errorf("storage: lookup memory rules: %w", err)
	}
	if err != nil {
		return fmt.Errorf("storage: save memory rules: %w", err)
	}
	return nil
}

// GetInstallationDefaults returns an installation's default config overlay,
// or nil if none is recorded.
func (db *DB) GetInstallationDefaults(ctx context.Context, installationID int64) (*core.RepoConfig, error) {
	var configJSON string
	err := db.GetContext(ctx, &configJSON,
		db.rebind(`SELECT config_json FROM installation_defaults WHERE installation_id = ?`), installationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get installation defaults: %w", err)
	}
	var cfg core.RepoConfig
	if err := json.Unmarshal([]byte(configJSON), &cfg); err != nil {
		return nil, fmt.Errorf("storage: parse installation defaults: %w", err)
	}
	return &cfg, nil
}

// FeedbackCategoryCounts tallies prior accept/reject sentiment per finding
// category across every run of a pull request. A Feedback row counts as
// accepted when its Action is "accepted" or its Sentiment is "positive" or
// "thumbs_up" (an emoji reaction carries no category of its own, so
// reaction feedback is folded in via the finding its comment_id pointed
// at); anything else recorded against a finding counts as rejected. This
// mirrors the simple two-bucket accept/reject split the reviewer prompt's
// feedback hint and the quality gate's "often rejected" filter both expect
// (see orchestrator.FeedbackCounts) rather than modeling every individual
// reaction emoji as its own bucket.
func (db *DB) FeedbackCategoryCounts(ctx context.Context, pullRequestID int64) (map[core.Category]orchestrator.FeedbackCounts, error) {
	rows, err := db.QueryxContext(ctx, db.rebind(`
		SELECT f.category AS category, fb.action AS action, fb.sentiment AS sentiment
		FROM feedback fb
		JOIN findings f ON f.comment_id = fb.comment_id AND f.pull_request_id = ?
		JOIN review_runs r ON r.id = fb.review_run_id AND r.pull_request_id = ?`),
		pullRequestID, pullRequestID)
	if err != nil {
		return nil, fmt.Errorf("storage: feedback category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[core.Category]orchestrator.FeedbackCounts)
	for rows.Next() {
		var category, action, sentiment string
		if err := rows.Scan(&category, &action, &sentiment); err != nil {
			return nil, fmt.Errorf("storage: scan feedback category row: %w", err)
		}
		c := counts[core.Category(category)]
		if action == "accepted" || sentiment == "positive" || sentiment == "thumbs_up" {
			c.Accepted++
		} else {
			c.Rejected++
		}
		counts[core.Category(category)] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate feedback category rows: %w", err)
	}
	return counts, nil
}
