package orchestrator

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// decideIncremental decides incremental vs. full diffing: compare against the previous
// completed run's head when one exists and the trigger allows it, otherwise
// against the PR's base ref.
func (o *Orchestrator) decideIncremental(ctx context.Context, j *run) error {
	if j.job.Force || j.job.Trigger == "manual" {
		j.baseForDiff = j.pr.BaseSHA
		j.incremental = false
		return nil
	}

	prior, err := o.store.GetLatestCompletedRun(ctx, j.pr.ID)
	if err != nil {
		return fmt.Errorf("orchestrator: load latest completed run: %w", err)
	}
	if prior != nil && prior.HeadSHA != j.job.HeadSHA {
		j.baseForDiff = prior.HeadSHA
		j.incremental = true
		return nil
	}
	j.baseForDiff = j.pr.BaseSHA
	j.incremental = false
	return nil
}

// fetchDiffAndFiles fetches the diff and changed-file list. It prefers a local `git diff`
// against the checked-out worktree (it sees the whole patch, unlike a forge diff
// endpoint that can truncate past a size limit), falling back to the
// forge's diff endpoint only when the local diff can't be produced.
func (o *Orchestrator) fetchDiffAndFiles(ctx context.Context, j *run) error {
	patch, localErr := localGitDiff(ctx, j.worktreePath, j.baseForDiff, j.job.HeadSHA)
	if localErr != nil {
		o.logger.Warn("local diff failed, falling back to forge diff endpoint", "error", localErr)
		forgePatch, forgeErr := j.client.FetchDiffPatch(ctx, j.owner(), j.repoName(), j.job.PRNumber)
		if forgeErr != nil {
			return fmt.Errorf("orchestrator: local diff (%v) and forge diff both failed: %w", localErr, forgeErr)
		}
		patch = forgePatch
	}
	j.diffPatch = patch

	files, err := j.client.ListChangedFiles(ctx, j.owner(), j.repoName(), j.job.PRNumber)
	if err != nil {
		return fmt.Errorf("orchestrator: list changed files: %w", err)
	}
	j.changedFiles = files

	j.touchedPaths = make(map[string]bool, len(files))
	for _, f := range files {
		j.touchedPaths[f.Path] = true
	}
	return nil
}

// localGitDiff shells out to the system git binary against a checked-out
// worktree, the same escape hatch internal/worktree uses for operations
// go-git doesn't cover; a three-dot diff isn't expressible through go-git's
// plumbing without hand-walking both commit trees.
func localGitDiff(ctx context.Context, worktreePath, base, head string) (string, error) {
	if worktreePath == "" {
		return "", fmt.Errorf("no worktree checkout available")
	}
	rangeSpec := fmt.Sprintf("%s...%s", base, head)
	cmd := exec.CommandContext(ctx, "git", "-C", worktreePath, "diff", "--no-color", "--no-ext-diff", rangeSpec)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git diff %s: %w: %s", rangeSpec, err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
