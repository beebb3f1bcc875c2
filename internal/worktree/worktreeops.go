package worktree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
)

// go-git has no equivalent of `git worktree add` (it models a single
// working tree per Repository), so detached worktree creation and removal
// shell out to the git binary directly, the same escape hatch
// internal/orchestrator's localGitDiff uses for `git diff`.
const (
	worktreeMaxAttempts = 6
	worktreeStaleAfter  = 6 * time.Hour
	worktreeKeepRecent  = 2
)

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// addDetachedWorktree creates a detached worktree for hash under
// worktreesDir, retrying on "already exists" races.
func addDetachedWorktree(ctx context.Context, logger *slog.Logger, bareDir, worktreesDir string, hash plumbing.Hash) (string, error) {
	sha := hash.String()
	pid := os.Getpid()
	epoch := time.Now().Unix()

	var lastErr error
	for attempt := 1; attempt <= worktreeMaxAttempts; attempt++ {
		path := filepath.Join(worktreesDir, fmt.Sprintf("%s-%d-%d-%d", sha, epoch, pid, attempt))
		out, err := runGit(ctx, bareDir, "worktree", "add", "--detach", path, sha)
		if err == nil {
			return path, nil
		}
		lastErr = fmt.Errorf("git worktree add: %w: %s", err, strings.TrimSpace(out))
		if !strings.Contains(out, "already exists") {
			return "", lastErr
		}
		logger.Warn("worktree path race, retrying", "path", path, "attempt", attempt)
	}
	return "", fmt.Errorf("worktree: exhausted %d attempts: %w", worktreeMaxAttempts, lastErr)
}

// pruneStaleWorktrees removes worktrees for the same hash older than 6h,
// always keeping the two most recently modified.
func pruneStaleWorktrees(logger *slog.Logger, bareDir, worktreesDir string, hash plumbing.Hash) {
	entries, err := os.ReadDir(worktreesDir)
	if err != nil {
		return
	}
	prefix := hash.String() + "-"
	type candidate struct {
		path    string
		modTime time.Time
	}
	var matches []candidate
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), prefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		matches = append(matches, candidate{path: filepath.Join(worktreesDir, e.Name()), modTime: info.ModTime()})
	}
	if len(matches) <= worktreeKeepRecent {
		return
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].modTime.After(matches[j].modTime) })

	cutoff := time.Now().Add(-worktreeStaleAfter)
	pruned := false
	for _, c := range matches[worktreeKeepRecent:] {
		if c.modTime.After(cutoff) {
			continue
		}
		ctx := context.Background()
		if out, err := runGit(ctx, bareDir, "worktree", "remove", "--force", c.path); err != nil {
			logger.Warn("failed to remove stale worktree", "path", c.path, "error", err, "output", strings.TrimSpace(out))
			continue
		}
		pruned = true
	}
	if pruned {
		if out, err := runGit(context.Background(), bareDir, "worktree", "prune"); err != nil {
			logger.Warn("git worktree prune failed", "error", err, "output", strings.TrimSpace(out))
		}
	}
}
