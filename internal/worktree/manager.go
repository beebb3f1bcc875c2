// Package worktree implements the repository checkout contract: a
// persistent bare clone per (owner, repo) plus detached, per-review
// worktrees carved out of it, with per-key serialization so concurrent
// reviews of the same repository never race on the same clone.
package worktree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Manager owns every bare clone and worktree under its base directory. One
// Manager is shared process-wide; callers never construct their own clone
// paths.
type Manager struct {
	baseDir string
	hostURL string // e.g. "https://github.com"; lets GitHub Enterprise hosts override the default
	logger  *slog.Logger

	keyLocks sync.Map // "owner/repo" -> *sync.Mutex
}

// New constructs a Manager rooted at baseDir (the var directory of the
// persisted-state layout). hostURL defaults to https://github.com when empty.
func New(baseDir, hostURL string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if hostURL == "" {
		hostURL = "https://github.com"
	}
	return &Manager{baseDir: baseDir, hostURL: hostURL, logger: logger}
}

func (m *Manager) cloneURLFor(owner, repo string) string {
	return fmt.Sprintf("%s/%s/%s.git", m.hostURL, owner, repo)
}

func (m *Manager) bareRepoPath(owner, repo string) string {
	return filepath.Join(m.baseDir, "repos", owner, repo)
}

func (m *Manager) worktreesDir(owner, repo string) string {
	return filepath.Join(m.baseDir, "repos", owner, repo+"-worktrees")
}

func (m *Manager) lockFor(owner, repo string) *sync.Mutex {
	key := owner + "/" + repo
	val, _ := m.keyLocks.LoadOrStore(key, &sync.Mutex{})
	return val.(*sync.Mutex)
}

// EnsureRepoCheckout implements ensure_git_repo_checkout(owner, repo,
// head_sha, token) -> worktree_path: serialize per (owner, repo),
// maintain the bare clone, fetch, resolve the ref, prune stale worktrees,
// and create a fresh detached worktree at head_sha.
func (m *Manager) EnsureRepoCheckout(ctx context.Context, owner, repo, headSHA, token string) (string, error) {
	lock := m.lockFor(owner, repo)
	lock.Lock()
	defer lock.Unlock()

	cloneURL := m.cloneURLFor(owner, repo)
	bareDir := m.bareRepoPath(owner, repo)
	if err := m.ensureBareClone(ctx, bareDir, cloneURL, token); err != nil {
		return "", fmt.Errorf("worktree: ensure bare clone for %s/%s: %w", owner, repo, err)
	}
	if err := rewriteOriginURL(bareDir, cloneURL, token); err != nil {
		return "", fmt.Errorf("worktree: rewrite origin for %s/%s: %w", owner, repo, err)
	}
	if err := fetchAll(ctx, bareDir, token); err != nil {
		return "", fmt.Errorf("worktree: fetch %s/%s: %w", owner, repo, err)
	}

	resolved, err := resolveCheckoutRef(bareDir, headSHA)
	if err != nil {
		return "", fmt.Errorf("worktree: resolve ref %q in %s/%s: %w", headSHA, owner, repo, err)
	}

	worktreesDir := m.worktreesDir(owner, repo)
	if err := os.MkdirAll(worktreesDir, 0o755); err != nil {
		return "", fmt.Errorf("worktree: create worktrees dir: %w", err)
	}
	pruneStaleWorktrees(m.logger, bareDir, worktreesDir, resolved)

	path, err := addDetachedWorktree(ctx, m.logger, bareDir, worktreesDir, resolved)
	if err != nil {
		return "", fmt.Errorf("worktree: add detached worktree for %s/%s@%s: %w", owner, repo, headSHA, err)
	}
	return path, nil
}
