package worktree

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/require"
)

func newBareClone(t *testing.T) (bareDir string, headSHA string) {
	t.Helper()
	tmp := t.TempDir()
	origin := filepath.Join(tmp, "origin")
	_, _, second := initRepoWithCommits(t, origin)

	bareDir = filepath.Join(tmp, "bare")
	_, err := git.PlainClone(bareDir, true, &git.CloneOptions{URL: origin})
	require.NoError(t, err)
	return bareDir, second
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAddDetachedWorktree_RetriesOnCollision(t *testing.T) {
	bareDir, sha := newBareClone(t)
	worktreesDir := filepath.Join(filepath.Dir(bareDir), "worktrees")
	require.NoError(t, os.MkdirAll(worktreesDir, 0o755))

	hash := plumbing.NewHash(sha)
	logger := discardLogger()

	first, err := addDetachedWorktree(context.Background(), logger, bareDir, worktreesDir, hash)
	require.NoError(t, err)
	require.DirExists(t, first)

	// A second call within the same second collides on the same
	// sha-epoch-pid-1 path and must retry onto -2 instead of failing.
	second, err := addDetachedWorktree(context.Background(), logger, bareDir, worktreesDir, hash)
	require.NoError(t, err)
	require.DirExists(t, second)
	require.NotEqual(t, first, second)
}

func TestPruneStaleWorktrees_KeepsTwoMostRecent(t *testing.T) {
	bareDir, sha := newBareClone(t)
	worktreesDir := filepath.Join(filepath.Dir(bareDir), "worktrees")
	require.NoError(t, os.MkdirAll(worktreesDir, 0o755))
	hash := plumbing.NewHash(sha)
	logger := discardLogger()

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := addDetachedWorktree(context.Background(), logger, bareDir, worktreesDir, hash)
		require.NoError(t, err)
		paths = append(paths, p)
	}

	// paths[0] is the stale one; paths[1] and paths[2] stay recent.
	old := time.Now().Add(-8 * time.Hour)
	require.NoError(t, os.Chtimes(paths[0], old, old))

	pruneStaleWorktrees(logger, bareDir, worktreesDir, hash)

	require.NoDirExists(t, paths[0])
	require.DirExists(t, paths[1])
	require.DirExists(t, paths[2])
}
