package worktree

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// initRepoWithCommits creates a non-bare repository at dir with two commits.
func initRepoWithCommits(t *testing.T, dir string) (repo *git.Repository, first, second string) {
	t.Helper()
	r, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	w, err := r.Worktree()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one"), 0o644))
	_, err = w.Add("a.txt")
	require.NoError(t, err)
	c1, err := w.Commit("first", &git.CommitOptions{Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("two"), 0o644))
	_, err = w.Add("b.txt")
	require.NoError(t, err)
	c2, err := w.Commit("second", &git.CommitOptions{Author: &object.Signature{Name: "t", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)

	return r, c1.String(), c2.String()
}

func TestResolveCheckoutRef_LiteralSHAResolvesDirectly(t *testing.T) {
	tmp := t.TempDir()
	_, first, second := initRepoWithCommits(t, tmp)

	h, err := resolveCheckoutRef(tmp, second)
	require.NoError(t, err)
	require.Equal(t, second, h.String())

	h, err = resolveCheckoutRef(tmp, first)
	require.NoError(t, err)
	require.Equal(t, first, h.String())
}

func TestResolveCheckoutRef_FallsBackToHEAD(t *testing.T) {
	tmp := t.TempDir()
	_, _, second := initRepoWithCommits(t, tmp)

	h, err := resolveCheckoutRef(tmp, "not-a-real-ref")
	require.NoError(t, err)
	require.Equal(t, second, h.String())
}
