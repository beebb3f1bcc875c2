package worktree

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// resolveCheckoutRef resolves the checkout ref: a literal-SHA ref resolves
// directly, otherwise fall back to origin/HEAD then HEAD.
func resolveCheckoutRef(bareDir, headSHA string) (plumbing.Hash, error) {
	repo, err := git.PlainOpen(bareDir)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("open bare repo: %w", err)
	}

	candidates := []string{headSHA, "origin/HEAD", "HEAD"}
	var lastErr error
	for _, rev := range candidates {
		h, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err == nil && h != nil {
			return *h, nil
		}
		lastErr = err
	}
	return plumbing.ZeroHash, fmt.Errorf("no candidate ref resolved (tried %v): %w", candidates, lastErr)
}
