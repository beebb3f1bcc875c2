package worktree

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
)

// ensureBareClone clones cloneURL into bareDir as a bare repository if it
// isn't already one on disk.
func (m *Manager) ensureBareClone(ctx context.Context, bareDir, cloneURL, token string) error {
	if _, err := os.Stat(filepath.Join(bareDir, "HEAD")); err == nil {
		return nil
	}

	authURL, err := authenticatedURL(cloneURL, token)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(bareDir), 0o755); err != nil {
		return fmt.Errorf("create repo parent dir: %w", err)
	}
	m.logger.InfoContext(ctx, "cloning bare repository", "url", cloneURL, "path", bareDir)
	_, err = git.PlainCloneContext(ctx, bareDir, true, &git.CloneOptions{URL: authURL})
	if err != nil {
		return fmt.Errorf("bare clone %s: %w", cloneURL, err)
	}
	return nil
}

// rewriteOriginURL re-points the bare repo's origin remote at an
// x-access-token URL, overwriting whatever credentials were baked in at
// clone time or a prior call (installation tokens expire hourly).
func rewriteOriginURL(bareDir, cloneURL, token string) error {
	repo, err := git.PlainOpen(bareDir)
	if err != nil {
		return fmt.Errorf("open bare repo: %w", err)
	}
	authURL, err := authenticatedURL(cloneURL, token)
	if err != nil {
		return err
	}
	cfg, err := repo.Config()
	if err != nil {
		return fmt.Errorf("read repo config: %w", err)
	}
	cfg.Remotes["origin"] = &config.RemoteConfig{Name: "origin", URLs: []string{authURL}}
	if err := repo.SetConfig(cfg); err != nil {
		return fmt.Errorf("rewrite origin remote: %w", err)
	}
	return nil
}

// fetchAll runs the equivalent of `git fetch --all --prune` against origin.
func fetchAll(ctx context.Context, bareDir, token string) error {
	repo, err := git.PlainOpen(bareDir)
	if err != nil {
		return fmt.Errorf("open bare repo: %w", err)
	}
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		Auth:       basicAuth(token),
		Prune:      true,
		Force:      true,
		RefSpecs: []config.RefSpec{
			"+refs/heads/*:refs/heads/*",
			"+refs/tags/*:refs/tags/*",
		},
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetch origin: %w", err)
	}
	return nil
}

func authenticatedURL(repoURL, token string) (string, error) {
	if !strings.HasPrefix(repoURL, "https://") && !strings.HasPrefix(repoURL, "http://") {
		return "", fmt.Errorf("invalid repository URL: %s", repoURL)
	}
	if token == "" {
		return "", errors.New("worktree: token cannot be empty")
	}
	parsed, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("parse repository URL %q: %w", repoURL, err)
	}
	parsed.User = url.UserPassword("x-access-token", token)
	return parsed.String(), nil
}

func basicAuth(token string) *githttp.BasicAuth {
	if token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: token}
}
