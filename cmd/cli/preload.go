package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var preloadRepoURL string

var preloadCmd = &cobra.Command{
	Use:   "preload",
	Short: "Clone and index a repository ahead of its first review",
	Long: `Preload clones a repository's default branch and runs the same
indexing scan does, so the first pull request review against it doesn't pay
the full-clone-and-index cost inline.`,
	RunE: runPreload,
}

func init() {
	preloadCmd.Flags().StringVarP(&preloadRepoURL, "repo-url", "u", "", "repository URL, e.g. https://github.com/owner/repo")
	_ = preloadCmd.MarkFlagRequired("repo-url")
	rootCmd.AddCommand(preloadCmd)
}

func runPreload(cmd *cobra.Command, _ []string) error {
	owner, name, err := parseRepoURL(preloadRepoURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	a, err := newCLIApp(ctx)
	if err != nil {
		return fmt.Errorf("initialize cli: %w", err)
	}
	defer a.db.Close()

	repoID, err := a.admitRepo(ctx, owner, name)
	if err != nil {
		return err
	}

	a.logger.Info("cloning default branch", "repo", owner+"/"+name)
	repoPath, err := a.worktrees.EnsureRepoCheckout(ctx, owner, name, "", a.env.GitHub.Token)
	if err != nil {
		return fmt.Errorf("checkout repository: %w", err)
	}

	a.logger.Info("indexing repository", "repo", owner+"/"+name, "path", repoPath)
	if err := a.indexer.Index(ctx, repoID, repoPath, nil, true); err != nil {
		return fmt.Errorf("index repository: %w", err)
	}
	if err := a.graph.Build(ctx, repoID, ""); err != nil {
		return fmt.Errorf("build symbol graph: %w", err)
	}

	a.logger.Info("preload complete", "repo", owner+"/"+name)
	return nil
}

// parseRepoURL extracts owner and name from a GitHub repository URL such as
// https://github.com/owner/repo or https://github.com/owner/repo.git.
func parseRepoURL(raw string) (owner, name string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid repository URL: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("could not parse owner/repo from URL path: %s", u.Path)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
