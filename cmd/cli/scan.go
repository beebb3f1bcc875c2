package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	scanRepoFullName string
	scanForce        bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Index a local git repository without fetching a pull request",
	Long: `Scan builds (or refreshes) the code index and symbol graph for a
local checkout, the same artifacts the webhook server keeps up to date as
pull requests land. Use it to warm the index before the first review of a
repository, or to re-index after a manual fetch.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanRepoFullName, "repo", "", "owner/name to file this checkout under (required)")
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "re-index every file instead of only what changed")
	_ = scanCmd.MarkFlagRequired("repo")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	repoPath := args[0]
	owner, name, ok := splitFullName(scanRepoFullName)
	if !ok {
		return fmt.Errorf("--repo must be owner/name, got %q", scanRepoFullName)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
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

	a.logger.Info("indexing repository", "repo", scanRepoFullName, "path", repoPath, "force", scanForce)
	if err := a.indexer.Index(ctx, repoID, repoPath, nil, scanForce); err != nil {
		return fmt.Errorf("index repository: %w", err)
	}
	if err := a.graph.Build(ctx, repoID, ""); err != nil {
		return fmt.Errorf("build symbol graph: %w", err)
	}

	a.logger.Info("scan complete", "repo", scanRepoFullName)
	return nil
}

func splitFullName(fullName string) (owner, name string, ok bool) {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return fullName[:i], fullName[i+1:], true
		}
	}
	return "", "", false
}
