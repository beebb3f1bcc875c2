package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "grepiku-cli",
	Short: "grepiku-cli drives reviews and indexing outside the webhook server",
	Long: `grepiku-cli runs the same review pipeline the webhook server runs,
against a repository or pull request named on the command line, authenticated
with a personal access token instead of a GitHub App installation.`,
}

func Execute() error {
	return rootCmd.Execute()
}
