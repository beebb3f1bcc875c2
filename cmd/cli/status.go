package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List every repository grepiku has admitted",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newCLIApp(ctx)
	if err != nil {
		return fmt.Errorf("initialize cli: %w", err)
	}
	defer a.db.Close()

	repos, err := a.db.ListRepos(ctx)
	if err != nil {
		return fmt.Errorf("list repositories: %w", err)
	}

	if statusJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(repos)
	}

	if len(repos) == 0 {
		fmt.Println("no repositories admitted yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "REPOSITORY\tDEFAULT BRANCH\tPROVIDER ID")
	for _, repo := range repos {
		fmt.Fprintf(w, "%s\t%s\t%d\n", repo.FullName, repo.DefaultBranch, repo.ProviderID)
	}
	return w.Flush()
}
