package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/util"
)

var reviewVerbose bool

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgWhite)
	dimColor     = color.New(color.FgHiBlack)
	boldColor    = color.New(color.Bold)
)

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Run a full review of one pull request",
	Long: `Review fetches the pull request, runs it through the same pipeline
the webhook server runs for a push event, and posts the result to GitHub.

Example:
  grepiku-cli review https://github.com/owner/repo/pull/123`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().BoolVarP(&reviewVerbose, "verbose", "v", false, "print step timing and findings")
	rootCmd.AddCommand(reviewCmd)
}

type stepTimer struct {
	stepNum    int
	totalSteps int
	start      time.Time
	verbose    bool
}

func newStepTimer(totalSteps int, verbose bool) *stepTimer {
	return &stepTimer{totalSteps: totalSteps, verbose: verbose}
}

func (t *stepTimer) step(name string) {
	t.stepNum++
	t.start = time.Now()
	if t.verbose {
		titleColor.Printf("\nStep %d/%d: %s...\n", t.stepNum, t.totalSteps, name)
	} else {
		fmt.Printf("%s...\n", name)
	}
}

func (t *stepTimer) done(details ...string) {
	if !t.verbose {
		return
	}
	elapsed := time.Since(t.start).Round(time.Millisecond)
	successColor.Printf("   done (%s)\n", elapsed)
	for _, d := range details {
		dimColor.Printf("   - %s\n", d)
	}
}

func (t *stepTimer) info(format string, args ...any) {
	if t.verbose {
		dimColor.Printf("   - "+format+"\n", args...)
	}
}

func runReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	prURL := args[0]

	timer := newStepTimer(4, reviewVerbose)
	titleColor.Println("grepiku review")
	dimColor.Printf("  target: %s\n\n", prURL)

	timer.step("Initializing")
	a, err := newCLIApp(ctx)
	if err != nil {
		return fmt.Errorf("initialize cli: %w", err)
	}
	defer a.db.Close()
	timer.done()

	timer.step("Fetching pull request")
	owner, name, number, err := util.ParsePullRequestURL(prURL)
	if err != nil {
		return fmt.Errorf("invalid pull request URL: %w", err)
	}

	client, _, err := a.clients.NewClient(ctx, "github", 0)
	if err != nil {
		return fmt.Errorf("create github client: %w", err)
	}
	pr, err := client.FetchPullRequest(ctx, owner, name, number)
	if err != nil {
		return fmt.Errorf("fetch pull request: %w", err)
	}
	timer.info("PR #%d: %s", pr.Number, pr.Title)
	timer.info("head sha: %s", truncateSHA(pr.HeadSHA))
	timer.done()

	timer.step("Admitting repository and pull request")
	repoID, err := a.admitRepo(ctx, owner, name)
	if err != nil {
		return err
	}
	dbPR := &core.PullRequest{
		RepoID:     repoID,
		Number:     number,
		ExternalID: fmt.Sprintf("%d", number),
		Title:      pr.Title,
		Body:       pr.Body,
		State:      pr.State,
		BaseRef:    pr.BaseRef,
		HeadRef:    pr.HeadRef,
		BaseSHA:    pr.BaseSHA,
		HeadSHA:    pr.HeadSHA,
		Draft:      pr.Draft,
		AuthorID:   0,
	}
	if _, err := a.db.UpsertPullRequest(ctx, dbPR); err != nil {
		return fmt.Errorf("upsert pull request: %w", err)
	}
	timer.done()

	timer.step("Running review pipeline")
	job := core.ReviewJobPayload{
		Provider:      "github",
		RepoID:        repoID,
		RepoFullName:  owner + "/" + name,
		PullRequestID: dbPR.ID,
		PRNumber:      number,
		HeadSHA:       pr.HeadSHA,
		Trigger:       core.TriggerManual,
		Force:         true,
	}
	if err := a.orch.Run(ctx, job); err != nil {
		return fmt.Errorf("run review: %w", err)
	}
	timer.done()

	findings, err := a.db.ListOpenFindings(ctx, dbPR.ID)
	if err != nil {
		return fmt.Errorf("list findings: %w", err)
	}
	printFindings(findings)
	return nil
}

func truncateSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func printFindings(findings []core.Finding) {
	separator := strings.Repeat("=", 60)

	fmt.Println()
	titleColor.Println(separator)
	titleColor.Printf("REVIEW FINDINGS (%d)\n", len(findings))
	titleColor.Println(separator)

	if len(findings) == 0 {
		fmt.Println()
		successColor.Println("no open findings")
		return
	}

	for i, f := range findings {
		fmt.Println()
		printSeverityBadge(string(f.Severity))
		boldColor.Printf(" %s", f.Path)
		dimColor.Printf(":%d\n", f.Line)
		dimColor.Printf("   category: %s\n", f.Category)
		fmt.Println()
		infoColor.Printf("%s\n", f.Title)
		if f.Body != "" {
			infoColor.Printf("%s\n", f.Body)
		}
		if i < len(findings)-1 {
			fmt.Println()
			dimColor.Println(strings.Repeat("-", 40))
		}
	}
	fmt.Println()
}

func printSeverityBadge(severity string) {
	switch severity {
	case "critical":
		color.New(color.BgRed, color.FgWhite, color.Bold).Printf(" %s ", severity)
	case "high":
		color.New(color.BgHiRed, color.FgWhite).Printf(" %s ", severity)
	case "medium":
		color.New(color.BgYellow, color.FgBlack).Printf(" %s ", severity)
	case "low":
		color.New(color.BgGreen, color.FgWhite).Printf(" %s ", severity)
	default:
		color.New(color.BgWhite, color.FgBlack).Printf(" %s ", severity)
	}
}
