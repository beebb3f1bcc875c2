package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/sevigo/grepiku/internal/config"
	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/logger"
	"github.com/sevigo/grepiku/internal/storage"
)

// terminalApp is the offline, read-only counterpart to internal/app.App and
// cmd/cli's cliApp: this TUI only ever replays rows storage already holds,
// so it needs nothing beyond an open database handle.
type terminalApp struct {
	db     *storage.DB
	logger *slog.Logger
}

func initializeAppCmd(env *config.Env) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		log := logger.NewLogger(env.Logging, nil)

		db, err := storage.Open(ctx, env.Database.Driver, env.Database.DSN(), log)
		if err != nil {
			return appInitializedMsg{err: fmt.Errorf("open database: %w", err)}
		}
		return appInitializedMsg{app: &terminalApp{db: db, logger: log}}
	}
}

func loadReposCmd(app *terminalApp) tea.Cmd {
	return func() tea.Msg {
		repos, err := app.db.ListRepos(context.Background())
		return reposLoadedMsg{repos: repos, err: err}
	}
}

func loadPullRequestsCmd(app *terminalApp, repoID int64) tea.Cmd {
	return func() tea.Msg {
		prs, err := app.db.ListPullRequestsByRepo(context.Background(), repoID)
		return pullRequestsLoadedMsg{prs: prs, err: err}
	}
}

func loadRunsCmd(app *terminalApp, pullRequestID int64) tea.Cmd {
	return func() tea.Msg {
		runs, err := app.db.ListReviewRuns(context.Background(), pullRequestID)
		return runsLoadedMsg{runs: runs, err: err}
	}
}

func renderRunCmd(app *terminalApp, run core.ReviewRun, width int) tea.Cmd {
	return func() tea.Msg {
		findings, err := app.db.ListOpenFindings(context.Background(), run.PullRequestID)
		if err != nil {
			return runRenderedMsg{err: fmt.Errorf("list findings: %w", err)}
		}

		md, err := runSummaryMarkdown(run)
		if err != nil {
			return runRenderedMsg{err: err}
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return runRenderedMsg{err: fmt.Errorf("build markdown renderer: %w", err)}
		}
		rendered, err := renderer.Render(md)
		if err != nil {
			return runRenderedMsg{err: fmt.Errorf("render markdown: %w", err)}
		}
		return runRenderedMsg{run: run, rendered: rendered, findings: findings}
	}
}

// runSummaryMarkdown turns a run's stored FinalJSON back into the markdown
// document the review pipeline would have posted to the pull request.
func runSummaryMarkdown(run core.ReviewRun) (string, error) {
	if len(run.FinalJSON) == 0 {
		return fmt.Sprintf("# Run #%d\n\nno final review recorded (status: %s)\n", run.ID, run.Status), nil
	}

	var final core.FinalReview
	if err := json.Unmarshal(run.FinalJSON, &final); err != nil {
		return "", fmt.Errorf("unmarshal final review: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Run #%d — %s\n\n", run.ID, run.HeadSHA)
	fmt.Fprintf(&b, "%s\n\n", final.Summary)
	if final.Verdict != "" {
		fmt.Fprintf(&b, "**Verdict:** %s  **Risk:** %s\n\n", final.Verdict, final.Risk)
	}
	if len(final.KeyConcerns) > 0 {
		b.WriteString("## Key concerns\n\n")
		for _, c := range final.KeyConcerns {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	if len(final.Comments) > 0 {
		fmt.Fprintf(&b, "## Comments (%d)\n\n", len(final.Comments))
		for _, c := range final.Comments {
			fmt.Fprintf(&b, "- `%s:%d` **%s** — %s\n", c.Path, c.Line, c.Severity, c.Title)
		}
	}
	return b.String(), nil
}
