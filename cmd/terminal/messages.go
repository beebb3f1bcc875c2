package main

import "github.com/sevigo/grepiku/internal/core"

// appInitializedMsg reports that storage is open and ready to query.
type appInitializedMsg struct {
	app *terminalApp
	err error
}

type reposLoadedMsg struct {
	repos []core.Repo
	err   error
}

type pullRequestsLoadedMsg struct {
	prs []core.PullRequest
	err error
}

type runsLoadedMsg struct {
	runs []core.ReviewRun
	err  error
}

// runRenderedMsg carries a glamour-rendered markdown summary for one run,
// plus the open findings still outstanding on its pull request.
type runRenderedMsg struct {
	run      core.ReviewRun
	rendered string
	findings []core.Finding
	err      error
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }
