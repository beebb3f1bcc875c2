// Package forge adapts the review orchestrator to a source-forge
// vendor's HTTP API. Today's only implementation targets GitHub; the
// ProviderClient interface is deliberately vendor-neutral so a GitLab or
// Gitea adapter can be added without touching the orchestrator.
package forge

import (
	"time"

	"github.com/sevigo/grepiku/internal/core"
)

// PullRequestInfo is the normalized shape of a forge pull request, decoupled
// from go-github's pointer-heavy wire type.
type PullRequestInfo struct {
	Number    int
	Title     string
	Body      string
	State     string
	Draft     bool
	BaseRef   string
	HeadRef   string
	BaseSHA   string
	HeadSHA   string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommitInfo is the normalized shape of a single commit.
type CommitInfo struct {
	SHA     string
	Message string
	Author  string
}

// ChangedFile is one entry of a pull request's file list.
type ChangedFile struct {
	Path      string
	Status    string
	Additions int
	Deletions int
	Patch     string
}

// InlineComment is a posted or listed review comment anchored to a diff
// line.
type InlineComment struct {
	ID       int64
	Path     string
	Line     int
	Side     core.DiffSide
	Body     string
	InReplyTo int64
	AuthorLogin string
}

// NewInlineComment is the orchestrator's request to post one inline comment.
type NewInlineComment struct {
	Path string
	Line int
	Side core.DiffSide
	Body string
}

// StatusCheckState mirrors the GitHub Checks API's status/conclusion pair
// without requiring callers to import go-github.
type StatusCheckState struct {
	Name       string
	HeadSHA    string
	Status     string // "queued", "in_progress", "completed"
	Conclusion string // "success", "failure", "neutral", "cancelled", "timed_out"; empty until completed
	Title      string
	Summary    string
}

// StatusCheckRef identifies a previously created check run for update calls.
type StatusCheckRef struct {
	ID int64
}
