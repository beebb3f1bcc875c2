package forge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/go-github/v73/github"
	"github.com/sony/gobreaker"

	"github.com/sevigo/grepiku/internal/core"
)

// GitHubClient implements ProviderClient against the GitHub REST API via
// go-github. One breaker is shared across every call: a GitHub outage
// affects pulls, issues, and checks together.
type GitHubClient struct {
	client  *github.Client
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker
}

// NewGitHubClient wraps an already-authenticated go-github client. Use
// NewGitHubInstallationClient or NewGitHubPATClient to obtain one with
// credentials attached.
func NewGitHubClient(client *github.Client, logger *slog.Logger) *GitHubClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitHubClient{client: client, logger: logger, breaker: newAPIBreaker("github-api")}
}

var _ ProviderClient = (*GitHubClient)(nil)

func (g *GitHubClient) FetchPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequestInfo, error) {
	return callBreaker(g.breaker, func() (*PullRequestInfo, error) {
		pr, _, err := g.client.PullRequests.Get(ctx, owner, repo, number)
		if err != nil {
			g.logger.Error("fetch pull request failed", "owner", owner, "repo", repo, "pr", number, "error", err)
			return nil, fmt.Errorf("forge: fetch pull request: %w", err)
		}
		return pullRequestInfoFrom(pr), nil
	})
}

func (g *GitHubClient) FetchCommit(ctx context.Context, owner, repo, sha string) (*CommitInfo, error) {
	return callBreaker(g.breaker, func() (*CommitInfo, error) {
		commit, _, err := g.client.Repositories.GetCommit(ctx, owner, repo, sha, nil)
		if err != nil {
			g.logger.Error("fetch commit failed", "owner", owner, "repo", repo, "sha", sha, "error", err)
			return nil, fmt.Errorf("forge: fetch commit %s: %w", sha, err)
		}
		info := &CommitInfo{SHA: commit.GetSHA()}
		if c := commit.GetCommit(); c != nil {
			info.Message = c.GetMessage()
			if a := c.GetAuthor(); a != nil {
				info.Author = a.GetName()
			}
		}
		return info, nil
	})
}

func (g *GitHubClient) FetchDiffPatch(ctx context.Context, owner, repo string, number int) (string, error) {
	return callBreaker(g.breaker, func() (string, error) {
		diff, _, err := g.client.PullRequests.GetRaw(ctx, owner, repo, number, github.RawOptions{Type: github.Diff})
		if err != nil {
			g.logger.Error("fetch diff patch failed", "owner", owner, "repo", repo, "pr", number, "error", err)
			return "", fmt.Errorf("forge: fetch diff patch: %w", err)
		}
		return diff, nil
	})
}

// ListChangedFiles pages through PullRequests.ListFiles, which caps at 100
// entries per page.
func (g *GitHubClient) ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	return callBreaker(g.breaker, func() ([]ChangedFile, error) {
		var out []ChangedFile
		opts := &github.ListOptions{PerPage: 100}
		for {
			files, resp, err := g.client.PullRequests.ListFiles(ctx, owner, repo, number, opts)
			if err != nil {
				g.logger.Error("list changed files failed", "owner", owner, "repo", repo, "pr", number, "error", err)
				return nil, fmt.Errorf("forge: list changed files: %w", err)
			}
			for _, f := range files {
				out = append(out, ChangedFile{
					Path:      f.GetFilename(),
					Status:    f.GetStatus(),
					Additions: f.GetAdditions(),
					Deletions: f.GetDeletions(),
					Patch:     f.GetPatch(),
				})
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return out, nil
	})
}

func (g *GitHubClient) UpdatePullRequestBody(ctx context.Context, owner, repo string, number int, body string) error {
	_, err := callBreaker(g.breaker, func() (struct{}, error) {
		_, _, err := g.client.PullRequests.Edit(ctx, owner, repo, number, &github.PullRequest{Body: &body})
		if err != nil {
			g.logger.Error("update pull request body failed", "owner", owner, "repo", repo, "pr", number, "error", err)
			return struct{}{}, fmt.Errorf("forge: update pull request body: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func (g *GitHubClient) CreateSummaryComment(ctx context.Context, owner, repo string, number int, body string) (int64, error) {
	return callBreaker(g.breaker, func() (int64, error) {
		c, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{Body: &body})
		if err != nil {
			g.logger.Error("create summary comment failed", "owner", owner, "repo", repo, "pr", number, "error", err)
			return 0, fmt.Errorf("forge: create summary comment: %w", err)
		}
		return c.GetID(), nil
	})
}

func (g *GitHubClient) UpdateSummaryComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	_, err := callBreaker(g.breaker, func() (struct{}, error) {
		_, _, err := g.client.Issues.EditComment(ctx, owner, repo, commentID, &github.IssueComment{Body: &body})
		if err != nil {
			g.logger.Error("update summary comment failed", "owner", owner, "repo", repo, "comment", commentID, "error", err)
			return struct{}{}, fmt.Errorf("forge: update summary comment: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// CreateInlineComment posts a single review comment via the Pull Request
// Review Comments API rather than batching through CreateReview, so the
// reconciler can create, update, and resolve comments one finding at a
// time as matches/misses are decided.
func (g *GitHubClient) CreateInlineComment(ctx context.Context, owner, repo string, number int, headSHA string, c NewInlineComment) (int64, error) {
	return callBreaker(g.breaker, func() (int64, error) {
		side := "RIGHT"
		if c.Side == core.SideLeft {
			side = "LEFT"
		}
		comment := &github.PullRequestComment{
			Body:     &c.Body,
			Path:     &c.Path,
			Line:     &c.Line,
			Side:     &side,
			CommitID: &headSHA,
		}
		posted, _, err := g.client.PullRequests.CreateComment(ctx, owner, repo, number, comment)
		if err != nil {
			g.logger.Error("create inline comment failed", "owner", owner, "repo", repo, "pr", number, "path", c.Path, "line", c.Line, "error", err)
			return 0, fmt.Errorf("forge: create inline comment: %w", err)
		}
		return posted.GetID(), nil
	})
}

func (g *GitHubClient) ListInlineComments(ctx context.Context, owner, repo string, number int) ([]InlineComment, error) {
	return callBreaker(g.breaker, func() ([]InlineComment, error) {
		var out []InlineComment
		opts := &github.PullRequestListCommentsOptions{ListOptions: github.ListOptions{PerPage: 100}}
		for {
			comments, resp, err := g.client.PullRequests.ListComments(ctx, owner, repo, number, opts)
			if err != nil {
				g.logger.Error("list inline comments failed", "owner", owner, "repo", repo, "pr", number, "error", err)
				return nil, fmt.Errorf("forge: list inline comments: %w", err)
			}
			for _, c := range comments {
				side := core.SideRight
				if c.GetSide() == "LEFT" {
					side = core.SideLeft
				}
				out = append(out, InlineComment{
					ID:          c.GetID(),
					Path:        c.GetPath(),
					Line:        c.GetLine(),
					Side:        side,
					Body:        c.GetBody(),
					InReplyTo:   c.GetInReplyTo(),
					AuthorLogin: c.GetUser().GetLogin(),
				})
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return out, nil
	})
}

func (g *GitHubClient) UpdateInlineComment(ctx context.Context, owner, repo string, commentID int64, body string) error {
	_, err := callBreaker(g.breaker, func() (struct{}, error) {
		_, _, err := g.client.PullRequests.EditComment(ctx, owner, repo, commentID, &github.PullRequestComment{Body: &body})
		if err != nil {
			g.logger.Error("update inline comment failed", "owner", owner, "repo", repo, "comment", commentID, "error", err)
			return struct{}{}, fmt.Errorf("forge: update inline comment: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// ResolveInlineThread is not exposed by go-github's REST surface (thread
// resolution is a GraphQL-only mutation on GitHub); adapters built on the
// REST client alone report it unsupported so the orchestrator can skip the
// step without failing the run.
func (g *GitHubClient) ResolveInlineThread(ctx context.Context, owner, repo string, commentID int64) error {
	return ErrNotSupported
}

func (g *GitHubClient) CreateStatusCheck(ctx context.Context, owner, repo string, state StatusCheckState) (StatusCheckRef, error) {
	return callBreaker(g.breaker, func() (StatusCheckRef, error) {
		opts := github.CreateCheckRunOptions{
			Name:    state.Name,
			HeadSHA: state.HeadSHA,
			Status:  github.Ptr(state.Status),
			Output:  &github.CheckRunOutput{Title: &state.Title, Summary: &state.Summary},
		}
		run, _, err := g.client.Checks.CreateCheckRun(ctx, owner, repo, opts)
		if err != nil {
			g.logger.Error("create status check failed", "owner", owner, "repo", repo, "error", err)
			return StatusCheckRef{}, fmt.Errorf("forge: create status check: %w", err)
		}
		return StatusCheckRef{ID: run.GetID()}, nil
	})
}

func (g *GitHubClient) UpdateStatusCheck(ctx context.Context, owner, repo string, ref StatusCheckRef, state StatusCheckState) error {
	_, err := callBreaker(g.breaker, func() (struct{}, error) {
		opts := github.UpdateCheckRunOptions{
			Name:   state.Name,
			Status: github.Ptr(state.Status),
			Output: &github.CheckRunOutput{Title: &state.Title, Summary: &state.Summary},
		}
		if state.Conclusion != "" {
			opts.Conclusion = &state.Conclusion
			opts.CompletedAt = &github.Timestamp{Time: time.Now()}
		}
		_, _, err := g.client.Checks.UpdateCheckRun(ctx, owner, repo, ref.ID, opts)
		if err != nil {
			g.logger.Error("update status check failed", "owner", owner, "repo", repo, "check_run", ref.ID, "error", err)
			return struct{}{}, fmt.Errorf("forge: update status check: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func (g *GitHubClient) AddReaction(ctx context.Context, owner, repo string, commentID int64, reaction string) error {
	_, err := callBreaker(g.breaker, func() (struct{}, error) {
		_, _, err := g.client.Reactions.CreateIssueCommentReaction(ctx, owner, repo, commentID, reaction)
		if err != nil {
			g.logger.Warn("add reaction failed (best-effort)", "owner", owner, "repo", repo, "comment", commentID, "error", err)
			return struct{}{}, fmt.Errorf("forge: add reaction: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func (g *GitHubClient) ReplyToComment(ctx context.Context, owner, repo string, number int, inReplyTo int64, body string) (int64, error) {
	return callBreaker(g.breaker, func() (int64, error) {
		c, _, err := g.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{Body: &body})
		if err != nil {
			g.logger.Error("reply to comment failed", "owner", owner, "repo", repo, "pr", number, "error", err)
			return 0, fmt.Errorf("forge: reply to comment: %w", err)
		}
		return c.GetID(), nil
	})
}

func (g *GitHubClient) CreatePullRequest(ctx context.Context, owner, repo, title, body, head, base string) (*PullRequestInfo, error) {
	return callBreaker(g.breaker, func() (*PullRequestInfo, error) {
		pr, _, err := g.client.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
			Title: &title,
			Body:  &body,
			Head:  &head,
			Base:  &base,
		})
		if err != nil {
			g.logger.Error("create pull request failed", "owner", owner, "repo", repo, "head", head, "base", base, "error", err)
			return nil, fmt.Errorf("forge: create pull request: %w", err)
		}
		return pullRequestInfoFrom(pr), nil
	})
}

func (g *GitHubClient) FindOpenPullRequestByHead(ctx context.Context, owner, repo, headRef string) (*PullRequestInfo, error) {
	return callBreaker(g.breaker, func() (*PullRequestInfo, error) {
		prs, _, err := g.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
			State: "open",
			Head:  owner + ":" + headRef,
		})
		if err != nil {
			g.logger.Error("find open pull request by head failed", "owner", owner, "repo", repo, "head", headRef, "error", err)
			return nil, fmt.Errorf("forge: find open pull request by head: %w", err)
		}
		if len(prs) == 0 {
			return nil, nil
		}
		return pullRequestInfoFrom(prs[0]), nil
	})
}

func pullRequestInfoFrom(pr *github.PullRequest) *PullRequestInfo {
	info := &PullRequestInfo{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		State:   pr.GetState(),
		Draft:   pr.GetDraft(),
		BaseRef: pr.GetBase().GetRef(),
		HeadRef: pr.GetHead().GetRef(),
		BaseSHA: pr.GetBase().GetSHA(),
		HeadSHA: pr.GetHead().GetSHA(),
	}
	if u := pr.GetUser(); u != nil {
		info.AuthorID = u.GetLogin()
	}
	if pr.CreatedAt != nil {
		info.CreatedAt = pr.GetCreatedAt().Time
	}
	if pr.UpdatedAt != nil {
		info.UpdatedAt = pr.GetUpdatedAt().Time
	}
	return info
}
