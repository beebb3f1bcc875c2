// Package handler provides HTTP handlers for the grepiku review service.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v73/github"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/forge"
	"github.com/sevigo/grepiku/internal/scheduler"
)

// WebhookHandler verifies and parses inbound GitHub webhook deliveries into
// core.WebhookEvent and hands them to the scheduler. It is the anti-corruption
// layer scheduler.Scheduler's own doc comment says must live in the receiver:
// the scheduler never sees a *github.Event, only the normalized shape built
// here.
type WebhookHandler struct {
	webhookSecret string
	clients       *forge.Factory
	scheduler     *scheduler.Scheduler
	logger        *slog.Logger
}

// NewWebhookHandler constructs a WebhookHandler. clients is used only to
// fetch the head commit message for `synchronize` actions, so
// SuppressedSynchronize can see the real commit subject.
func NewWebhookHandler(webhookSecret string, clients *forge.Factory, sched *scheduler.Scheduler, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookSecret: webhookSecret,
		clients:       clients,
		scheduler:     sched,
		logger:        logger,
	}
}

// Handle processes one GitHub webhook delivery.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, []byte(h.webhookSecret))
	if err != nil {
		h.logger.Error("invalid webhook payload signature", "error", err)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		h.logger.Error("could not parse webhook", "error", err)
		http.Error(w, "Could not parse webhook", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var ev *core.WebhookEvent
	switch e := event.(type) {
	case *github.PullRequestEvent:
		ev = h.fromPullRequestEvent(ctx, e)
	case *github.IssueCommentEvent:
		ev = fromIssueCommentEvent(e)
	case *github.PullRequestReviewCommentEvent:
		ev = fromReviewCommentEvent(e)
	default:
		h.logger.Debug("ignoring unhandled webhook event type", "type", github.WebHookType(r))
		_, _ = fmt.Fprint(w, "event type not handled")
		return
	}
	if ev == nil {
		_, _ = fmt.Fprint(w, "event ignored")
		return
	}

	if err := h.scheduler.Handle(ctx, ev); err != nil {
		h.logger.Error("failed to handle webhook event", "error", err, "repo", ev.RepoFullName)
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_, _ = fmt.Fprint(w, "event accepted")
}

func (h *WebhookHandler) fromPullRequestEvent(ctx context.Context, e *github.PullRequestEvent) *core.WebhookEvent {
	repo := e.GetRepo()
	pr := e.GetPullRequest()
	if repo == nil || pr == nil {
		h.logger.Debug("ignoring pull request event missing repo or pull request")
		return nil
	}

	labels := make([]string, 0, len(pr.Labels))
	for _, l := range pr.Labels {
		labels = append(labels, l.GetName())
	}

	ev := &core.WebhookEvent{
		Provider:       "github",
		Type:           core.EventPullRequest,
		Action:         e.GetAction(),
		InstallationID: e.GetInstallation().GetID(),

		RepoOwner:    repo.GetOwner().GetLogin(),
		RepoName:     repo.GetName(),
		RepoFullName: repo.GetFullName(),
		RepoCloneURL: repo.GetCloneURL(),
		Language:     repo.GetLanguage(),

		PRNumber: pr.GetNumber(),
		PRTitle:  pr.GetTitle(),
		PRBody:   pr.GetBody(),
		PRState:  pr.GetState(),
		HeadRef:  pr.GetHead().GetRef(),
		BaseRef:  pr.GetBase().GetRef(),
		HeadSHA:  pr.GetHead().GetSHA(),
		BaseSHA:  pr.GetBase().GetSHA(),
		Draft:    pr.GetDraft(),
		Author:   pr.GetUser().GetLogin(),
		Labels:   labels,
	}

	// SuppressedSynchronize needs the head commit's message, which this
	// webhook payload never carries; fetch it best-effort so an
	// auto-accepted-suggestion push doesn't trigger a redundant re-review.
	if ev.Action == "synchronize" && h.clients != nil {
		client, _, err := h.clients.NewClient(ctx, ev.Provider, ev.InstallationID)
		if err != nil {
			h.logger.Warn("could not mint client to check head commit message", "error", err, "repo", ev.RepoFullName)
			return ev
		}
		commit, err := client.FetchCommit(ctx, ev.RepoOwner, ev.RepoName, ev.HeadSHA)
		if err != nil {
			h.logger.Warn("could not fetch head commit", "error", err, "repo", ev.RepoFullName, "sha", ev.HeadSHA)
			return ev
		}
		ev.HeadCommitMessage = commit.Message
	}
	return ev
}

func fromIssueCommentEvent(e *github.IssueCommentEvent) *core.WebhookEvent {
	if !e.GetIssue().IsPullRequest() {
		return nil
	}
	repo := e.GetRepo()
	comment := e.GetComment()
	if repo == nil || comment == nil {
		return nil
	}

	return &core.WebhookEvent{
		Provider:       "github",
		Type:           core.EventComment,
		Action:         e.GetAction(),
		InstallationID: e.GetInstallation().GetID(),

		RepoOwner:    repo.GetOwner().GetLogin(),
		RepoName:     repo.GetName(),
		RepoFullName: repo.GetFullName(),
		RepoCloneURL: repo.GetCloneURL(),
		Language:     repo.GetLanguage(),

		PRNumber: e.GetIssue().GetNumber(),
		PRTitle:  e.GetIssue().GetTitle(),
		PRBody:   e.GetIssue().GetBody(),

		CommentID:     fmt.Sprintf("%d", comment.GetID()),
		CommentBody:   comment.GetBody(),
		CommentAuthor: comment.GetUser().GetLogin(),
	}
}

func fromReviewCommentEvent(e *github.PullRequestReviewCommentEvent) *core.WebhookEvent {
	repo := e.GetRepo()
	pr := e.GetPullRequest()
	comment := e.GetComment()
	if repo == nil || pr == nil || comment == nil {
		return nil
	}

	inReplyTo := ""
	if comment.InReplyTo != nil {
		inReplyTo = fmt.Sprintf("%d", comment.GetInReplyTo())
	}

	return &core.WebhookEvent{
		Provider:       "github",
		Type:           core.EventComment,
		Action:         e.GetAction(),
		InstallationID: e.GetInstallation().GetID(),

		RepoOwner:    repo.GetOwner().GetLogin(),
		RepoName:     repo.GetName(),
		RepoFullName: repo.GetFullName(),
		RepoCloneURL: repo.GetCloneURL(),
		Language:     repo.GetLanguage(),

		PRNumber: pr.GetNumber(),
		PRTitle:  pr.GetTitle(),
		PRBody:   pr.GetBody(),
		HeadSHA:  pr.GetHead().GetSHA(),

		CommentID:     fmt.Sprintf("%d", comment.GetID()),
		CommentBody:   comment.GetBody(),
		CommentAuthor: comment.GetUser().GetLogin(),
		InReplyToID:   inReplyTo,
	}
}
