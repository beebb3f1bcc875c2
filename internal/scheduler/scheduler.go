// Package scheduler classifies verified inbound webhook events, applies
// debounce and trigger-predicate rules, and enqueues the review/comment-reply
// jobs those events warrant. It never talks HTTP or parses a provider
// payload directly; that anti-corruption layer lives in the receiver that
// constructs a core.WebhookEvent and hands it to Handle.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
)

// Scheduler admits a normalized webhook event into the entity graph and
// decides whether, and what, to enqueue.
type Scheduler struct {
	store    Store
	queue    core.Queue
	botLogin string
	patterns []string
	logger   *slog.Logger
}

// New constructs a Scheduler. patterns are the comment command strings
// DetectCommentTrigger matches against (e.g. "/review", "@grepiku review").
func New(store Store, queue core.Queue, botLogin string, patterns []string, logger *slog.Logger) *Scheduler {
	if store == nil || queue == nil || logger == nil {
		panic("scheduler.New received a nil dependency")
	}
	return &Scheduler{store: store, queue: queue, botLogin: botLogin, patterns: patterns, logger: logger}
}

// Handle dispatches a verified, normalized webhook event to the matching
// branch. It always admits the event's entities first so downstream reads
// (trigger config, latest run) see a consistent graph.
func (s *Scheduler) Handle(ctx context.Context, ev *core.WebhookEvent) error {
	ids, err := s.admit(ctx, ev)
	if err != nil {
		return fmt.Errorf("scheduler: admit: %w", err)
	}

	switch ev.Type {
	case core.EventPullRequest:
		return s.handlePullRequest(ctx, ev, ids)
	case core.EventComment:
		return s.handleComment(ctx, ev, ids)
	case core.EventReaction:
		return s.handleReaction(ctx, ev, ids)
	default:
		s.logger.Debug("ignoring unhandled webhook event type", "type", ev.Type)
		return nil
	}
}

// admittedIDs are the entity ids resolved while admitting an event, threaded
// into each branch instead of being re-derived.
type admittedIDs struct {
	providerID      int64
	installationID  int64
	repoID          int64
	pullRequestID   int64
}

func (s *Scheduler) admit(ctx context.Context, ev *core.WebhookEvent) (admittedIDs, error) {
	var ids admittedIDs

	providerID, err := s.store.UpsertProvider(ctx, &core.Provider{Kind: ev.Provider})
	if err != nil {
		return ids, fmt.Errorf("upsert provider: %w", err)
	}
	ids.providerID = providerID

	installationID, err := s.store.UpsertInstallation(ctx, &core.Installation{
		ProviderID: providerID,
		ExternalID: fmt.Sprintf("%d", ev.InstallationID),
	})
	if err != nil {
		return ids, fmt.Errorf("upsert installation: %w", err)
	}
	ids.installationID = installationID

	repoID, err := s.store.UpsertRepo(ctx, &core.Repo{
		ProviderID: providerID,
		ExternalID: ev.RepoFullName,
		Owner:      ev.RepoOwner,
		Name:       ev.RepoName,
		FullName:   ev.RepoFullName,
	})
	if err != nil {
		return ids, fmt.Errorf("upsert repo: %w", err)
	}
	ids.repoID = repoID

	if ev.PRNumber == 0 {
		return ids, nil
	}

	authorID, err := s.store.UpsertAuthor(ctx, ev.Author)
	if err != nil {
		return ids, fmt.Errorf("upsert author: %w", err)
	}

	prID, err := s.store.UpsertPullRequest(ctx, &core.PullRequest{
		RepoID:   repoID,
		Number:   ev.PRNumber,
		Title:    ev.PRTitle,
		Body:     ev.PRBody,
		State:    ev.PRState,
		BaseRef:  ev.BaseRef,
		HeadRef:  ev.HeadRef,
		BaseSHA:  ev.BaseSHA,
		HeadSHA:  ev.HeadSHA,
		Draft:    ev.Draft,
		AuthorID: authorID,
	})
	if err != nil {
		return ids, fmt.Errorf("upsert pull request: %w", err)
	}
	ids.pullRequestID = prID
	return ids, nil
}

func (s *Scheduler) handlePullRequest(ctx context.Context, ev *core.WebhookEvent, ids admittedIDs) error {
	if ev.PRState == "closed" {
		s.logger.Debug("ignoring closed pull request", "repo", ev.RepoFullName, "pr", ev.PRNumber)
		return nil
	}

	latest, err := s.store.GetLatestRun(ctx, ids.pullRequestID)
	if err != nil {
		return fmt.Errorf("get latest run: %w", err)
	}
	if latest != nil && latest.HeadSHA == ev.HeadSHA && latest.Status != core.ReviewRunFailed {
		s.logger.Debug("ignoring duplicate head sha with a non-failed run",
			"repo", ev.RepoFullName, "pr", ev.PRNumber, "head_sha", ev.HeadSHA)
		return nil
	}

	repoCfg, err := s.store.GetRepoConfig(ctx, ids.repoID)
	if err != nil {
		return fmt.Errorf("get repo config: %w", err)
	}
	var triggers *core.TriggerConfig
	if repoCfg != nil {
		triggers = repoCfg.Triggers
	}
	if !shouldTriggerReview(triggers, ev) {
		s.logger.Debug("pull request event suppressed by trigger predicates",
			"repo", ev.RepoFullName, "pr", ev.PRNumber, "action", ev.Action)
		return nil
	}

	if ev.Action == "synchronize" && core.SuppressedSynchronize(ev.HeadCommitMessage) {
		s.logger.Debug("suppressing synchronize from an auto-accepted suggestion",
			"repo", ev.RepoFullName, "pr", ev.PRNumber)
		return nil
	}

	payload := core.ReviewJobPayload{
		Provider:       ev.Provider,
		InstallationID: ev.InstallationID,
		RepoID:         ids.repoID,
		RepoFullName:   ev.RepoFullName,
		PullRequestID:  ids.pullRequestID,
		PRNumber:       ev.PRNumber,
		HeadSHA:        ev.HeadSHA,
		Trigger:        core.TriggerPullRequestEvent,
	}
	if err := s.queue.Enqueue(ctx, core.JobReview, payload); err != nil {
		return fmt.Errorf("enqueue review job: %w", err)
	}
	s.logger.Info("enqueued review job", "repo", ev.RepoFullName, "pr", ev.PRNumber, "head_sha", ev.HeadSHA)
	return nil
}

func (s *Scheduler) handleComment(ctx context.Context, ev *core.WebhookEvent, ids admittedIDs) error {
	if core.IsBotComment(ev.CommentAuthor, s.botLogin) {
		return nil
	}
	if strings.Contains(ev.CommentBody, "<!-- grepiku-mention:") {
		return nil
	}

	trigger := core.DetectCommentTrigger(ev.CommentBody, s.patterns)

	canonicalID, err := s.store.ResolveCanonicalCommentID(ctx, ids.pullRequestID, ev.CommentID, ev.InReplyToID)
	if err != nil {
		return fmt.Errorf("resolve canonical comment id: %w", err)
	}

	if err := s.recordReplyFeedback(ctx, ids.pullRequestID, canonicalID, ev.CommentBody); err != nil {
		return fmt.Errorf("record reply feedback: %w", err)
	}

	isThreadReply := ev.InReplyToID != ""
	if trigger == core.TriggerNone && !isThreadReply {
		return nil
	}

	replyPayload := core.CommentReplyPayload{
		Provider:       ev.Provider,
		InstallationID: ev.InstallationID,
		RepoFullName:   ev.RepoFullName,
		PRNumber:       ev.PRNumber,
		CommentID:      ev.CommentID,
		Trigger:        trigger,
	}
	if err := s.queue.Enqueue(ctx, core.JobCommentReply, replyPayload); err != nil {
		return fmt.Errorf("enqueue comment reply job: %w", err)
	}

	if trigger == core.TriggerReview {
		forced := core.ReviewJobPayload{
			Provider:       ev.Provider,
			InstallationID: ev.InstallationID,
			RepoID:         ids.repoID,
			RepoFullName:   ev.RepoFullName,
			PullRequestID:  ids.pullRequestID,
			PRNumber:       ev.PRNumber,
			HeadSHA:        ev.HeadSHA,
			Trigger:        core.TriggerCommentCommand,
			Force:          true,
		}
		if err := s.queue.Enqueue(ctx, core.JobReview, forced); err != nil {
			return fmt.Errorf("enqueue forced review job: %w", err)
		}
	}
	return nil
}

func (s *Scheduler) recordReplyFeedback(ctx context.Context, pullRequestID int64, canonicalID, body string) error {
	latest, err := s.store.GetLatestRun(ctx, pullRequestID)
	if err != nil {
		return err
	}
	if latest == nil {
		return nil
	}
	action := ""
	if core.FeedbackResolved(body) {
		action = "resolved"
	}
	return s.store.SaveFeedback(ctx, &core.Feedback{
		ReviewRunID: latest.ID,
		Type:        core.FeedbackReply,
		Action:      action,
		CommentID:   canonicalID,
	})
}

func (s *Scheduler) handleReaction(ctx context.Context, ev *core.WebhookEvent, ids admittedIDs) error {
	latest, err := s.store.GetLatestRun(ctx, ids.pullRequestID)
	if err != nil {
		return fmt.Errorf("get latest run: %w", err)
	}
	if latest == nil {
		return nil
	}
	canonicalID, err := s.store.ResolveCanonicalCommentID(ctx, ids.pullRequestID, ev.CommentID, "")
	if err != nil {
		return fmt.Errorf("resolve canonical comment id: %w", err)
	}
	return s.store.SaveFeedback(ctx, &core.Feedback{
		ReviewRunID: latest.ID,
		Type:        core.FeedbackReaction,
		Sentiment:   ev.ReactionContent,
		CommentID:   canonicalID,
	})
}
