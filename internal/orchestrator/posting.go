package orchestrator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/forge"
)

// openStatusPlaceholder creates an in-progress
// status check, and if the resolved config emits to comments, upsert a
// "Review in progress" summary comment so reviewers see activity
// immediately rather than waiting for the whole pipeline to finish.
func (o *Orchestrator) openStatusPlaceholder(ctx context.Context, j *run) (forge.StatusCheckRef, error) {
	ref, err := j.client.CreateStatusCheck(ctx, j.owner(), j.repoName(), forge.StatusCheckState{
		Name:    j.resolved.StatusChecks.Name,
		HeadSHA: j.job.HeadSHA,
		Status:  "in_progress",
		Title:   "Review in progress",
		Summary: "grepiku is analyzing this pull request.",
	})
	if err != nil {
		return forge.StatusCheckRef{}, fmt.Errorf("orchestrator: create status check: %w", err)
	}

	if j.resolved.Output.Destination == "comment" || j.resolved.Output.Destination == "both" {
		if _, err := j.client.CreateSummaryComment(ctx, j.owner(), j.repoName(), j.job.PRNumber, "🔍 Review in progress…"); err != nil {
			o.logger.Warn("failed to post placeholder summary comment", "error", err)
		}
	}
	return ref, nil
}

// postSideEffects posts every side effect of a completed run. Every sub-step is best-effort
// logged rather than run-fatal except the summary comment itself, which is
// the one artifact a reviewer is guaranteed to see.
func (o *Orchestrator) postSideEffects(ctx context.Context, j *run, in summaryInput) error {
	rendered := renderSummaryComment(in)

	if !j.incremental && (j.resolved.Output.Destination == "pr_body" || j.resolved.Output.Destination == "both") {
		newBody := upsertPRBodyBlock(j.pr.Body, rendered)
		if newBody != j.pr.Body {
			if err := j.client.UpdatePullRequestBody(ctx, j.owner(), j.repoName(), j.job.PRNumber, newBody); err != nil {
				o.logger.Warn("failed to upsert PR body summary", "error", err)
			} else {
				j.pr.Body = newBody
			}
		}
	}

	if err := o.postInlineComments(ctx, j, in.newFindings); err != nil {
		o.logger.Warn("failed to post some inline comments", "error", err)
	}

	if err := o.reconcileInlineComments(ctx, j); err != nil {
		o.logger.Warn("failed to reconcile inline comments", "error", err)
	}

	o.resolveFixedThreads(ctx, j)

	if j.resolved.Output.Destination == "comment" || j.resolved.Output.Destination == "both" {
		existing, err := o.findExistingSummaryComment(ctx, j)
		if err != nil {
			o.logger.Warn("failed to look up existing summary comment", "error", err)
		}
		if existing != nil {
			if err := j.client.UpdateSummaryComment(ctx, j.owner(), j.repoName(), mustInt64(existing.ProviderCommentID), rendered); err != nil {
				return fmt.Errorf("orchestrator: update summary comment: %w", err)
			}
			existing.Body = rendered
			return o.store.SaveReviewComment(ctx, existing)
		}
		id, err := j.client.CreateSummaryComment(ctx, j.owner(), j.repoName(), j.job.PRNumber, rendered)
		if err != nil {
			return fmt.Errorf("orchestrator: create summary comment: %w", err)
		}
		return o.store.SaveReviewComment(ctx, &core.ReviewComment{
			PullRequestID:     j.pr.ID,
			Kind:              core.CommentSummary,
			ProviderCommentID: strconv.FormatInt(id, 10),
			Body:              rendered,
		})
	}
	return nil
}

func (o *Orchestrator) postInlineComments(ctx context.Context, j *run, newFindings []core.Finding) error {
	for i := range newFindings {
		f := &newFindings[i]
		id, err := j.client.CreateInlineComment(ctx, j.owner(), j.repoName(), j.job.PRNumber, j.job.HeadSHA, forge.NewInlineComment{
			Path: f.Path,
			Line: f.Line,
			Side: f.Side,
			Body: renderInlineCommentBody(*f),
		})
		if err != nil {
			o.logger.Warn("failed to post inline comment", "path", f.Path, "line", f.Line, "error", err)
			continue
		}
		f.CommentID = strconv.FormatInt(id, 10)
		if err := o.store.SaveReviewComment(ctx, &core.ReviewComment{
			PullRequestID:     j.pr.ID,
			FindingID:         &f.ID,
			Kind:              core.CommentInline,
			ProviderCommentID: f.CommentID,
			Body:              renderInlineCommentBody(*f),
		}); err != nil {
			o.logger.Warn("failed to persist posted comment id", "error", err)
		}
	}
	return nil
}

// reconcileInlineComments re-renders every already-posted finding and
// updates its provider comment, identified by the finding's stored
// CommentID, unless some posted comment body already equals the fresh
// rendering (which ends with our `<!-- grepiku:<id> -->` marker).
func (o *Orchestrator) reconcileInlineComments(ctx context.Context, j *run) error {
	posted, err := j.client.ListInlineComments(ctx, j.owner(), j.repoName(), j.job.PRNumber)
	if err != nil {
		return fmt.Errorf("list inline comments: %w", err)
	}
	byMarker := make(map[string]forge.InlineComment, len(posted))
	for _, c := range posted {
		byMarker[c.Body] = c
	}

	for _, f := range j.findings {
		if f.CommentID == "" {
			continue
		}
		rendered := renderInlineCommentBody(f)
		existing, ok := byMarker[rendered]
		if ok {
			continue // unchanged
		}
		commentID, err := strconv.ParseInt(f.CommentID, 10, 64)
		if err != nil {
			continue
		}
		_ = existing
		if err := j.client.UpdateInlineComment(ctx, j.owner(), j.repoName(), commentID, rendered); err != nil {
			o.logger.Warn("failed to update drifted inline comment", "comment_id", f.CommentID, "error", err)
		}
	}
	return nil
}

// resolveFixedThreads calls ResolveInlineThread for every finding that
// transitioned to fixed this run and has a known posted comment. The
// operation is optional on adapters that can't support it.
func (o *Orchestrator) resolveFixedThreads(ctx context.Context, j *run) {
	for _, f := range j.findings {
		if f.Status != core.FindingFixed || f.CommentID == "" {
			continue
		}
		commentID, err := strconv.ParseInt(f.CommentID, 10, 64)
		if err != nil {
			continue
		}
		if err := j.client.ResolveInlineThread(ctx, j.owner(), j.repoName(), commentID); err != nil {
			if err != forge.ErrNotSupported {
				o.logger.Warn("failed to resolve inline thread", "comment_id", f.CommentID, "error", err)
			}
		}
	}
}

func (o *Orchestrator) findExistingSummaryComment(ctx context.Context, j *run) (*core.ReviewComment, error) {
	comments, err := o.store.ListReviewComments(ctx, j.pr.ID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].Kind == core.CommentSummary {
			return &comments[i], nil
		}
	}
	return nil, nil
}

func mustInt64(s string) int64 {
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
