// Package orchestrator implements the review pipeline: the
// seventeen-step sequence that turns one (repo, pull_request, head_sha) job
// into a posted review.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/sevigo/grepiku/internal/contextpack"
	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/diffidx"
	"github.com/sevigo/grepiku/internal/forge"
	"github.com/sevigo/grepiku/internal/metrics"
	"github.com/sevigo/grepiku/internal/promptlib"
	"github.com/sevigo/grepiku/internal/reconcile"
	"github.com/sevigo/grepiku/internal/stagerunner"
)

// Orchestrator drives the review pipeline end to end.
type Orchestrator struct {
	store       Store
	clients     ClientFactory
	worktrees   WorktreeManager
	contextPack *contextpack.Builder
	reconciler  *reconcile.Reconciler
	stages      stagerunner.StageRunner
	prompts     *promptlib.Manager
	queue       core.Queue
	bundleRoot  string
	baseline    *core.ResolvedConfig
	logger      *slog.Logger
}

// New constructs an Orchestrator. Every dependency is required; a review
// pipeline missing one of them is a wiring bug, not a degraded mode. baseline
// is the deployment-level ResolvedConfig every run's config cascade starts
// from (see config.RetrievalGraphDefaults.ResolvedConfigBaseline); a nil
// baseline falls back to core.DefaultResolvedConfig().
func New(
	store Store,
	clients ClientFactory,
	worktrees WorktreeManager,
	contextPack *contextpack.Builder,
	reconciler *reconcile.Reconciler,
	stages stagerunner.StageRunner,
	prompts *promptlib.Manager,
	queue core.Queue,
	bundleRoot string,
	baseline *core.ResolvedConfig,
	logger *slog.Logger,
) *Orchestrator {
	if store == nil || clients == nil || worktrees == nil || contextPack == nil ||
		reconciler == nil || stages == nil || prompts == nil || queue == nil ||
		bundleRoot == "" || logger == nil {
		panic("orchestrator.New received a nil or empty dependency")
	}
	if baseline == nil {
		baseline = core.DefaultResolvedConfig()
	}
	return &Orchestrator{
		store:       store,
		clients:     clients,
		worktrees:   worktrees,
		contextPack: contextPack,
		reconciler:  reconciler,
		stages:      stages,
		prompts:     prompts,
		queue:       queue,
		bundleRoot:  bundleRoot,
		baseline:    baseline,
		logger:      logger,
	}
}

// baselineConfig returns a fresh top-level copy of the orchestrator's
// baseline ResolvedConfig so concurrent runs never share mutable state;
// Merge only ever replaces whole slice fields, never appends into one, so a
// shallow copy is enough to isolate one run's cascade from another's.
func (o *Orchestrator) baselineConfig() *core.ResolvedConfig {
	cp := *o.baseline
	return &cp
}

// runStage wraps stagerunner.StageRunner.RunStage with latency and error
// instrumentation, keyed by stage name.
func (o *Orchestrator) runStage(ctx context.Context, stage stagerunner.Stage, bundleDir, outDir, prompt string) (stagerunner.Result, error) {
	timer := metrics.NewTimer()
	res, err := o.stages.RunStage(ctx, stage, bundleDir, outDir, prompt)
	timer.RecordStage(string(stage), err)
	return res, err
}

// Run executes the full review pipeline for one job. Any error marks the
// review run failed and, if a status check was already opened, closes it
// with a failure conclusion via a deferred handler.
func (o *Orchestrator) Run(ctx context.Context, job core.ReviewJobPayload) (err error) {
	j := &run{job: job}
	var statusRef *forge.StatusCheckRef
	timer := metrics.NewTimer()

	defer func() {
		if err == nil {
			timer.RecordReviewRun("success")
			return
		}
		timer.RecordReviewRun("failure")
		o.logger.Error("review run failed", "repo", job.RepoFullName, "pr", job.PRNumber, "trace_id", j.traceID, "error", err)
		if j.reviewRunID != 0 {
			failedRun := &core.ReviewRun{
				ID:            j.reviewRunID,
				PullRequestID: job.PullRequestID,
				HeadSHA:       job.HeadSHA,
				Status:        core.ReviewRunFailed,
			}
			now := time.Now()
			failedRun.CompletedAt = &now
			if uerr := o.store.UpdateReviewRun(ctx, failedRun); uerr != nil {
				o.logger.Error("failed to persist failed run status", "error", uerr)
			}
		}
		if j.client != nil && statusRef != nil {
			cerr := j.client.UpdateStatusCheck(ctx, j.owner(), j.repoName(), *statusRef, forge.StatusCheckState{
				Status:     "completed",
				Conclusion: "failure",
				Title:      "Review failed",
				Summary:    err.Error(),
			})
			if cerr != nil {
				o.logger.Error("failed to close status check after failure", "error", cerr)
			}
		}
	}()

	// Step 1: setup.
	if err = o.setup(ctx, j); err != nil {
		return fmt.Errorf("orchestrator: setup: %w", err)
	}

	// Step 2: open the review run.
	reviewRunID, err := o.store.CreateReviewRun(ctx, &core.ReviewRun{
		PullRequestID: j.pr.ID,
		HeadSHA:       job.HeadSHA,
		Status:        core.ReviewRunRunning,
		Trigger:       string(job.Trigger),
		StartedAt:     time.Now(),
	})
	if err != nil {
		return fmt.Errorf("orchestrator: create review run: %w", err)
	}
	j.reviewRunID = reviewRunID
	j.traceID = uuid.NewString()
	runDir := strconv.FormatInt(reviewRunID, 10) + "-" + j.traceID
	j.bundleDir = filepath.Join(o.bundleRoot, "runs", runDir, "bundle")
	j.outDir = filepath.Join(o.bundleRoot, "runs", runDir, "out")

	// Step 3: checkout.
	j.worktreePath, err = o.worktrees.EnsureRepoCheckout(ctx, j.owner(), j.repoName(), job.HeadSHA, j.token)
	if err != nil {
		return fmt.Errorf("orchestrator: checkout worktree: %w", err)
	}

	// Step 4: config resolution.
	j.resolved, j.warnings, err = o.resolveConfig(ctx, *j)
	if err != nil {
		return fmt.Errorf("orchestrator: resolve config: %w", err)
	}

	// Step 5: status check placeholder.
	ref, err := o.openStatusPlaceholder(ctx, j)
	if err != nil {
		return fmt.Errorf("orchestrator: open status placeholder: %w", err)
	}
	statusRef = &ref

	// Step 6a: incremental decision.
	if err = o.decideIncremental(ctx, j); err != nil {
		return fmt.Errorf("orchestrator: decide incremental: %w", err)
	}

	// Step 7: diff + changed files.
	if err = o.fetchDiffAndFiles(ctx, j); err != nil {
		return fmt.Errorf("orchestrator: fetch diff: %w", err)
	}

	// Step 8: context pack.
	pack, err := o.buildContextPack(ctx, j)
	if err != nil {
		return fmt.Errorf("orchestrator: build context pack: %w", err)
	}
	if err = writeBundleInputs(j.bundleDir, j, pack); err != nil {
		return fmt.Errorf("orchestrator: write bundle inputs: %w", err)
	}

	// Step 9: stage 1 reviewer, with stage 4 verifier launched alongside it.
	var verifierGroup errgroup.Group
	verifierGroup.Go(func() error {
		j.checks = o.runVerifierStage(ctx, j)
		return nil
	})
	if err = o.runReviewerStage(ctx, j, pack); err != nil {
		return fmt.Errorf("orchestrator: reviewer stage: %w", err)
	}

	// Step 10: stage 2 editor, verdicts applied onto the draft set.
	if err = o.runEditorStage(ctx, j); err != nil {
		return fmt.Errorf("orchestrator: editor stage: %w", err)
	}

	// Step 11: stage 3 coverage, optional.
	if err = o.runCoverageStage(ctx, j, pack); err != nil {
		return fmt.Errorf("orchestrator: coverage stage: %w", err)
	}

	// Step 12: quality refinement.
	changedPaths := make([]string, 0, len(j.changedFiles))
	for _, f := range j.changedFiles {
		changedPaths = append(changedPaths, f.Path)
	}
	j.final.Comments = refineFindings(j.final.Comments, j.resolved.Strictness, j.feedback, len(j.changedFiles), j.resolved.Limits.MaxInlineComments, j.resolved.Output.SummaryOnly)

	// Step 13: summary enrichment.
	enrichSummary(&j.final, pack, changedPaths)

	// Step 14: reconcile.
	if err = o.reconcileRun(ctx, j); err != nil {
		return fmt.Errorf("orchestrator: reconcile: %w", err)
	}

	// Step 15: post side-effects.
	in := o.buildSummaryInput(j)
	if err = o.postSideEffects(ctx, j, in); err != nil {
		return fmt.Errorf("orchestrator: post side effects: %w", err)
	}

	// Step 16: join stage 4 verifier.
	_ = verifierGroup.Wait()

	// Step 17: finalize.
	if err = o.finalize(ctx, j, *statusRef); err != nil {
		return fmt.Errorf("orchestrator: finalize: %w", err)
	}

	return nil
}

// setup loads the repo and pull request rows, mints a forge client for the
// job's installation, and refreshes the pull request from the forge before
// doing anything else with it.
func (o *Orchestrator) setup(ctx context.Context, j *run) error {
	repo, err := o.store.GetRepo(ctx, j.job.RepoID)
	if err != nil {
		return fmt.Errorf("load repo: %w", err)
	}
	j.repo = repo

	pr, err := o.store.GetPullRequest(ctx, j.job.PullRequestID)
	if err != nil {
		return fmt.Errorf("load pull request: %w", err)
	}
	j.pr = pr

	client, token, err := o.clients.NewClient(ctx, j.job.Provider, j.job.InstallationID)
	if err != nil {
		return fmt.Errorf("mint forge client: %w", err)
	}
	j.client = client
	j.token = token

	info, err := client.FetchPullRequest(ctx, j.owner(), j.repoName(), j.job.PRNumber)
	if err != nil {
		return fmt.Errorf("refresh pull request: %w", err)
	}
	j.pr.Title = info.Title
	j.pr.Body = info.Body
	j.pr.State = info.State
	j.pr.Draft = info.Draft
	j.pr.BaseRef = info.BaseRef
	j.pr.HeadRef = info.HeadRef
	j.pr.BaseSHA = info.BaseSHA
	j.pr.HeadSHA = info.HeadSHA

	if err := o.store.UpsertPullRequest(ctx, j.pr); err != nil {
		return fmt.Errorf("upsert pull request: %w", err)
	}
	return nil
}

func (o *Orchestrator) buildContextPack(ctx context.Context, j *run) (*contextpack.Pack, error) {
	changed := make([]contextpack.ChangedFile, 0, len(j.changedFiles))
	for _, f := range j.changedFiles {
		changed = append(changed, contextpack.ChangedFile{Path: f.Path, Additions: f.Additions, Deletions: f.Deletions})
	}
	return o.contextPack.Build(ctx, j.repo.ID, contextpack.Input{
		RepoID:       j.repo.ID,
		Patch:        j.diffPatch,
		ChangedFiles: changed,
		PRTitle:      j.pr.Title,
		PRBody:       j.pr.Body,
		Retrieval:    j.resolved.Retrieval,
		Graph:        j.resolved.Graph,
	})
}

func (o *Orchestrator) reconcileRun(ctx context.Context, j *run) error {
	priorOpen, err := o.store.ListOpenFindings(ctx, j.pr.ID)
	if err != nil {
		return fmt.Errorf("load prior open findings: %w", err)
	}
	j.priorOpen = priorOpen

	diffIndex, err := diffidx.Parse(j.diffPatch)
	if err != nil {
		return fmt.Errorf("parse diff index: %w", err)
	}

	result := o.reconciler.Reconcile(reconcile.Params{
		RunID:         j.reviewRunID,
		PullRequestID: j.pr.ID,
		Drafts:        j.final.Comments,
		PriorOpen:     priorOpen,
		DiffIndex:     diffIndex,
		Incremental:   j.incremental,
		TouchedPaths:  j.touchedPaths,
	})
	j.findings = result.Findings
	j.carriedOver = result.CarriedOverCount
	recordReconcileOutcomes(j.findings, j.reviewRunID, result.CarriedOverCount)

	return o.store.SaveFindings(ctx, j.findings)
}

// recordReconcileOutcomes tallies the reconciled finding set by the
// lifecycle transition each finding underwent on this run and reports it
// to metrics.ReconcileOutcomesTotal.
func recordReconcileOutcomes(findings []core.Finding, runID int64, carriedOver int) {
	var newCount, fixedCount, obsoleteCount int
	for _, f := range findings {
		switch {
		case f.Status == core.FindingOpen && f.FirstSeenRunID == runID:
			newCount++
		case f.Status == core.FindingFixed && f.LastSeenRunID == runID:
			fixedCount++
		case f.Status == core.FindingObsolete && f.LastSeenRunID == runID:
			obsoleteCount++
		}
	}
	metrics.RecordReconcileOutcome("new", newCount)
	metrics.RecordReconcileOutcome("fixed", fixedCount)
	metrics.RecordReconcileOutcome("obsolete", obsoleteCount)
	metrics.RecordReconcileOutcome("carried_over", carriedOver)
}

func (o *Orchestrator) buildSummaryInput(j *run) summaryInput {
	var newFindings, openFindings []core.Finding
	fixed := 0
	for _, f := range j.findings {
		if f.Status == core.FindingOpen {
			openFindings = append(openFindings, f)
			if f.FirstSeenRunID == j.reviewRunID {
				newFindings = append(newFindings, f)
			}
		}
		if f.Status == core.FindingFixed && f.LastSeenRunID == j.reviewRunID {
			fixed++
		}
	}
	return summaryInput{
		final:        j.final,
		checks:       j.checks,
		runID:        j.reviewRunID,
		newFindings:  newFindings,
		openFindings: openFindings,
		fixedCount:   fixed,
		carriedOver:  j.carriedOver,
		warnings:     j.warnings,
	}
}

// finalize persists the draft, final, verdicts and checks JSON onto the
// review run (the coverage plan is not stored separately; its suggestions
// are already merged into the final comments), closes the status check, and
// enqueues the follow-on index and analytics jobs.
func (o *Orchestrator) finalize(ctx context.Context, j *run, ref forge.StatusCheckRef) error {
	draftJSON, _ := marshalOrNil(j.draft)
	finalJSON, _ := marshalOrNil(j.final)
	verdictsJSON, _ := marshalOrNil(j.verdicts)
	checksJSON, _ := marshalOrNil(j.checks)

	now := time.Now()
	blocking := false
	for _, f := range j.findings {
		if f.Status == core.FindingOpen && f.Severity == core.SeverityBlocking {
			blocking = true
			break
		}
	}

	conclusion := "success"
	title := "Review complete"
	if blocking {
		conclusion = "failure"
		title = "Blocking findings open"
	}

	if err := j.client.UpdateStatusCheck(ctx, j.owner(), j.repoName(), ref, forge.StatusCheckState{
		Status:     "completed",
		Conclusion: conclusion,
		Title:      title,
		Summary:    j.final.Summary,
	}); err != nil {
		return fmt.Errorf("close status check: %w", err)
	}

	if err := o.store.UpdateReviewRun(ctx, &core.ReviewRun{
		ID:              j.reviewRunID,
		PullRequestID:   j.pr.ID,
		HeadSHA:         j.job.HeadSHA,
		Status:          core.ReviewRunCompleted,
		CompletedAt:     &now,
		DraftJSON:       draftJSON,
		FinalJSON:       finalJSON,
		VerdictsJSON:    verdictsJSON,
		ChecksJSON:      checksJSON,
	}); err != nil {
		return fmt.Errorf("persist completed run: %w", err)
	}

	if err := o.queue.Enqueue(ctx, core.JobIndex, core.IndexJobPayload{RepoID: j.repo.ID, RepoPath: j.worktreePath}); err != nil {
		o.logger.Warn("failed to enqueue index refresh", "error", err)
	}
	if err := o.queue.Enqueue(ctx, core.JobAnalytics, core.AnalyticsJobPayload{ReviewRunID: j.reviewRunID}); err != nil {
		o.logger.Warn("failed to enqueue analytics job", "error", err)
	}
	return nil
}
