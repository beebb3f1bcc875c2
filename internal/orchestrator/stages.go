package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sevigo/grepiku/internal/contextpack"
	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/promptlib"
	"github.com/sevigo/grepiku/internal/stagerunner"
)

func marshalOrNil(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// runVerifierStage runs the verifier stage and always returns a
// core.ChecksOutput, never an error: a failed render, stage run, or output
// read is folded into a single CheckError result so the errgroup join in
// Run doesn't treat a verifier hiccup as fatal to the whole review. The
// verifier runs off the same bundle the reviewer stage writes, so it only
// needs the diff and the changed file list, not the reviewer's output.
func (o *Orchestrator) runVerifierStage(ctx context.Context, j *run) core.ChecksOutput {
	errChecks := func(err error) core.ChecksOutput {
		return core.ChecksOutput{HeadSHA: j.job.HeadSHA, Checks: map[string]core.CheckResult{
			"verifier": {Status: core.CheckError, Summary: err.Error()},
		}}
	}

	changed := make([]string, 0, len(j.changedFiles))
	for _, f := range j.changedFiles {
		changed = append(changed, f.Path)
	}
	prompt, err := o.prompts.Render(promptlib.VerifierStage, promptlib.DefaultProvider, promptlib.VerifierData{
		RepoFullName: j.job.RepoFullName,
		HeadSHA:      j.job.HeadSHA,
		DiffPatch:    j.diffPatch,
		ChangedFiles: changed,
	})
	if err != nil {
		o.logger.Error("verifier prompt render failed", "error", err)
		return errChecks(err)
	}

	if _, err := o.runStage(ctx, stagerunner.StageVerifier, j.bundleDir, j.outDir, prompt); err != nil {
		o.logger.Error("verifier stage failed", "error", err)
		return errChecks(err)
	}

	var checks core.ChecksOutput
	if err := readStageJSON(j.outDir, "checks.json", &checks); err != nil {
		o.logger.Error("verifier output unreadable", "error", err)
		return errChecks(err)
	}
	return checks
}

func (o *Orchestrator) runReviewerStage(ctx context.Context, j *run, pack *contextpack.Pack) error {
	packJSON, err := marshalOrNil(pack)
	if err != nil {
		return fmt.Errorf("marshal context pack: %w", err)
	}

	var incrementalNote string
	if j.incremental {
		incrementalNote = "This is an incremental review; focus on what changed since the last completed run."
	}

	feedback, err := o.store.FeedbackCategoryCounts(ctx, j.pr.ID)
	if err != nil {
		return fmt.Errorf("load feedback counts: %w", err)
	}
	j.feedback = feedback
	var hints []string
	for cat, fc := range feedback {
		if oftenRejected(feedback, cat) {
			hints = append(hints, fmt.Sprintf("findings in category %q have been frequently rejected (%d accepted / %d rejected); raise the bar for them", cat, fc.Accepted, fc.Rejected))
		}
	}

	prompt, err := o.prompts.Render(promptlib.ReviewerStage, promptlib.DefaultProvider, promptlib.ReviewerData{
		RepoFullName:       j.job.RepoFullName,
		PRTitle:            j.pr.Title,
		PRBody:             j.pr.Body,
		Strictness:         j.resolved.Strictness,
		CustomInstructions: j.resolved.CustomInstructions,
		Incremental:        j.incremental,
		IncrementalNote:    incrementalNote,
		FeedbackHints:      hints,
		DiffPatch:          j.diffPatch,
		ContextPackJSON:    string(packJSON),
	})
	if err != nil {
		return fmt.Errorf("render reviewer prompt: %w", err)
	}

	if _, err := o.runStage(ctx, stagerunner.StageReviewer, j.bundleDir, j.outDir, prompt); err != nil {
		return fmt.Errorf("run reviewer stage: %w", err)
	}
	if err := readStageJSON(j.outDir, "draft_review.json", &j.draft); err != nil {
		return fmt.Errorf("read draft review: %w", err)
	}
	return nil
}

func (o *Orchestrator) runEditorStage(ctx context.Context, j *run) error {
	draftJSON, err := marshalOrNil(j.draft)
	if err != nil {
		return fmt.Errorf("marshal draft review: %w", err)
	}

	prompt, err := o.prompts.Render(promptlib.EditorStage, promptlib.DefaultProvider, promptlib.EditorData{
		RepoFullName:    j.job.RepoFullName,
		Strictness:      j.resolved.Strictness,
		DraftReviewJSON: string(draftJSON),
	})
	if err != nil {
		return fmt.Errorf("render editor prompt: %w", err)
	}

	if _, err := o.runStage(ctx, stagerunner.StageEditor, j.bundleDir, j.outDir, prompt); err != nil {
		return fmt.Errorf("run editor stage: %w", err)
	}
	if err := readStageJSON(j.outDir, "final_review.json", &j.final); err != nil {
		return fmt.Errorf("read final review: %w", err)
	}
	if err := readStageJSON(j.outDir, "verdicts.json", &j.verdicts); err != nil {
		return fmt.Errorf("read verdicts: %w", err)
	}

	j.final.Comments = applyVerdicts(j.draft.Comments, j.verdicts)
	return nil
}

func (o *Orchestrator) runCoverageStage(ctx context.Context, j *run, pack *contextpack.Pack) error {
	changedPaths := make([]string, 0, len(j.changedFiles))
	for _, f := range j.changedFiles {
		changedPaths = append(changedPaths, f.Path)
	}
	targets := coverageTargets(changedPaths, j.final.Comments)

	existingInline := 0
	for _, c := range j.final.Comments {
		if c.CommentType == "" || c.CommentType == core.CommentInline {
			existingInline++
		}
	}

	if !shouldRunCoverage(j.resolved, targets, existingInline) {
		return nil
	}

	finalJSON, err := marshalOrNil(j.final)
	if err != nil {
		return fmt.Errorf("marshal final review: %w", err)
	}
	packJSON, err := marshalOrNil(pack)
	if err != nil {
		return fmt.Errorf("marshal context pack: %w", err)
	}

	prompt, err := o.prompts.Render(promptlib.CoverageStage, promptlib.DefaultProvider, promptlib.CoverageData{
		RepoFullName:    j.job.RepoFullName,
		Targets:         targets,
		FinalReviewJSON: string(finalJSON),
		ContextPackJSON: string(packJSON),
	})
	if err != nil {
		return fmt.Errorf("render coverage prompt: %w", err)
	}

	if _, err := o.runStage(ctx, stagerunner.StageCoverage, j.bundleDir, j.outDir, prompt); err != nil {
		return fmt.Errorf("run coverage stage: %w", err)
	}
	if err := readStageJSON(j.outDir, "coverage_plan.json", &j.coverage); err != nil {
		return fmt.Errorf("read coverage plan: %w", err)
	}
	j.final.Comments = append(j.final.Comments, j.coverage.Suggestions...)
	return nil
}
