package stagerunner

import "context"

// StageRunner drives one pipeline stage against an LLM backend. bundleDir
// holds the stage's inputs (pr.md, diff.patch, context_pack.json, ...);
// outDir is where the stage's JSON output and, on failure, its
// last_message_<stage>.txt fallback are written. prompt is the fully
// rendered template text for this (stage, provider) pair — StageRunner does
// not render prompts itself.
//
//go:generate mockgen -destination=../../mocks/mock_stage_runner.go -package=mocks github.com/sevigo/grepiku/internal/stagerunner StageRunner
type StageRunner interface {
	RunStage(ctx context.Context, stage Stage, bundleDir, outDir, prompt string) (Result, error)
}
