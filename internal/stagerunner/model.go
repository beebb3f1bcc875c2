// Package stagerunner implements the run_stage contract: given a rendered
// prompt and a bundle directory, drive one pipeline stage to completion and
// write its JSON output under out/. The orchestrator treats a stage as a
// black box — it only observes whether run_stage succeeded, timed out, or
// produced output that failed validation.
package stagerunner

import "time"

// Stage identifies one of the four pipeline stages a run_stage call drives.
type Stage string

const (
	StageReviewer Stage = "reviewer"
	StageEditor   Stage = "editor"
	StageCoverage Stage = "coverage"
	StageVerifier Stage = "verifier"
)

// outputFilename is the out/ filename each stage is expected to produce.
var outputFilename = map[Stage]string{
	StageReviewer: "draft_review.json",
	StageEditor:   "final_review.json",
	StageCoverage: "coverage_plan.json",
	StageVerifier: "checks.json",
}

// OutputFilename returns the JSON filename a stage writes under out/, or
// ("", false) for an unrecognized stage.
func OutputFilename(s Stage) (string, bool) {
	name, ok := outputFilename[s]
	return name, ok
}

// Timeout defaults, both per the concurrency model: a stage gets one
// generous wall-clock budget, while the underlying provider calls inside it
// are retried individually against a much tighter per-request timeout.
const (
	DefaultStageTimeout   = 900 * time.Second
	DefaultRequestTimeout = 120 * time.Second
	DefaultMaxRetries     = 3
)

// Result summarizes one RunStage call for logging and for the orchestrator's
// fallback decisions.
type Result struct {
	Stage        Stage
	OutputPath   string
	UsedFallback bool
	Attempts     int
	Duration     time.Duration
}
