package orchestrator

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/promptlib"
	"github.com/sevigo/grepiku/internal/stagerunner"
	"github.com/sevigo/grepiku/mocks"
)

func testOrchestrator(t *testing.T, stages stagerunner.StageRunner) *Orchestrator {
	t.Helper()
	prompts, err := promptlib.New()
	require.NoError(t, err)
	return &Orchestrator{
		stages:  stages,
		prompts: prompts,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func writeChecksJSON(t *testing.T, outDir string, checks core.ChecksOutput) {
	t.Helper()
	data, err := json.Marshal(checks)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "checks.json"), data, 0o644))
}

// TestRunVerifierStage_SuccessReadsChecksJSON exercises runVerifierStage
// against a gomock-generated stagerunner.StageRunner rather than a
// hand-rolled fake, verifying the call is shaped the way the orchestrator
// actually drives a stage (stage name, bundle/out dirs, rendered prompt).
func TestRunVerifierStage_SuccessReadsChecksJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	outDir := t.TempDir()
	writeChecksJSON(t, outDir, core.ChecksOutput{
		HeadSHA: "abc123",
		Checks:  map[string]core.CheckResult{"verifier": {Status: core.CheckPass}},
	})

	runner := mocks.NewMockStageRunner(ctrl)
	runner.EXPECT().
		RunStage(gomock.Any(), stagerunner.StageVerifier, gomock.Any(), outDir, gomock.Any()).
		Return(stagerunner.Result{Stage: stagerunner.StageVerifier, OutputPath: filepath.Join(outDir, "checks.json")}, nil)

	o := testOrchestrator(t, runner)
	j := &run{
		job:       core.ReviewJobPayload{RepoFullName: "acme/widgets", HeadSHA: "abc123"},
		outDir:    outDir,
		bundleDir: t.TempDir(),
		diffPatch: "diff --git a/x b/x\n",
	}

	checks := o.runVerifierStage(t.Context(), j)

	assert.Equal(t, "abc123", checks.HeadSHA)
	assert.Equal(t, core.CheckPass, checks.Checks["verifier"].Status)
}

// TestRunVerifierStage_StageFailureFoldsIntoCheckError confirms a failing
// RunStage call never propagates as an error out of runVerifierStage — it
// becomes a single CheckError result so the errgroup join at step 16 treats a
// verifier hiccup as non-fatal to the run.
func TestRunVerifierStage_StageFailureFoldsIntoCheckError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := mocks.NewMockStageRunner(ctrl)
	runner.EXPECT().
		RunStage(gomock.Any(), stagerunner.StageVerifier, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(stagerunner.Result{}, errors.New("provider timeout"))

	o := testOrchestrator(t, runner)
	j := &run{
		job:       core.ReviewJobPayload{RepoFullName: "acme/widgets", HeadSHA: "def456"},
		outDir:    t.TempDir(),
		bundleDir: t.TempDir(),
	}

	checks := o.runVerifierStage(t.Context(), j)

	require.Contains(t, checks.Checks, "verifier")
	assert.Equal(t, core.CheckError, checks.Checks["verifier"].Status)
}
