package stagerunner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ExternalProcessRunner shells out to an external "codex"-style stage
// executable: a binary invoked once per stage as
// `<command> <stage> <bundle_dir> <out_dir> <prompt>` that is expected to
// write its own out/<stage>.json and return a non-zero exit status on
// failure. This is the out-of-scope executor's integration seam — the
// orchestrator never needs to know whether a StageRunner is this, the
// Anthropic-backed one, or a test double.
type ExternalProcessRunner struct {
	command string
	args    []string
	logger  *slog.Logger
	timeout time.Duration
}

func NewExternalProcessRunner(command string, args []string, logger *slog.Logger) *ExternalProcessRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExternalProcessRunner{command: command, args: args, logger: logger, timeout: DefaultStageTimeout}
}

var _ StageRunner = (*ExternalProcessRunner)(nil)

func (r *ExternalProcessRunner) RunStage(ctx context.Context, stage Stage, bundleDir, outDir, prompt string) (Result, error) {
	start := time.Now()
	filename, ok := OutputFilename(stage)
	if !ok {
		return Result{}, fmt.Errorf("stagerunner: unknown stage %q", stage)
	}

	stageCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{Stage: stage}, fmt.Errorf("stagerunner: create out dir: %w", err)
	}

	args := append(append([]string{}, r.args...), string(stage), bundleDir, outDir, prompt)
	cmd := exec.CommandContext(stageCtx, r.command, args...)
	out, err := cmd.CombinedOutput()

	outPath := filepath.Join(outDir, filename)
	if err != nil {
		lastMessagePath := filepath.Join(outDir, fmt.Sprintf("last_message_%s.txt", stage))
		if writeErr := os.WriteFile(lastMessagePath, out, 0o644); writeErr != nil {
			r.logger.Warn("failed to write last-message fallback", "stage", stage, "error", writeErr)
		}
		if stageCtx.Err() != nil {
			return Result{Stage: stage, UsedFallback: true, Duration: time.Since(start)}, fmt.Errorf("stagerunner: %s timed out after %s: %w", stage, r.timeout, stageCtx.Err())
		}
		return Result{Stage: stage, UsedFallback: true, Duration: time.Since(start)}, fmt.Errorf("stagerunner: %s process failed: %w", stage, err)
	}

	if _, statErr := os.Stat(outPath); statErr != nil {
		return Result{Stage: stage, Duration: time.Since(start)}, fmt.Errorf("stagerunner: %s did not write %s: %w", stage, outPath, statErr)
	}

	return Result{Stage: stage, OutputPath: outPath, Duration: time.Since(start)}, nil
}
