package stagerunner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicRunner is the Anthropic-backed run_stage implementation: the one
// concrete executor the orchestrator can use without shelling out to an
// external "codex" process. It is optional — anything implementing
// StageRunner satisfies the orchestrator's contract.
type AnthropicRunner struct {
	client         anthropic.Client
	model          anthropic.Model
	maxTokens      int64
	logger         *slog.Logger
	stageTimeout   time.Duration
	requestTimeout time.Duration
	maxRetries     int
}

// AnthropicRunnerOption customizes an AnthropicRunner beyond its defaults.
type AnthropicRunnerOption func(*AnthropicRunner)

func WithStageTimeout(d time.Duration) AnthropicRunnerOption {
	return func(r *AnthropicRunner) { r.stageTimeout = d }
}

func WithMaxTokens(n int64) AnthropicRunnerOption {
	return func(r *AnthropicRunner) { r.maxTokens = n }
}

// NewAnthropicRunner builds a StageRunner backed by the Anthropic Messages
// API. apiKey and model are required; timeouts and retry count follow the
// defaults in model.go unless overridden.
func NewAnthropicRunner(apiKey string, model anthropic.Model, logger *slog.Logger, opts ...AnthropicRunnerOption) *AnthropicRunner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &AnthropicRunner{
		model:          model,
		maxTokens:      4096,
		logger:         logger,
		stageTimeout:   DefaultStageTimeout,
		requestTimeout: DefaultRequestTimeout,
		maxRetries:     DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.client = anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(r.maxRetries),
		option.WithRequestTimeout(r.requestTimeout),
	)
	return r
}

var _ StageRunner = (*AnthropicRunner)(nil)

// RunStage sends prompt to the Anthropic Messages API, validates the
// response as JSON (repairing common near-misses), and writes it to
// out/<stage>.json. On validation failure it writes the raw response to
// out/last_message_<stage>.txt and returns ErrStageOutputInvalid. The
// orchestrator treats that error as a stage failure; it does not read the
// last-message file.
func (r *AnthropicRunner) RunStage(ctx context.Context, stage Stage, bundleDir, outDir, prompt string) (Result, error) {
	start := time.Now()
	filename, ok := OutputFilename(stage)
	if !ok {
		return Result{}, fmt.Errorf("stagerunner: unknown stage %q", stage)
	}

	stageCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
	defer cancel()

	raw, err := r.callOnce(stageCtx, prompt)
	if err != nil {
		return Result{Stage: stage, Duration: time.Since(start)}, fmt.Errorf("stagerunner: %s call failed: %w", stage, err)
	}

	doc, repairErr := extractAndRepairJSON(raw)
	if repairErr != nil {
		lastMessagePath := filepath.Join(outDir, fmt.Sprintf("last_message_%s.txt", stage))
		if writeErr := os.WriteFile(lastMessagePath, []byte(raw), 0o644); writeErr != nil {
			r.logger.Warn("failed to write last-message fallback", "stage", stage, "error", writeErr)
		}
		return Result{Stage: stage, UsedFallback: true, Duration: time.Since(start)}, repairErr
	}

	outPath := filepath.Join(outDir, filename)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{Stage: stage}, fmt.Errorf("stagerunner: create out dir: %w", err)
	}
	if err := os.WriteFile(outPath, doc, 0o644); err != nil {
		return Result{Stage: stage}, fmt.Errorf("stagerunner: write output: %w", err)
	}

	return Result{Stage: stage, OutputPath: outPath, Duration: time.Since(start)}, nil
}

func (r *AnthropicRunner) callOnce(ctx context.Context, prompt string) (string, error) {
	msg, err := r.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var out string
	for _, block := range msg.Content {
		out += block.Text
	}
	return out, nil
}
