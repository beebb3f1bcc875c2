package stagerunner

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/require"
)

// newTestRunner points an AnthropicRunner at a fake Messages endpoint that
// always responds with responseText as the sole content block.
func newTestRunner(t *testing.T, responseText string) *AnthropicRunner {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/messages", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": responseText},
			},
			"model":       "claude-test",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 1, "output_tokens": 1},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	r := &AnthropicRunner{
		model:          anthropic.Model("claude-test"),
		maxTokens:      256,
		logger:         slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})),
		stageTimeout:   DefaultStageTimeout,
		requestTimeout: DefaultRequestTimeout,
		maxRetries:     0,
	}
	r.client = anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
	)
	return r
}

func TestRunStage_WritesValidatedOutput(t *testing.T) {
	r := newTestRunner(t, `{"summary":"looks fine","comments":[]}`)
	outDir := t.TempDir()

	result, err := r.RunStage(t.Context(), StageReviewer, t.TempDir(), outDir, "review this diff")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "draft_review.json"), result.OutputPath)

	data, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	require.JSONEq(t, `{"summary":"looks fine","comments":[]}`, string(data))
}

func TestRunStage_FallsBackToLastMessageOnInvalidJSON(t *testing.T) {
	r := newTestRunner(t, "I couldn't produce structured output for this one.")
	outDir := t.TempDir()

	result, err := r.RunStage(t.Context(), StageEditor, t.TempDir(), outDir, "edit this draft")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStageOutputInvalid)
	require.True(t, result.UsedFallback)

	fallback := filepath.Join(outDir, fmt.Sprintf("last_message_%s.txt", StageEditor))
	data, err := os.ReadFile(fallback)
	require.NoError(t, err)
	require.Contains(t, string(data), "couldn't produce structured output")
}
