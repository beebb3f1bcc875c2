package stagerunner

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stage.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExternalProcessRunner_SuccessReadsWrittenOutput(t *testing.T) {
	script := writeScript(t, `outdir="$3"; echo '{"summary":"ok","comments":[]}' > "$outdir/draft_review.json"`)
	r := NewExternalProcessRunner(script, nil, nil)

	outDir := t.TempDir()
	result, err := r.RunStage(t.Context(), StageReviewer, t.TempDir(), outDir, "prompt text")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(outDir, "draft_review.json"), result.OutputPath)
}

func TestExternalProcessRunner_NonZeroExitWritesLastMessage(t *testing.T) {
	script := writeScript(t, `echo "stage blew up" 1>&2; exit 1`)
	r := NewExternalProcessRunner(script, nil, nil)

	outDir := t.TempDir()
	result, err := r.RunStage(t.Context(), StageEditor, t.TempDir(), outDir, "prompt text")
	require.Error(t, err)
	require.True(t, result.UsedFallback)

	fallback := filepath.Join(outDir, fmt.Sprintf("last_message_%s.txt", StageEditor))
	data, readErr := os.ReadFile(fallback)
	require.NoError(t, readErr)
	require.Contains(t, string(data), "stage blew up")
}
