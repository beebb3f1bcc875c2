package promptlib

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_ReviewerDefaultIncludesDiffAndStrictness(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	out, err := m.Render(ReviewerStage, DefaultProvider, ReviewerData{
		RepoFullName: "acme/widget",
		PRTitle:      "Add retry logic",
		Strictness:   "high",
		DiffPatch:    "+ retries := 3",
	})
	require.NoError(t, err)
	require.Contains(t, out, "acme/widget")
	require.Contains(t, out, "high")
	require.Contains(t, out, "retries := 3")
}

func TestRender_UnknownProviderFallsBackToDefault(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	out, err := m.Render(EditorStage, Provider("some-unregistered-provider"), EditorData{
		RepoFullName:    "acme/widget",
		DraftReviewJSON: `{"summary":"x","comments":[]}`,
	})
	require.NoError(t, err)
	require.True(t, strings.Contains(out, "acme/widget"))
}

func TestRender_UnknownStageErrors(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	_, err = m.Render(StageKey("nonexistent"), DefaultProvider, nil)
	require.Error(t, err)
}
