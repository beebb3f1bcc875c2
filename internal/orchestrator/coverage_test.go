package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/grepiku/internal/core"
)

func TestCoverageTargets_SelectsOnlyUncommentedPaths(t *testing.T) {
	changed := []string{"a.go", "b.go", "c.go"}
	comments := []core.DraftComment{
		{Path: "b.go"},
	}

	targets := coverageTargets(changed, comments)

	assert.Equal(t, []string{"a.go", "c.go"}, targets)
}

func TestCoverageTargets_EmptyWhenEverythingCommented(t *testing.T) {
	changed := []string{"a.go"}
	comments := []core.DraftComment{{Path: "a.go"}}

	assert.Empty(t, coverageTargets(changed, comments))
}

func baseResolved() *core.ResolvedConfig {
	rc := core.DefaultResolvedConfig()
	rc.Limits.MaxInlineComments = 20
	rc.CommentTypes.Allow = []core.CommentKind{core.CommentInline, core.CommentSummary}
	return rc
}

func TestShouldRunCoverage_FalseWhenNoTargets(t *testing.T) {
	assert.False(t, shouldRunCoverage(baseResolved(), nil, 0))
}

func TestShouldRunCoverage_FalseWhenSummaryOnly(t *testing.T) {
	rc := baseResolved()
	rc.Output.SummaryOnly = true
	assert.False(t, shouldRunCoverage(rc, []string{"a.go"}, 0))
}

func TestShouldRunCoverage_FalseWhenInlineNotAllowed(t *testing.T) {
	rc := baseResolved()
	rc.CommentTypes.Allow = []core.CommentKind{core.CommentSummary}
	assert.False(t, shouldRunCoverage(rc, []string{"a.go"}, 0))
}

func TestShouldRunCoverage_FalseWhenInlineBudgetExhausted(t *testing.T) {
	rc := baseResolved()
	rc.Limits.MaxInlineComments = 5
	assert.False(t, shouldRunCoverage(rc, []string{"a.go"}, 5))
}

func TestShouldRunCoverage_TrueWhenEverythingLinesUp(t *testing.T) {
	rc := baseResolved()
	assert.True(t, shouldRunCoverage(rc, []string{"a.go"}, 3))
}
