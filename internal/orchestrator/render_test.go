package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/grepiku/internal/core"
)

func TestRenderInlineCommentBody_BlockingUsesCautionAlert(t *testing.T) {
	f := core.Finding{
		ID:       42,
		Severity: core.SeverityBlocking,
		Category: "correctness",
		Body:     "this drops the error",
	}

	body := renderInlineCommentBody(f)

	assert.Contains(t, body, "[!CAUTION]")
	assert.Contains(t, body, "> this drops the error")
	assert.Contains(t, body, "<!-- grepiku:42 -->")
}

func TestRenderInlineCommentBody_NonBlockingSkipsAlertBlock(t *testing.T) {
	f := core.Finding{ID: 1, Severity: core.SeverityNit, Body: "minor nit"}

	body := renderInlineCommentBody(f)

	assert.NotContains(t, body, "[!CAUTION]")
	assert.Contains(t, body, "minor nit")
}

func TestRenderInlineCommentBody_EscapesFenceInSuggestedPatch(t *testing.T) {
	f := core.Finding{ID: 1, Severity: core.SeverityNit, SuggestedPatch: "```\nfoo\n```"}

	body := renderInlineCommentBody(f)

	assert.Contains(t, body, "```suggestion")
	assert.NotContains(t, body, "```\nfoo\n```")
}

func TestRenderSummaryComment_IncludesMarkersAndCounts(t *testing.T) {
	in := summaryInput{
		final:        core.FinalReview{Summary: "looks fine", Verdict: "approve", Confidence: 0.8},
		runID:        7,
		newFindings:  []core.Finding{{}},
		openFindings: []core.Finding{{}, {}},
		fixedCount:   1,
		carriedOver:  2,
	}

	out := renderSummaryComment(in)

	assert.True(t, len(out) > 0)
	assert.Contains(t, out, summaryMarkerStart)
	assert.Contains(t, out, summaryMarkerEnd)
	assert.Contains(t, out, "Run:** #7")
	assert.Contains(t, out, "New: 1 · Open: 2 · Fixed: 1")
	assert.Contains(t, out, "Carried over: 2")
}

func TestUpsertPRBodyBlock_AppendsWhenNoExistingBlock(t *testing.T) {
	out := upsertPRBodyBlock("Existing description", "RENDERED")

	assert.Contains(t, out, "Existing description")
	assert.Contains(t, out, "RENDERED")
}

func TestUpsertPRBodyBlock_ReplacesExistingBlockInPlace(t *testing.T) {
	body := "Intro\n" + summaryMarkerStart + "\nstale\n" + summaryMarkerEnd + "\nOutro"

	out := upsertPRBodyBlock(body, "FRESH")

	assert.Contains(t, out, "Intro")
	assert.Contains(t, out, "FRESH")
	assert.Contains(t, out, "Outro")
	assert.NotContains(t, out, "stale")
}

func TestUpsertPRBodyBlock_EmptyBodyReturnsJustRendered(t *testing.T) {
	out := upsertPRBodyBlock("   ", "RENDERED")
	assert.Equal(t, "RENDERED", out)
}
