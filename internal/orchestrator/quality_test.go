package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/grepiku/internal/core"
)

func TestUnescapeTextFields_ConvertsLiteralNewlines(t *testing.T) {
	in := []core.DraftComment{{Body: `line one\nline two`, Evidence: `a\nb`}}

	out := unescapeTextFields(in)

	assert.Equal(t, "line one\nline two", out[0].Body)
	assert.Equal(t, "a\nb", out[0].Evidence)
}

func TestDropEmptyEvidence_DropsBlankAndQuotedEmpty(t *testing.T) {
	in := []core.DraftComment{
		{CommentID: "keep", Evidence: "func foo() {}"},
		{CommentID: "blank", Evidence: "   "},
		{CommentID: "quoted", Evidence: `""`},
	}

	out := dropEmptyEvidence(in)

	assert.Len(t, out, 1)
	assert.Equal(t, "keep", out[0].CommentID)
}

func TestDowngradeBlockingWithoutPatch_DowngradesToImportant(t *testing.T) {
	in := []core.DraftComment{
		{CommentID: "c1", Severity: core.SeverityBlocking, SuggestedPatch: ""},
		{CommentID: "c2", Severity: core.SeverityBlocking, SuggestedPatch: "diff --git..."},
	}

	out := downgradeBlockingWithoutPatch(in)

	assert.Equal(t, core.SeverityImportant, out[0].Severity)
	assert.Equal(t, core.SeverityBlocking, out[1].Severity)
}

func TestDedupeOverlapping_DropsSameLocationSameTitle(t *testing.T) {
	in := []core.DraftComment{
		{Path: "a.go", Side: core.SideRight, Line: 10, Title: "Missing nil check"},
		{Path: "a.go", Side: core.SideRight, Line: 10, Title: "missing   nil check"},
		{Path: "a.go", Side: core.SideRight, Line: 11, Title: "Missing nil check"},
	}

	out := dedupeOverlapping(in)

	assert.Len(t, out, 2)
}

func TestApplyStrictnessAndFeedback_HighDropsNitsAndLowConfidence(t *testing.T) {
	in := []core.DraftComment{
		{CommentID: "nit", Severity: core.SeverityNit, Confidence: core.ConfidenceHigh},
		{CommentID: "low-conf", Severity: core.SeverityImportant, Confidence: core.ConfidenceLow},
		{CommentID: "keep", Severity: core.SeverityImportant, Confidence: core.ConfidenceHigh},
	}

	out := applyStrictnessAndFeedback(in, "high", nil)

	assert.Len(t, out, 1)
	assert.Equal(t, "keep", out[0].CommentID)
}

func TestApplyStrictnessAndFeedback_OftenRejectedCategoryDroppedUnlessBlockingOrHighConfidence(t *testing.T) {
	feedback := map[core.Category]FeedbackCounts{
		core.Category("style"): {Accepted: 1, Rejected: 4},
	}
	in := []core.DraftComment{
		{CommentID: "rejected-medium", Category: "style", Severity: core.SeverityImportant, Confidence: core.ConfidenceMedium},
		{CommentID: "rejected-but-blocking", Category: "style", Severity: core.SeverityBlocking, Confidence: core.ConfidenceMedium},
		{CommentID: "rejected-but-high-conf", Category: "style", Severity: core.SeverityImportant, Confidence: core.ConfidenceHigh},
	}

	out := applyStrictnessAndFeedback(in, "low", feedback)

	assert.Len(t, out, 2)
	ids := []string{out[0].CommentID, out[1].CommentID}
	assert.Contains(t, ids, "rejected-but-blocking")
	assert.Contains(t, ids, "rejected-but-high-conf")
}

func TestEnforcePerFileCap_CapsPerFileByMaxInlineOverSqrtChangedFiles(t *testing.T) {
	in := []core.DraftComment{
		{Path: "a.go", Severity: core.SeverityBlocking, Title: "1"},
		{Path: "a.go", Severity: core.SeverityImportant, Title: "2"},
		{Path: "a.go", Severity: core.SeverityNit, Title: "3"},
		{Path: "a.go", Severity: core.SeverityNit, Title: "4"},
	}
	// changedFileCount=4 -> denom=ceil(sqrt(4))=2, maxInlineComments=4 -> limit=2
	out := enforcePerFileCap(in, 4, 4, false)

	assert.Len(t, out, 2)
	assert.Equal(t, core.SeverityBlocking, out[0].Severity)
	assert.Equal(t, core.SeverityImportant, out[1].Severity)
}

func TestEnforcePerFileCap_SummaryOnlyDemotesSurplusInsteadOfDropping(t *testing.T) {
	in := []core.DraftComment{
		{Path: "a.go", Severity: core.SeverityBlocking, CommentType: core.CommentInline},
		{Path: "a.go", Severity: core.SeverityNit, CommentType: core.CommentInline},
	}
	// denom=1, limit=1/1=1: second comment is surplus
	out := enforcePerFileCap(in, 1, 1, true)

	assert.Len(t, out, 2)
	assert.Equal(t, core.CommentInline, out[0].CommentType)
	assert.Equal(t, core.CommentSummary, out[1].CommentType)
}

func TestRefineFindings_RunsFullPipelineInOrder(t *testing.T) {
	in := []core.DraftComment{
		{CommentID: "c1", Path: "a.go", Severity: core.SeverityBlocking, SuggestedPatch: "", Evidence: "x := 1"},
		{CommentID: "c2", Path: "a.go", Evidence: ""},
	}

	out := refineFindings(in, "medium", nil, 1, 20, false)

	assert.Len(t, out, 1)
	assert.Equal(t, core.SeverityImportant, out[0].Severity)
}
