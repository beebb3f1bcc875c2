package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/grepiku/internal/contextpack"
	"github.com/sevigo/grepiku/internal/core"
)

func TestComputeConfidence_LowRiskNoFindingsIsHigh(t *testing.T) {
	assert.InDelta(t, 0.9, computeConfidence("low", nil), 0.0001)
}

func TestComputeConfidence_PenalizesBySeverityAndClipsToFloor(t *testing.T) {
	comments := []core.DraftComment{
		{Severity: core.SeverityBlocking},
		{Severity: core.SeverityBlocking},
		{Severity: core.SeverityBlocking},
	}
	got := computeConfidence("high", comments)
	assert.InDelta(t, 0.2, got, 0.0001) // 0.55 - 0.54 = 0.01, clipped to floor 0.2
}

func TestClip_ClampsBothEnds(t *testing.T) {
	assert.Equal(t, 0.2, clip(0.2, 0.95, 0.0))
	assert.Equal(t, 0.95, clip(0.2, 0.95, 2.0))
	assert.Equal(t, 0.5, clip(0.2, 0.95, 0.5))
}

func TestFileBreakdown_CountsCommentsPerPath(t *testing.T) {
	comments := []core.DraftComment{
		{Path: "a.go"}, {Path: "a.go"}, {Path: "b.go"},
	}
	got := fileBreakdown(comments)
	assert.Equal(t, 2, got["a.go"])
	assert.Equal(t, 1, got["b.go"])
}

func TestMermaidDiagram_BuildsFromGraphLinksWhenPresent(t *testing.T) {
	pack := &contextpack.Pack{
		GraphLinks: []contextpack.GraphLink{{From: "a/b.go", To: "c/d.go"}},
	}
	out := mermaidDiagram(pack, []string{"a/b.go"})
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "-->")
}

func TestMermaidDiagram_FallsBackToChangedRelatedBipartiteWhenNoLinks(t *testing.T) {
	pack := &contextpack.Pack{
		RelatedFiles: []contextpack.RelatedFile{{Path: "related.go"}},
	}
	out := mermaidDiagram(pack, []string{"changed.go"})
	assert.Contains(t, out, "graph LR")
}

func TestMermaidDiagram_EmptyWhenNothingToShow(t *testing.T) {
	assert.Equal(t, "", mermaidDiagram(&contextpack.Pack{}, nil))
}

func TestEnrichSummary_OnlyFillsMissingFields(t *testing.T) {
	final := &core.FinalReview{
		Risk:       "low",
		Comments:   []core.DraftComment{{Path: "a.go"}},
		Confidence: 0.42, // already set, must not be overwritten
	}
	enrichSummary(final, &contextpack.Pack{}, []string{"a.go"})

	assert.Equal(t, 0.42, final.Confidence)
	assert.Equal(t, 1, final.FileBreakdown["a.go"])
}
