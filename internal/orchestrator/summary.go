package orchestrator

import (
	"fmt"

	"github.com/sevigo/grepiku/internal/contextpack"
	"github.com/sevigo/grepiku/internal/core"
)

// enrichSummary synthesizes file_breakdown and
// diagram_mermaid when the editor omitted them, and computes confidence when
// missing.
func enrichSummary(final *core.FinalReview, pack *contextpack.Pack, changed []string) {
	if len(final.FileBreakdown) == 0 {
		final.FileBreakdown = fileBreakdown(final.Comments)
	}
	if final.DiagramMermaid == "" {
		final.DiagramMermaid = mermaidDiagram(pack, changed)
	}
	if final.Confidence == 0 {
		final.Confidence = computeConfidence(final.Risk, final.Comments)
	}
}

func fileBreakdown(comments []core.DraftComment) map[string]int {
	counts := make(map[string]int)
	for _, c := range comments {
		counts[c.Path]++
	}
	return counts
}

// mermaidDiagram builds a bounded directed graph (≤28 nodes, ≤42 edges)
// from the context pack's file_dep-family graph links between changed and
// related files, falling back to a changed→related bipartite sketch when
// the pack carries no graph links at all.
func mermaidDiagram(pack *contextpack.Pack, changed []string) string {
	const maxNodes = 28
	const maxEdges = 42

	nodes := make(map[string]bool)
	var lines []string
	addNode := func(p string) bool {
		if nodes[p] {
			return true
		}
		if len(nodes) >= maxNodes {
			return false
		}
		nodes[p] = true
		return true
	}

	if pack != nil && len(pack.GraphLinks) > 0 {
		edges := 0
		for _, link := range pack.GraphLinks {
			if edges >= maxEdges {
				break
			}
			if !addNode(link.From) || !addNode(link.To) {
				continue
			}
			lines = append(lines, fmt.Sprintf("  %s --> %s", mermaidID(link.From), mermaidID(link.To)))
			edges++
		}
	} else if pack != nil {
		edges := 0
		for _, c := range changed {
			if edges >= maxEdges {
				break
			}
			if !addNode(c) {
				break
			}
			for _, rel := range pack.RelatedFiles {
				if edges >= maxEdges || !addNode(rel.Path) {
					break
				}
				lines = append(lines, fmt.Sprintf("  %s --> %s", mermaidID(c), mermaidID(rel.Path)))
				edges++
			}
		}
	}

	if len(lines) == 0 {
		return ""
	}
	out := "graph LR\n"
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

func mermaidID(path string) string {
	id := make([]byte, 0, len(path))
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			id = append(id, c)
		default:
			id = append(id, '_')
		}
	}
	return string(id)
}

// computeConfidence implements clip(0.2, 0.95, base(risk) - 0.18*blocking -
// 0.08*important - 0.02*nit), where base(risk) anchors a low-risk PR high
// and a high-risk PR low before the per-finding penalties are applied.
func computeConfidence(risk string, comments []core.DraftComment) float64 {
	base := 0.7
	switch risk {
	case "low":
		base = 0.9
	case "medium":
		base = 0.75
	case "high":
		base = 0.55
	}

	var blocking, important, nit int
	for _, c := range comments {
		switch c.Severity {
		case core.SeverityBlocking:
			blocking++
		case core.SeverityImportant:
			important++
		case core.SeverityNit:
			nit++
		}
	}

	v := base - 0.18*float64(blocking) - 0.08*float64(important) - 0.02*float64(nit)
	return clip(0.2, 0.95, v)
}

func clip(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
