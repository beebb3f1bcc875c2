package orchestrator

import (
	"fmt"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
)

const (
	summaryMarkerStart = "<!-- grepiku-summary:start -->"
	summaryMarkerEnd   = "<!-- grepiku-summary:end -->"
)

func findingMarker(findingID int64) string {
	return fmt.Sprintf("<!-- grepiku:%d -->", findingID)
}

func severityEmoji(s core.Severity) string {
	switch s {
	case core.SeverityBlocking:
		return "🔴"
	case core.SeverityImportant:
		return "🟠"
	case core.SeverityNit:
		return "🟢"
	default:
		return "⚪"
	}
}

// renderInlineCommentBody formats one finding into an inline-comment body:
// compact header, alert-block, and suggested-change pattern, over our
// Severity and Category vocabulary plus our own idempotency marker.
func renderInlineCommentBody(f core.Finding) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s %s**", severityEmoji(f.Severity), f.Severity)
	if f.Category != "" {
		fmt.Fprintf(&sb, " — %s", f.Category)
	}
	sb.WriteString("\n\n")

	if f.Severity == core.SeverityBlocking {
		sb.WriteString("> [!CAUTION]\n")
		for _, line := range strings.Split(f.Body, "\n") {
			sb.WriteString("> " + line + "\n")
		}
	} else {
		sb.WriteString(f.Body)
		sb.WriteString("\n")
	}

	if f.SuggestedPatch != "" {
		sb.WriteString("\n```suggestion\n")
		sb.WriteString(strings.TrimSpace(strings.ReplaceAll(f.SuggestedPatch, "```", "`​`​`")))
		sb.WriteString("\n```\n")
	}

	sb.WriteString("\n---\n> 💡 Reply with `/rereview` to trigger a new review.\n")
	sb.WriteString(findingMarker(f.ID))
	return sb.String()
}

// summaryInput is everything renderSummaryComment needs, kept as one
// parameter object since the status comment aggregates almost every piece
// of run state.
type summaryInput struct {
	final        core.FinalReview
	checks       core.ChecksOutput
	runID        int64
	newFindings  []core.Finding
	openFindings []core.Finding
	fixedCount   int
	carriedOver  int
	warnings     []string
}

func renderSummaryComment(in summaryInput) string {
	var sb strings.Builder
	sb.WriteString(summaryMarkerStart + "\n")
	sb.WriteString("## 🔍 Review Summary\n\n")

	if in.final.Verdict != "" {
		fmt.Fprintf(&sb, "**Verdict:** %s  \n", in.final.Verdict)
	}
	if in.final.Risk != "" {
		fmt.Fprintf(&sb, "**Risk:** %s  \n", in.final.Risk)
	}
	fmt.Fprintf(&sb, "**Confidence:** %.2f  \n", in.final.Confidence)
	fmt.Fprintf(&sb, "**Run:** #%d\n\n", in.runID)

	sb.WriteString(in.final.Summary)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "*New: %d · Open: %d · Fixed: %d", len(in.newFindings), len(in.openFindings), in.fixedCount)
	if in.carriedOver > 0 {
		fmt.Fprintf(&sb, " · Carried over: %d", in.carriedOver)
	}
	sb.WriteString("*\n")

	if len(in.checks.Checks) > 0 {
		sb.WriteString("\n### Checks\n\n")
		for name, result := range in.checks.Checks {
			fmt.Fprintf(&sb, "- **%s**: %s — %s\n", name, result.Status, result.Summary)
		}
	}

	if len(in.warnings) > 0 {
		sb.WriteString("\n<details><summary>Warnings</summary>\n\n")
		for _, w := range in.warnings {
			fmt.Fprintf(&sb, "- %s\n", w)
		}
		sb.WriteString("\n</details>\n")
	}

	if in.final.DiagramMermaid != "" {
		sb.WriteString("\n<details><summary>Dependency graph</summary>\n\n```mermaid\n")
		sb.WriteString(in.final.DiagramMermaid)
		sb.WriteString("```\n\n</details>\n")
	}

	sb.WriteString("\n" + summaryMarkerEnd)
	return sb.String()
}

// upsertPRBodyBlock replaces any existing grepiku-summary block in body
// with rendered, or appends it when absent (the PR-body
// destination).
func upsertPRBodyBlock(body, rendered string) string {
	start := strings.Index(body, summaryMarkerStart)
	end := strings.Index(body, summaryMarkerEnd)
	if start >= 0 && end >= 0 && end > start {
		return body[:start] + rendered + body[end+len(summaryMarkerEnd):]
	}
	if strings.TrimSpace(body) == "" {
		return rendered
	}
	return body + "\n\n" + rendered
}
