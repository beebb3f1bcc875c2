package orchestrator

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
)

// refineFindings applies the quality-gate pipeline in order.
// It mutates nothing in place; each sub-step returns a fresh slice so the
// pipeline reads top-to-bottom as an ordered sequence of gates.
func refineFindings(comments []core.DraftComment, strictness string, feedback map[core.Category]FeedbackCounts, changedFileCount, maxInlineComments int, summaryOnly bool) []core.DraftComment {
	comments = unescapeTextFields(comments)
	comments = dropEmptyEvidence(comments)
	comments = downgradeBlockingWithoutPatch(comments)
	comments = dedupeOverlapping(comments)
	comments = convertOffDiffToSummary(comments)
	comments = applyStrictnessAndFeedback(comments, strictness, feedback)
	comments = enforcePerFileCap(comments, changedFileCount, maxInlineComments, summaryOnly)
	return comments
}

// 1. Unescape \n in text fields a model emitted as a literal two-character
// escape instead of an actual newline.
func unescapeTextFields(in []core.DraftComment) []core.DraftComment {
	out := make([]core.DraftComment, len(in))
	for i, c := range in {
		c.Body = strings.ReplaceAll(c.Body, `\n`, "\n")
		c.Evidence = strings.ReplaceAll(c.Evidence, `\n`, "\n")
		out[i] = c
	}
	return out
}

// 2. Drop comments whose evidence is empty or a quoted empty string.
func dropEmptyEvidence(in []core.DraftComment) []core.DraftComment {
	var out []core.DraftComment
	for _, c := range in {
		ev := strings.TrimSpace(c.Evidence)
		if ev == "" || ev == `""` || ev == "''" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// 3. A blocking finding with no suggested fix reads as an unsubstantiated
// demand; downgrade it to important.
func downgradeBlockingWithoutPatch(in []core.DraftComment) []core.DraftComment {
	out := make([]core.DraftComment, len(in))
	for i, c := range in {
		if c.Severity == core.SeverityBlocking && strings.TrimSpace(c.SuggestedPatch) == "" {
			c.Severity = core.SeverityImportant
		}
		out[i] = c
	}
	return out
}

// 4. Deduplicate findings that land on the same (path, side, line) with a
// near-identical title, keeping the first (assumed higher-priority) one.
func dedupeOverlapping(in []core.DraftComment) []core.DraftComment {
	seen := make(map[string]bool, len(in))
	var out []core.DraftComment
	for _, c := range in {
		key := c.Path + "|" + string(c.Side) + "|" + strconv.Itoa(c.Line) + "|" + normalizedTitle(c.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func normalizedTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// 5. Default an empty CommentType to inline. This step does not consult the
// diff: an inline finding on a line outside the diff keeps its inline type.
func convertOffDiffToSummary(in []core.DraftComment) []core.DraftComment {
	out := make([]core.DraftComment, len(in))
	for i, c := range in {
		if c.CommentType == "" {
			c.CommentType = core.CommentInline
		}
		out[i] = c
	}
	return out
}

// 6. Strictness filter: high drops nits and low-confidence findings, medium
// drops nit+low-confidence only for categories with a history of rejection.
// Feedback policy narrows often-rejected categories to blocking/high-
// confidence only, regardless of strictness.
func applyStrictnessAndFeedback(in []core.DraftComment, strictness string, feedback map[core.Category]FeedbackCounts) []core.DraftComment {
	var out []core.DraftComment
	for _, c := range in {
		if oftenRejected(feedback, c.Category) && c.Severity != core.SeverityBlocking && c.Confidence != core.ConfidenceHigh {
			continue
		}
		switch strictness {
		case "high":
			if c.Severity == core.SeverityNit || c.Confidence == core.ConfidenceLow {
				continue
			}
		case "medium":
			if (c.Severity == core.SeverityNit || c.Confidence == core.ConfidenceLow) && oftenRejected(feedback, c.Category) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func oftenRejected(feedback map[core.Category]FeedbackCounts, cat core.Category) bool {
	fc, ok := feedback[cat]
	if !ok {
		return false
	}
	total := fc.Accepted + fc.Rejected
	return total >= 3 && fc.Rejected > fc.Accepted
}

// 7. Enforce a per-file inline cap of ⌊max_inline / ⌈√changed_files⌉⌋,
// dropping (or demoting to summary, in summary-only mode) the lowest
// severity/confidence surplus per file first.
func enforcePerFileCap(in []core.DraftComment, changedFileCount, maxInlineComments int, summaryOnly bool) []core.DraftComment {
	if changedFileCount <= 0 {
		changedFileCount = 1
	}
	denom := int(math.Ceil(math.Sqrt(float64(changedFileCount))))
	if denom < 1 {
		denom = 1
	}
	limit := maxInlineComments / denom
	if limit < 1 {
		limit = 1
	}

	byPath := make(map[string][]core.DraftComment)
	var order []string
	for _, c := range in {
		if _, ok := byPath[c.Path]; !ok {
			order = append(order, c.Path)
		}
		byPath[c.Path] = append(byPath[c.Path], c)
	}

	var out []core.DraftComment
	for _, path := range order {
		group := byPath[path]
		sort.SliceStable(group, func(i, j int) bool {
			return severityRank(group[i]) > severityRank(group[j])
		})
		for i, c := range group {
			if i < limit {
				out = append(out, c)
				continue
			}
			if summaryOnly {
				c.CommentType = core.CommentSummary
				out = append(out, c)
			}
		}
	}
	return out
}

func severityRank(c core.DraftComment) int {
	score := 0
	switch c.Severity {
	case core.SeverityBlocking:
		score += 300
	case core.SeverityImportant:
		score += 200
	case core.SeverityNit:
		score += 100
	}
	switch c.Confidence {
	case core.ConfidenceHigh:
		score += 3
	case core.ConfidenceMedium:
		score += 2
	case core.ConfidenceLow:
		score += 1
	}
	return score
}
