package contextpack

import "fmt"

const maxReviewFocusItems = 14

// churn thresholds classify a changed file's additions+deletions into the
// high/medium buckets review-focus hints surface.
const (
	highChurnLines   = 200
	mediumChurnLines = 50
)

// buildReviewFocus composes deduped, human-readable hints from churn,
// hotspots, top cross-file links, and graph provenance,
// capped at 14 items.
func buildReviewFocus(stats []ChangedFileStat, hotspots []Hotspot, links []GraphLink, wr *walkResult, relatedPaths []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) bool {
		if s == "" || seen[s] {
			return false
		}
		seen[s] = true
		out = append(out, s)
		return len(out) < maxReviewFocusItems
	}

	for _, s := range stats {
		churn := s.Additions + s.Deletions
		switch {
		case churn >= highChurnLines:
			if !add(fmt.Sprintf("%s has high churn (+%d/-%d)", s.Path, s.Additions, s.Deletions)) {
				return out
			}
		case churn >= mediumChurnLines:
			if !add(fmt.Sprintf("%s has medium churn (+%d/-%d)", s.Path, s.Additions, s.Deletions)) {
				return out
			}
		}
	}

	for _, h := range hotspots {
		if h.OpenFindings == 0 {
			continue
		}
		if !add(fmt.Sprintf("%s has %d open finding(s) from prior reviews", h.Path, h.OpenFindings)) {
			return out
		}
	}

	topLinks := links
	if len(topLinks) > 10 {
		topLinks = topLinks[:10]
	}
	for _, l := range topLinks {
		if !add(fmt.Sprintf("%s depends on %s", l.From, l.To)) {
			return out
		}
	}

	traces := 0
	for _, p := range relatedPaths {
		if traces >= 4 {
			break
		}
		id, ok := findFileNodeID(wr, p)
		if !ok {
			continue
		}
		trace := buildProvenanceTrace(wr, id)
		if trace == "" {
			continue
		}
		traces++
		if !add(trace) {
			return out
		}
	}

	return out
}

func findFileNodeID(wr *walkResult, p string) (int64, bool) {
	for id, n := range wr.byID {
		if n.Key == p {
			return id, true
		}
	}
	return 0, false
}
