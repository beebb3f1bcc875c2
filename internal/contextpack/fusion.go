package contextpack

import (
	"context"
	"fmt"
	"path"
	"sort"

	"github.com/sevigo/grepiku/internal/core"
)

const maxHotspotPaths = 120

// hotspotBonus/sameDirBonus magnitudes are implementation-defined helpers
//.
const (
	hotspotBonusPerOpenFinding = 0.03
	hotspotBonusCap            = 0.12
	sameDirBonusValue          = 0.05
)

const (
	minCombinedScore = 0.045
	graphOnlyMaxDepthWithoutHotspot = 4
	graphOnlyMinScoreWithoutHotspot = 0.16
)

// buildHotspots groups prior findings by path over changedPaths ∪
// candidatePaths, carrying open/historical counts and the top two categories
// per path. Every changed path is included; candidate paths are added only
// while the list holds fewer than 120 paths.
func buildHotspots(ctx context.Context, store Store, repoID int64, changedPaths, candidatePaths []string) ([]Hotspot, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, p := range changedPaths {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, p := range candidatePaths {
		if len(paths) >= maxHotspotPaths {
			break
		}
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	findings, err := store.ListFindingsForPaths(ctx, repoID, paths)
	if err != nil {
		return nil, fmt.Errorf("contextpack: list findings for hotspots: %w", err)
	}

	type agg struct {
		open       int
		historical int
		categories map[core.Category]int
	}
	byPath := make(map[string]*agg)
	for _, f := range findings {
		a, ok := byPath[f.Path]
		if !ok {
			a = &agg{categories: make(map[core.Category]int)}
			byPath[f.Path] = a
		}
		a.historical++
		if f.Status == core.FindingOpen {
			a.open++
		}
		a.categories[f.Category]++
	}

	var out []Hotspot
	for p, a := range byPath {
		out = append(out, Hotspot{
			Path:               p,
			OpenFindings:       a.open,
			HistoricalFindings: a.historical,
			TopCategories:      topCategories(a.categories, 2),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func topCategories(counts map[core.Category]int, n int) []string {
	type kv struct {
		cat   core.Category
		count int
	}
	var kvs []kv
	for c, n := range counts {
		kvs = append(kvs, kv{c, n})
	}
	sort.Slice(kvs, func(i, j int) bool { return kvs[i].count > kvs[j].count })
	if len(kvs) > n {
		kvs = kvs[:n]
	}
	out := make([]string, 0, len(kvs))
	for _, k := range kvs {
		out = append(out, string(k.cat))
	}
	return out
}

// depthBonus implements the clipped depth-bonus term.
func depthBonus(depth int) float64 {
	switch {
	case depth <= 1:
		return 0.08
	case depth == 2:
		return 0.04
	case depth == 3:
		return 0
	default:
		v := -0.06 * float64(depth-3)
		if v < -0.3 {
			v = -0.3
		}
		return v
	}
}

// fuseCandidates computes the combined score per candidate path, drops
// low-signal graph-only candidates, hard-includes the strongest graph
// candidates, and fills remaining slots greedily.
func fuseCandidates(wr *walkResult, retrieved []RetrievedItem, hotspotsByPath map[string]Hotspot, changed map[string]bool, cfg core.GraphTraversalConfig) []RelatedFile {
	retrievalScoreByPath := make(map[string]float64)
	for _, r := range retrieved {
		if r.Score > retrievalScoreByPath[r.Path] {
			retrievalScoreByPath[r.Path] = r.Score
		}
	}
	var maxRetrieval float64
	for _, v := range retrievalScoreByPath {
		if v > maxRetrieval {
			maxRetrieval = v
		}
	}
	if maxRetrieval == 0 {
		maxRetrieval = 1
	}

	changedDirs := make(map[string]bool, len(changed))
	for p := range changed {
		changedDirs[path.Dir(p)] = true
	}

	type scoredPath struct {
		path     string
		combined float64
		graph    float64
		depth    int
		hardOK   bool
	}
	var candidates []scoredPath

	for id, score := range wr.bestScore {
		n, ok := wr.byID[id]
		if !ok || n.Type != core.NodeFile || changed[n.Key] {
			continue
		}
		depth := wr.bestDepth[id]
		retrievalScore := retrievalScoreByPath[n.Key]
		hs, hasHotspot := hotspotsByPath[n.Key]

		hBonus := 0.0
		if hasHotspot && hs.OpenFindings > 0 {
			hBonus = float64(hs.OpenFindings) * hotspotBonusPerOpenFinding
			if hBonus > hotspotBonusCap {
				hBonus = hotspotBonusCap
			}
		}
		dirBonus := 0.0
		if changedDirs[path.Dir(n.Key)] {
			dirBonus = sameDirBonusValue
		}

		combined := 0.46*score + 0.40*(retrievalScore/maxRetrieval) + hBonus + dirBonus + depthBonus(depth)

		if retrievalScore == 0 {
			// Graph-only candidate: drop unless shallow/strong or hotspot-backed.
			if depth > graphOnlyMaxDepthWithoutHotspot || score < graphOnlyMinScoreWithoutHotspot {
				if hBonus == 0 {
					continue
				}
			}
		}
		if combined < minCombinedScore {
			continue
		}

		hardOK := depth <= 2 || score >= 0.42
		candidates = append(candidates, scoredPath{path: n.Key, combined: combined, graph: score, depth: depth, hardOK: hardOK})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].combined > candidates[j].combined })

	maxRelated := cfg.MaxRelatedFiles
	if len(changed) <= 5 && maxRelated > 10 {
		maxRelated = maxRelated * 2 / 3
	}
	hardIncludeBudget := minInt(cfg.HardIncludeFiles, maxRelated/3)

	included := make(map[string]bool)
	var out []RelatedFile

	hardCount := 0
	for _, c := range candidates {
		if hardCount >= hardIncludeBudget {
			break
		}
		if !c.hardOK {
			continue
		}
		out = append(out, relatedFileFrom(c.path, c.combined, c.graph, retrievalScoreByPath[c.path], c.depth, true))
		included[c.path] = true
		hardCount++
	}

	for _, c := range candidates {
		if len(out) >= maxRelated {
			break
		}
		if included[c.path] {
			continue
		}
		out = append(out, relatedFileFrom(c.path, c.combined, c.graph, retrievalScoreByPath[c.path], c.depth, false))
		included[c.path] = true
	}

	return out
}

func relatedFileFrom(p string, combined, graphScore, retrievalScore float64, depth int, hardIncluded bool) RelatedFile {
	return RelatedFile{
		Path:           p,
		CombinedScore:  combined,
		GraphScore:     graphScore,
		RetrievalScore: retrievalScore,
		Depth:          depth,
		HardIncluded:   hardIncluded,
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// buildGraphLinks collects file_dep*-family edges between any two reached
// nodes (or among changed files), deduped keeping the higher-scored
// direction.
func buildGraphLinks(wr *walkResult, edges []core.GraphEdge, changed map[string]bool, maxLinks int) []GraphLink {
	type key struct{ a, b string }
	best := make(map[key]GraphLink)

	reached := func(id int64) bool {
		_, ok := wr.bestScore[id]
		return ok
	}

	for _, e := range edges {
		if !isFileDepFamily(e.Type) {
			continue
		}
		from, fromOK := wr.byID[e.FromNodeID]
		to, toOK := wr.byID[e.ToNodeID]
		if !fromOK || !toOK || from.Type != core.NodeFile || to.Type != core.NodeFile {
			continue
		}
		fromReached := reached(e.FromNodeID) || changed[from.Key]
		toReached := reached(e.ToNodeID) || changed[to.Key]
		if !fromReached || !toReached {
			continue
		}

		score := wr.bestScore[e.ToNodeID]
		if s := wr.bestScore[e.FromNodeID]; s > score {
			score = s
		}

		a, b := from.Key, to.Key
		if a > b {
			a, b = b, a
		}
		k := key{a, b}
		link := GraphLink{From: from.Key, To: to.Key, Type: string(e.Type), Weight: e.Weight, Score: score}
		if cur, ok := best[k]; !ok || link.Score > cur.Score {
			best[k] = link
		}
	}

	var out []GraphLink
	for _, l := range best {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxLinks {
		out = out[:maxLinks]
	}
	return out
}

func isFileDepFamily(t core.GraphEdgeType) bool {
	switch t {
	case core.EdgeFileDep, core.EdgeFileDepInferred:
		return true
	}
	return false
}
