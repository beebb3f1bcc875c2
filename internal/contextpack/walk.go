package contextpack

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/diffidx"
	"github.com/sevigo/grepiku/internal/graph"
)

// edgeTypeMultiplier is the per-edge-type decay applied to a traversed
// score. Containment edges barely decay (they're the same logical unit);
// dependency edges decay more; inferred dependency edges decay more than
// direct ones since they carry weaker provenance, and external_dep edges
// decay the most.
var edgeTypeMultiplier = map[core.GraphEdgeType]float64{
	core.EdgeDirContainsDir:    0.92,
	core.EdgeDirContainsFile:   0.92,
	core.EdgeModuleContains:    0.90,
	core.EdgeContainsSymbol:    0.95,
	core.EdgeSymbolContainsSym: 0.93,
	core.EdgeClassContainsSym:  0.93,
	core.EdgeFileDep:           0.80,
	core.EdgeFileDepInferred:   0.62,
	core.EdgeSymbolImportsFile: 0.78,
	core.EdgeModuleDep:         0.70,
	core.EdgeExternalDep:       0.40,
	core.EdgeExportsSymbol:     0.75,
	core.EdgeReferencesSymbol:  0.72,
}

const (
	directionBiasOutgoing = 1.0
	directionBiasIncoming = 0.98
)

var nodeBias = map[core.GraphNodeType]float64{
	core.NodeFile:      1.08,
	core.NodeSymbol:    0.95,
	core.NodeModule:    0.86,
	core.NodeDirectory: 0.80,
}

// localFanoutPerType caps how many outgoing candidates of one edge type a
// single node may expand.
const localFanoutPerType = 6

// globalFanoutFraction scales maxNodesVisited into a per-type global
// traversal budget.
const globalFanoutFraction = 0.12

// provenanceMaxHops bounds buildProvenanceTrace.
const provenanceMaxHops = 8

type walkNode struct {
	node  core.GraphNode
	score float64
	depth int
}

type walkState struct {
	nodes       []core.GraphNode
	byID        map[int64]*core.GraphNode
	outEdges    map[int64][]core.GraphEdge // node -> edges where it is From
	inEdges     map[int64][]core.GraphEdge // node -> edges where it is To
	bestScore   map[int64]float64
	bestDepth   map[int64]int
	parent      map[int64]int64
	parentEdge  map[int64]core.GraphEdge
	visitedIDs  map[int64]bool
	globalUsed  map[core.GraphEdgeType]int
	globalCap   int
}

// walkResult is the graph walk's raw output before fusion.
type walkResult struct {
	bestScore  map[int64]float64
	bestDepth  map[int64]int
	parent     map[int64]int64
	parentEdge map[int64]core.GraphEdge
	byID       map[int64]*core.GraphNode
	edges      []core.GraphEdge
	debug      GraphDebug
}

// walkGraph runs the best-first graph traversal from the seed set.
func walkGraph(ctx context.Context, store Store, repoID int64, idx *diffidx.Index, changedFiles []string, symbolsByFile map[string][]core.Symbol, cfg core.GraphTraversalConfig) (*walkResult, error) {
	nodes, err := store.ListGraphNodes(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("contextpack: list graph nodes: %w", err)
	}
	edges, err := store.ListGraphEdges(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("contextpack: list graph edges: %w", err)
	}

	ws := &walkState{
		nodes:      nodes,
		byID:       make(map[int64]*core.GraphNode, len(nodes)),
		outEdges:   make(map[int64][]core.GraphEdge),
		inEdges:    make(map[int64][]core.GraphEdge),
		bestScore:  make(map[int64]float64),
		bestDepth:  make(map[int64]int),
		parent:     make(map[int64]int64),
		parentEdge: make(map[int64]core.GraphEdge),
		visitedIDs: make(map[int64]bool),
		globalUsed: make(map[core.GraphEdgeType]int),
		globalCap:  maxInt(1, int(float64(cfg.MaxNodesVisited)*globalFanoutFraction)),
	}
	for i := range nodes {
		ws.byID[nodes[i].ID] = &nodes[i]
	}
	for _, e := range edges {
		ws.outEdges[e.FromNodeID] = append(ws.outEdges[e.FromNodeID], e)
		ws.inEdges[e.ToNodeID] = append(ws.inEdges[e.ToNodeID], e)
	}

	byPath := make(map[string]*core.GraphNode)
	for i := range nodes {
		if nodes[i].Type == core.NodeFile {
			byPath[nodes[i].Key] = &nodes[i]
		}
	}

	excluded := make(map[string]bool, len(cfg.ExcludeDirs))
	for _, d := range cfg.ExcludeDirs {
		excluded[strings.Trim(d, "/")] = true
	}

	queue := newFrontier()
	seedCount := 0
	for _, fp := range changedFiles {
		if isExcluded(fp, excluded) {
			continue
		}
		fn, ok := byPath[fp]
		if !ok {
			continue
		}
		if !ws.visitedIDs[fn.ID] {
			ws.bestScore[fn.ID] = 1
			ws.bestDepth[fn.ID] = 0
			queue.push(walkNode{node: *fn, score: 1, depth: 0})
			seedCount++
		}

		seeded := seedSymbols(ws, fn, fp, idx, symbolsByFile[fp], &queue)
		seedCount += seeded

		seedContainerChain(ws, fn, &queue, &seedCount)
	}

	visited := 0
	popped := 0
	for queue.len() > 0 && visited < cfg.MaxNodesVisited {
		cur := queue.pop()
		popped++
		if ws.visitedIDs[cur.node.ID] {
			continue
		}
		ws.visitedIDs[cur.node.ID] = true
		visited++

		if cur.depth >= cfg.MaxDepth {
			continue
		}

		candidates := expandCandidates(ws, cur)
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].rank > candidates[j].rank })

		localUsed := make(map[core.GraphEdgeType]int)
		for _, c := range candidates {
			if c.nextScore < cfg.MinScore {
				continue
			}
			if localUsed[c.edge.Type] >= localFanoutPerType {
				continue
			}
			if ws.globalUsed[c.edge.Type] >= ws.globalCap {
				continue
			}
			localUsed[c.edge.Type]++
			ws.globalUsed[c.edge.Type]++

			improved := false
			if prev, ok := ws.bestScore[c.to.ID]; !ok || c.nextScore > prev*1.05 {
				improved = true
			} else if d, ok := ws.bestDepth[c.to.ID]; ok && cur.depth+1 < d {
				improved = true
			}
			if improved {
				ws.bestScore[c.to.ID] = c.nextScore
				ws.bestDepth[c.to.ID] = cur.depth + 1
				ws.parent[c.to.ID] = cur.node.ID
				ws.parentEdge[c.to.ID] = c.edge
			}
			if !ws.visitedIDs[c.to.ID] {
				queue.push(walkNode{node: *c.to, score: c.nextScore, depth: cur.depth + 1})
			}
		}
	}

	return &walkResult{
		bestScore:  ws.bestScore,
		bestDepth:  ws.bestDepth,
		parent:     ws.parent,
		parentEdge: ws.parentEdge,
		byID:       ws.byID,
		edges:      edges,
		debug:      GraphDebug{VisitedNodes: visited, SeedCount: seedCount, FrontierPopped: popped},
	}, nil
}

type candidate struct {
	to    *core.GraphNode
	edge  core.GraphEdge
	nextScore float64
	rank  float64
}

// expandCandidates enumerates both directions of every edge touching cur's
// node, filtered by traversal direction policy, and scores each.
func expandCandidates(ws *walkState, cur walkNode) []candidate {
	var out []candidate
	for _, e := range ws.outEdges[cur.node.ID] {
		if !graph.CanTraverseDirection(e.Type, graph.DirectionOutgoing) {
			continue
		}
		to, ok := ws.byID[e.ToNodeID]
		if !ok {
			continue
		}
		out = append(out, scoreCandidate(cur, to, e, graph.DirectionOutgoing))
	}
	for _, e := range ws.inEdges[cur.node.ID] {
		if !graph.CanTraverseDirection(e.Type, graph.DirectionIncoming) {
			continue
		}
		from, ok := ws.byID[e.FromNodeID]
		if !ok {
			continue
		}
		out = append(out, scoreCandidate(cur, from, e, graph.DirectionIncoming))
	}
	return out
}

func scoreCandidate(cur walkNode, to *core.GraphNode, e core.GraphEdge, dir graph.Direction) candidate {
	mult := edgeTypeMultiplier[e.Type]
	if mult == 0 {
		mult = 0.5
	}
	weightBoost := math.Min(1.28, 1+math.Log10(float64(maxInt(1, e.Weight)))*0.22)
	nextScore := cur.score * mult * weightBoost

	dirBias := directionBiasOutgoing
	if dir == graph.DirectionIncoming {
		dirBias = directionBiasIncoming
	}
	nBias := nodeBias[to.Type]
	if nBias == 0 {
		nBias = 1.0
	}
	return candidate{to: to, edge: e, nextScore: nextScore, rank: nextScore * dirBias * nBias}
}

func isExcluded(p string, excluded map[string]bool) bool {
	for prefix := range excluded {
		if strings.HasPrefix(p, prefix+"/") || p == prefix {
			return true
		}
	}
	return false
}

// seedSymbols seeds every symbol whose span intersects a changed line in
// fp's hunks, or up to two smallest-span symbols if no lines changed but
// symbols exist.
func seedSymbols(ws *walkState, fn *core.GraphNode, fp string, idx *diffidx.Index, symbols []core.Symbol, queue *frontier) int {
	changedLines := map[int]bool{}
	if idx != nil {
		for _, h := range idx.Hunks(fp) {
			for _, dl := range h.Lines {
				if dl.Kind == diffidx.LineAdded && dl.NewLine > 0 {
					changedLines[dl.NewLine] = true
				}
				if dl.Kind == diffidx.LineRemoved && dl.OldLine > 0 {
					changedLines[dl.OldLine] = true
				}
			}
		}
	}

	var toSeed []core.Symbol
	for _, s := range symbols {
		for line := range changedLines {
			if line >= s.StartLine && line <= s.EndLine {
				toSeed = append(toSeed, s)
				break
			}
		}
	}
	if len(toSeed) == 0 && len(changedLines) == 0 && len(symbols) > 0 {
		sorted := append([]core.Symbol(nil), symbols...)
		sort.Slice(sorted, func(i, j int) bool {
			return (sorted[i].EndLine - sorted[i].StartLine) < (sorted[j].EndLine - sorted[j].StartLine)
		})
		if len(sorted) > 2 {
			sorted = sorted[:2]
		}
		toSeed = sorted
	}

	seeded := 0
	for _, s := range toSeed {
		key := fmt.Sprintf("symbol:%s#%s@%d-%d", fp, s.Name, s.StartLine, s.EndLine)
		for i := range ws.nodes {
			if ws.nodes[i].Type == core.NodeSymbol && ws.nodes[i].Key == key && !ws.visitedIDs[ws.nodes[i].ID] {
				ws.bestScore[ws.nodes[i].ID] = 1
				ws.bestDepth[ws.nodes[i].ID] = 0
				queue.push(walkNode{node: ws.nodes[i], score: 1, depth: 0})
				seeded++
				break
			}
		}
	}
	return seeded
}

// seedContainerChain seeds the directory chain and module node containing fn.
func seedContainerChain(ws *walkState, fn *core.GraphNode, queue *frontier, seedCount *int) {
	pending := []int64{fn.ID}
	for len(pending) > 0 {
		childID := pending[0]
		pending = pending[1:]
		for _, e := range ws.inEdges[childID] {
			if e.Type != core.EdgeDirContainsFile && e.Type != core.EdgeDirContainsDir && e.Type != core.EdgeModuleContains {
				continue
			}
			from, ok := ws.byID[e.FromNodeID]
			if !ok || ws.visitedIDs[from.ID] {
				continue
			}
			if _, already := ws.bestScore[from.ID]; already {
				continue
			}
			ws.bestScore[from.ID] = 1
			ws.bestDepth[from.ID] = 0
			queue.push(walkNode{node: *from, score: 1, depth: 0})
			*seedCount++
			pending = append(pending, from.ID)
		}
	}
}

// buildProvenanceTrace walks parent pointers up to provenanceMaxHops and
// emits "<label> --edgeType--> <label>" strings.
func buildProvenanceTrace(wr *walkResult, nodeID int64) string {
	type hop struct {
		from, to string
		edge     core.GraphEdgeType
	}
	var hops []hop
	cur := nodeID
	for i := 0; i < provenanceMaxHops; i++ {
		parentID, ok := wr.parent[cur]
		if !ok {
			break
		}
		edge := wr.parentEdge[cur]
		parentNode := wr.byID[parentID]
		curNode := wr.byID[cur]
		if parentNode == nil || curNode == nil {
			break
		}
		hops = append(hops, hop{from: nodeLabel(*parentNode), to: nodeLabel(*curNode), edge: edge.Type})
		cur = parentID
	}
	// Reverse so the trace reads root -> target.
	var b strings.Builder
	for i := len(hops) - 1; i >= 0; i-- {
		h := hops[i]
		b.WriteString(h.from)
		b.WriteString(" --")
		b.WriteString(string(h.edge))
		b.WriteString("--> ")
		b.WriteString(h.to)
		if i > 0 {
			b.WriteString(" | ")
		}
	}
	return b.String()
}

func nodeLabel(n core.GraphNode) string {
	return n.Key
}
