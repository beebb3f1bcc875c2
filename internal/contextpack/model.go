// Package contextpack assembles the evidence bundle (retrieved chunks,
// related files, graph links/paths, hotspots, review-focus hints) handed to
// the reviewer stage.
package contextpack

import "github.com/sevigo/grepiku/internal/core"

// RetrievedItem is one scored hit from hybrid retrieval.
type RetrievedItem struct {
	Path       string             `json:"path"`
	Kind       core.EmbeddingKind `json:"kind"`
	SymbolName string             `json:"symbol_name,omitempty"`
	StartLine  int                `json:"start_line,omitempty"`
	EndLine    int                `json:"end_line,omitempty"`
	Text       string             `json:"text"`
	Score      float64            `json:"score"`
	Semantic   float64            `json:"semantic"`
	Lexical    float64            `json:"lexical"`
	RRF        float64            `json:"rrf"`
}

// ChangedFileStat is one changed file's churn summary.
type ChangedFileStat struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// RelatedFile is a file surfaced by the graph walk or retrieval fusion but
// not itself part of the diff.
type RelatedFile struct {
	Path            string   `json:"path"`
	CombinedScore   float64  `json:"combined_score"`
	GraphScore      float64  `json:"graph_score"`
	RetrievalScore  float64  `json:"retrieval_score"`
	Depth           int      `json:"depth"`
	HardIncluded    bool     `json:"hard_included"`
	OpenFindings    int      `json:"open_findings"`
	TopCategories   []string `json:"top_categories,omitempty"`
}

// GraphLink is one file_dep*-family edge surfaced between two reached
// nodes, deduped keeping the higher-scored direction.
type GraphLink struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Type   string  `json:"type"`
	Weight int     `json:"weight"`
	Score  float64 `json:"score"`
}

// Hotspot is a file's historical finding density summary.
type Hotspot struct {
	Path               string   `json:"path"`
	OpenFindings       int      `json:"open_findings"`
	HistoricalFindings int      `json:"historical_findings"`
	TopCategories      []string `json:"top_categories,omitempty"`
}

// Pack is the full assembled context handed to the reviewer/editor/coverage
// stages.
type Pack struct {
	Query            string            `json:"query"`
	Retrieved        []RetrievedItem   `json:"retrieved"`
	RelatedFiles     []RelatedFile     `json:"related_files"`
	ChangedFileStats []ChangedFileStat `json:"changed_file_stats"`
	GraphLinks       []GraphLink       `json:"graph_links"`
	GraphPaths       []string          `json:"graph_paths"`
	GraphDebug       GraphDebug        `json:"graph_debug"`
	Hotspots         []Hotspot         `json:"hotspots"`
	ReviewFocus      []string          `json:"review_focus"`
}

// GraphDebug captures the walk's bookkeeping counters, surfaced so an
// operator can tell why a file was or was not included.
type GraphDebug struct {
	VisitedNodes   int `json:"visited_nodes"`
	SeedCount      int `json:"seed_count"`
	FrontierPopped int `json:"frontier_popped"`
}

// ChangedFile is one file touched by the PR's diff, as supplied by the
// caller (the orchestrator, which already has the forge's file-list API
// response).
type ChangedFile struct {
	Path      string
	Additions int
	Deletions int
}

// Input is everything the builder needs to assemble one Pack.
type Input struct {
	RepoID       int64
	Patch        string
	ChangedFiles []ChangedFile
	PRTitle      string
	PRBody       string
	Retrieval    core.RetrievalConfig
	Graph        core.GraphTraversalConfig
}
