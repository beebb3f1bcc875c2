package contextpack

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/diffidx"
)

// Builder assembles one Pack per call; it holds no per-run state.
type Builder struct {
	store    Store
	embedder Embedder
	logger   *slog.Logger
}

// New constructs a Builder.
func New(store Store, embedder Embedder, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: store, embedder: embedder, logger: logger}
}

// Build runs the full assembly procedure: hybrid retrieval, graph walk, and
// fusion, returning the assembled Pack.
func (b *Builder) Build(ctx context.Context, repoID int64, in Input) (*Pack, error) {
	idx, err := diffidx.Parse(in.Patch)
	if err != nil {
		return nil, fmt.Errorf("contextpack: parse patch: %w", err)
	}

	changedPaths := make([]string, 0, len(in.ChangedFiles))
	changed := make(map[string]bool, len(in.ChangedFiles))
	stats := make([]ChangedFileStat, 0, len(in.ChangedFiles))
	for _, cf := range in.ChangedFiles {
		changedPaths = append(changedPaths, cf.Path)
		changed[cf.Path] = true
		stats = append(stats, ChangedFileStat{Path: cf.Path, Additions: cf.Additions, Deletions: cf.Deletions})
	}

	query := composeQuery(in.PRTitle, in.PRBody, changedPaths, idx)

	retrieved, err := retrieve(ctx, b.store, b.embedder, repoID, query, changed, in.Retrieval)
	if err != nil {
		return nil, err
	}

	files, err := b.store.ListFiles(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("contextpack: list files: %w", err)
	}
	pathByFileID := make(map[int64]string, len(files))
	for _, f := range files {
		pathByFileID[f.ID] = f.Path
	}
	symbols, err := b.store.ListSymbols(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("contextpack: list symbols: %w", err)
	}
	symbolsByFile := make(map[string][]core.Symbol)
	for _, s := range symbols {
		if p, ok := pathByFileID[s.FileID]; ok {
			symbolsByFile[p] = append(symbolsByFile[p], s)
		}
	}

	wr, err := walkGraph(ctx, b.store, repoID, idx, changedPaths, symbolsByFile, in.Graph)
	if err != nil {
		return nil, err
	}

	var candidatePaths []string
	for id, score := range wr.bestScore {
		if score <= 0 {
			continue
		}
		if n, ok := wr.byID[id]; ok && n.Type == core.NodeFile && !changed[n.Key] {
			candidatePaths = append(candidatePaths, n.Key)
		}
	}

	hotspots, err := buildHotspots(ctx, b.store, repoID, changedPaths, candidatePaths)
	if err != nil {
		return nil, err
	}
	hotspotsByPath := make(map[string]Hotspot, len(hotspots))
	for _, h := range hotspots {
		hotspotsByPath[h.Path] = h
	}

	relatedFiles := fuseCandidates(wr, retrieved, hotspotsByPath, changed, in.Graph)
	for i := range relatedFiles {
		if h, ok := hotspotsByPath[relatedFiles[i].Path]; ok {
			relatedFiles[i].OpenFindings = h.OpenFindings
			relatedFiles[i].TopCategories = h.TopCategories
		}
	}
	sort.Slice(relatedFiles, func(i, j int) bool { return relatedFiles[i].CombinedScore > relatedFiles[j].CombinedScore })

	graphLinks := buildGraphLinks(wr, wr.edges, changed, in.Graph.MaxGraphLinks)

	relatedPaths := make([]string, 0, len(relatedFiles))
	for _, rf := range relatedFiles {
		relatedPaths = append(relatedPaths, rf.Path)
	}
	var graphPaths []string
	for _, p := range relatedPaths {
		if id, ok := findFileNodeID(wr, p); ok {
			if trace := buildProvenanceTrace(wr, id); trace != "" {
				graphPaths = append(graphPaths, trace)
			}
		}
	}

	reviewFocus := buildReviewFocus(stats, hotspots, graphLinks, wr, relatedPaths)

	return &Pack{
		Query:            query,
		Retrieved:        retrieved,
		RelatedFiles:     relatedFiles,
		ChangedFileStats: stats,
		GraphLinks:       graphLinks,
		GraphPaths:       graphPaths,
		GraphDebug:       wr.debug,
		Hotspots:         hotspots,
		ReviewFocus:      reviewFocus,
	}, nil
}
