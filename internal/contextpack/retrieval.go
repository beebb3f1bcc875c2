package contextpack

import (
	"context"
	"fmt"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
)

const maxEmbeddingsFetched = 80000
const embeddingPageSize = 2000
const maxTextPreviewBytes = 2200

// scoredEmbedding is one embedding plus its resolved path/symbol and
// intermediate scoring components, kept around for the final weighted sum
// and for building a RetrievedItem.
type scoredEmbedding struct {
	emb      core.Embedding
	path     string
	symbol   string
	semantic float64
	lexical  float64
	rrf      float64
	final    float64
}

// retrieve runs the full hybrid retrieval procedure and returns the
// selected, score-sorted item list.
func retrieve(ctx context.Context, store Store, embedder Embedder, repoID int64, query string, changed map[string]bool, cfg core.RetrievalConfig) ([]RetrievedItem, error) {
	files, err := store.ListFiles(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("contextpack: list files: %w", err)
	}
	fileByID := make(map[int64]core.FileIndex, len(files))
	for _, f := range files {
		fileByID[f.ID] = f
	}

	symbols, err := store.ListSymbols(ctx, repoID)
	if err != nil {
		return nil, fmt.Errorf("contextpack: list symbols: %w", err)
	}
	symByID := make(map[int64]core.Symbol, len(symbols))
	for _, s := range symbols {
		symByID[s.ID] = s
	}

	vecs, err := embedder.EmbedDocuments(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("contextpack: embed query: %w", err)
	}
	var queryVec []float32
	if len(vecs) > 0 {
		queryVec = vecs[0]
	}
	queryTokens := tokenSetOf(query)
	pathLikeTokens := pathLikeTokensOf(query)

	var scored []*scoredEmbedding
	var beforeID int64
	for fetched := 0; fetched < maxEmbeddingsFetched; {
		page, err := store.ListEmbeddingsPage(ctx, repoID, beforeID, embeddingPageSize)
		if err != nil {
			return nil, fmt.Errorf("contextpack: list embeddings page: %w", err)
		}
		if len(page) == 0 {
			break
		}
		for _, e := range page {
			f, ok := fileByID[e.FileID]
			if !ok {
				continue
			}
			symName := ""
			if e.SymbolID != nil {
				if s, ok := symByID[*e.SymbolID]; ok {
					symName = s.Name
				}
			}
			se := &scoredEmbedding{emb: e, path: f.Path, symbol: symName}
			se.semantic = cosineNormalized(queryVec, e.Vector)
			se.lexical = lexicalOverlap(queryTokens, lexicalCorpus(f.Path, symName, e.Text))
			scored = append(scored, se)
			beforeID = e.ID
		}
		fetched += len(page)
		if len(page) < embeddingPageSize {
			break
		}
	}

	semRank := rankIndex(scored, func(s *scoredEmbedding) float64 { return s.semantic })
	lexRank := rankIndex(scored, func(s *scoredEmbedding) float64 { return s.lexical })

	changedDirs := make(map[string]bool, len(changed))
	for p := range changed {
		changedDirs[path.Dir(p)] = true
	}

	for i, se := range scored {
		se.rrf = rrfScore(semRank[se], lexRank[se])
		pathBoost := pathBoostFor(se.path, changed, changedDirs, pathLikeTokens, cfg)
		kindBoost := kindBoostFor(se.emb.Kind, cfg)
		patternBoost := 0.0
		if f, ok := fileByID[se.emb.FileID]; ok && f.IsPattern {
			patternBoost = cfg.PatternBoost
		}
		se.final = cfg.SemanticWeight*se.semantic + cfg.LexicalWeight*se.lexical +
			cfg.RRFWeight*se.rrf + pathBoost + kindBoost + patternBoost
		scored[i] = se
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].final > scored[j].final })

	return selectTopK(scored, changed, cfg), nil
}

// lexicalCorpus builds the comparison text for lexical overlap: path,
// normalized path (no extension, separators as spaces), symbol name, and
// the first 2.2 KiB of the embedding's text.
func lexicalCorpus(filePath, symbol, text string) string {
	normalized := strings.NewReplacer("/", " ", "_", " ", "-", " ", ".", " ").Replace(filePath)
	preview := text
	if len(preview) > maxTextPreviewBytes {
		preview = preview[:maxTextPreviewBytes]
	}
	return filePath + " " + normalized + " " + symbol + " " + preview
}

func pathLikeTokensOf(query string) []string {
	var out []string
	for _, f := range strings.Fields(query) {
		if strings.ContainsAny(f, "/.") {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// pathBoostFor computes the path proximity boost: changedPathBoost if the
// file itself changed, else sameDirectoryBoost if it shares a parent
// directory with a changed file, plus a one-time +0.04 if a path-like query
// token appears in the file's path.
func pathBoostFor(filePath string, changed, changedDirs map[string]bool, pathLikeTokens []string, cfg core.RetrievalConfig) float64 {
	var boost float64
	switch {
	case changed[filePath]:
		boost += cfg.ChangedPathBoost
	case changedDirs[path.Dir(filePath)]:
		boost += cfg.SameDirectoryBoost
	}
	for _, t := range pathLikeTokens {
		if strings.Contains(strings.ToLower(filePath), t) {
			boost += 0.04
			break
		}
	}
	return boost
}

func kindBoostFor(kind core.EmbeddingKind, cfg core.RetrievalConfig) float64 {
	switch kind {
	case core.EmbeddingSymbol:
		return cfg.SymbolBoost
	case core.EmbeddingChunk:
		return cfg.ChunkBoost
	}
	return 0
}

// rankIndex returns each item's 1-based rank (descending by key) in a map
// keyed by pointer identity.
func rankIndex(scored []*scoredEmbedding, key func(*scoredEmbedding) float64) map[*scoredEmbedding]int {
	ordered := make([]*scoredEmbedding, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool { return key(ordered[i]) > key(ordered[j]) })
	ranks := make(map[*scoredEmbedding]int, len(ordered))
	for i, s := range ordered {
		if key(s) <= 0 {
			continue
		}
		ranks[s] = i + 1
	}
	return ranks
}

// selectTopK runs the final selection: anchor slots filled with the
// single best item per changed path, then greedy by score subject to
// maxPerPath, with overflow used only if topK remains unfilled.
func selectTopK(scored []*scoredEmbedding, changed map[string]bool, cfg core.RetrievalConfig) []RetrievedItem {
	anchorSlots := maxInt(2, ceilDiv(cfg.TopK, 3))

	bestPerChangedPath := make(map[string]*scoredEmbedding)
	for _, s := range scored {
		if !changed[s.path] {
			continue
		}
		if cur, ok := bestPerChangedPath[s.path]; !ok || s.final > cur.final {
			bestPerChangedPath[s.path] = s
		}
	}
	var anchorPaths []string
	for p := range bestPerChangedPath {
		anchorPaths = append(anchorPaths, p)
	}
	sort.Slice(anchorPaths, func(i, j int) bool {
		return bestPerChangedPath[anchorPaths[i]].final > bestPerChangedPath[anchorPaths[j]].final
	})
	if len(anchorPaths) > anchorSlots {
		anchorPaths = anchorPaths[:anchorSlots]
	}

	used := make(map[*scoredEmbedding]bool)
	perPathCount := make(map[string]int)
	var out []*scoredEmbedding
	for _, p := range anchorPaths {
		se := bestPerChangedPath[p]
		out = append(out, se)
		used[se] = true
		perPathCount[se.path]++
	}

	for _, s := range scored {
		if len(out) >= cfg.TopK {
			break
		}
		if used[s] {
			continue
		}
		if perPathCount[s.path] >= maxInt(1, cfg.MaxPerPath) {
			continue
		}
		out = append(out, s)
		used[s] = true
		perPathCount[s.path]++
	}

	// Overflow pass: only runs if topK is still unfilled, ignoring maxPerPath.
	if len(out) < cfg.TopK {
		for _, s := range scored {
			if len(out) >= cfg.TopK {
				break
			}
			if used[s] {
				continue
			}
			out = append(out, s)
			used[s] = true
		}
	}

	items := make([]RetrievedItem, 0, len(out))
	for _, s := range out {
		items = append(items, RetrievedItem{
			Path:       s.path,
			Kind:       s.emb.Kind,
			SymbolName: s.symbol,
			StartLine:  s.emb.StartLine,
			EndLine:    s.emb.EndLine,
			Text:       s.emb.Text,
			Score:      s.final,
			Semantic:   s.semantic,
			Lexical:    s.lexical,
			RRF:        s.rrf,
		})
	}
	return items
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return int(math.Ceil(float64(a) / float64(b)))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
