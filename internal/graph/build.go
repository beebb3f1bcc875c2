// Package graph builds the repo-wide code graph consumed by the
// context-pack builder's graph walk, derived from the indexer's output.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
)

// maxExportMatches is how many local symbols with a matching normalized
// export name receive an exports_symbol edge.
const maxExportMatches = 5

// maxCallCandidates bounds how many same-named symbols a call reference may
// match before it is treated as too ambiguous to resolve.
const maxCallCandidates = 3

// inferredPromotionThreshold is the weight at which a file_dep_inferred edge
// additionally gets a parallel file_dep edge.
const inferredPromotionThreshold = 2

// Builder constructs the code graph for one repository.
type Builder struct {
	store  Store
	logger *slog.Logger
}

// New constructs a Builder.
func New(store Store, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{store: store, logger: logger}
}

type fileEntry struct {
	file    core.FileIndex
	symbols []core.Symbol
	refs    []core.SymbolReference
}

// arena accumulates nodes/edges in memory before a single bulk persist.
type arena struct {
	nodes    []core.GraphNode
	nodeKeys map[string]int // key -> index into nodes

	// fileNodeIdx / symbolNodeIdx key the arena index by domain identity so
	// later passes (references) can look nodes back up.
	fileNodeIdx   map[string]int // path -> node index
	dirNodeIdx    map[string]int // directory path -> node index
	moduleNodeIdx map[string]int // module name -> node index
	symbolNodeIdx map[string]int // symbolKey ("symbol:<path>#<name>@<start>-<end>") -> node index
	externalIdx   map[string]int // package root -> node index

	edges map[edgeKey]*aggEdge
}

type edgeKey struct {
	from int
	to   int
	typ  core.GraphEdgeType
}

type aggEdge struct {
	weight   int
	examples []string
	source   string
}

func newArena() *arena {
	return &arena{
		nodeKeys:      make(map[string]int),
		fileNodeIdx:   make(map[string]int),
		dirNodeIdx:    make(map[string]int),
		moduleNodeIdx: make(map[string]int),
		symbolNodeIdx: make(map[string]int),
		externalIdx:   make(map[string]int),
		edges:         make(map[edgeKey]*aggEdge),
	}
}

func (a *arena) addNode(key string, n core.GraphNode) int {
	if idx, ok := a.nodeKeys[key]; ok {
		return idx
	}
	idx := len(a.nodes)
	a.nodes = append(a.nodes, n)
	a.nodeKeys[key] = idx
	return idx
}

func (a *arena) addEdge(from, to int, typ core.GraphEdgeType, example string) {
	if from == to {
		return
	}
	key := edgeKey{from: from, to: to, typ: typ}
	e, ok := a.edges[key]
	if !ok {
		e = &aggEdge{}
		a.edges[key] = e
	}
	e.weight++
	if example != "" && len(e.examples) < 5 {
		e.examples = append(e.examples, example)
	}
}

// Build rebuilds the full code graph for repoID from the indexer's current
// artifacts. moduleRoot is a best-effort repo module prefix (e.g. a
// go.mod module path) used to gate Go/Rust import resolution against
// falsely matching third-party packages; pass "" when unknown.
func (b *Builder) Build(ctx context.Context, repoID int64, moduleRoot string) error {
	if err := b.store.DropGraph(ctx, repoID); err != nil {
		return fmt.Errorf("graph: drop prior graph: %w", err)
	}

	files, err := b.store.ListFiles(ctx, repoID)
	if err != nil {
		return fmt.Errorf("graph: list files: %w", err)
	}

	entries := make([]fileEntry, 0, len(files))
	var allPaths []string
	for _, f := range files {
		if f.IsPattern {
			continue
		}
		symbols, err := b.store.ListSymbols(ctx, repoID, f.ID)
		if err != nil {
			return fmt.Errorf("graph: list symbols for %s: %w", f.Path, err)
		}
		refs, err := b.store.ListReferences(ctx, repoID, f.ID)
		if err != nil {
			return fmt.Errorf("graph: list references for %s: %w", f.Path, err)
		}
		entries = append(entries, fileEntry{file: f, symbols: symbols, refs: refs})
		allPaths = append(allPaths, f.Path)
	}

	ar := newArena()
	b.buildFileAndContainerNodes(ar, entries)
	b.buildSymbolNodes(ar, entries)

	resolver := newIndexResolver(allPaths, moduleRoot)
	symbolIndex := buildSymbolIndex(entries)
	b.resolveReferences(ar, entries, resolver, symbolIndex)

	b.promoteInferredEdges(ar)

	if err := b.persist(ctx, repoID, ar); err != nil {
		return err
	}
	return nil
}

// buildFileAndContainerNodes creates file/directory/module nodes and their
// containment edges.
func (b *Builder) buildFileAndContainerNodes(ar *arena, entries []fileEntry) {
	for _, e := range entries {
		fileIdx := ar.addNode("file:"+e.file.Path, core.GraphNode{
			Type:   core.NodeFile,
			Key:    e.file.Path,
			FileID: &e.file.ID,
		})
		ar.fileNodeIdx[e.file.Path] = fileIdx

		dir := path.Dir(e.file.Path)
		childIdx := fileIdx
		childIsFile := true
		for dir != "." && dir != "/" && dir != "" {
			dirIdx, existed := ar.dirNodeIdx[dir]
			if !existed {
				dirIdx = ar.addNode("dir:"+dir, core.GraphNode{Type: core.NodeDirectory, Key: dir})
				ar.dirNodeIdx[dir] = dirIdx
			}
			if childIsFile {
				ar.addEdge(dirIdx, childIdx, core.EdgeDirContainsFile, "")
			} else {
				ar.addEdge(dirIdx, childIdx, core.EdgeDirContainsDir, "")
			}
			if existed {
				break
			}
			childIdx = dirIdx
			childIsFile = false
			dir = path.Dir(dir)
		}

		moduleName := moduleNameFor(e.file.Path)
		modIdx, ok := ar.moduleNodeIdx[moduleName]
		if !ok {
			modIdx = ar.addNode("module:"+moduleName, core.GraphNode{Type: core.NodeModule, Key: moduleName})
			ar.moduleNodeIdx[moduleName] = modIdx
		}
		ar.addEdge(modIdx, fileIdx, core.EdgeModuleContains, "")
	}
}

func moduleNameFor(filePath string) string {
	if idx := strings.IndexByte(filePath, '/'); idx != -1 {
		return filePath[:idx]
	}
	return "(root)"
}

// buildSymbolNodes creates symbol nodes, file->symbol containment, and
// symbol->symbol containment for the smallest enclosing declaration
//.
func (b *Builder) buildSymbolNodes(ar *arena, entries []fileEntry) {
	for _, e := range entries {
		fileIdx, ok := ar.fileNodeIdx[e.file.Path]
		if !ok {
			continue
		}

		type symWithIdx struct {
			sym core.Symbol
			idx int
		}
		var syms []symWithIdx
		for _, s := range e.symbols {
			key := symbolKey(e.file.Path, s)
			symID := s.ID
			idx := ar.addNode(key, core.GraphNode{
				Type:     core.NodeSymbol,
				Key:      key,
				FileID:   &e.file.ID,
				SymbolID: &symID,
			})
			ar.symbolNodeIdx[key] = idx
			ar.addEdge(fileIdx, idx, core.EdgeContainsSymbol, "")
			syms = append(syms, symWithIdx{sym: s, idx: idx})
		}

		// Smallest-containing-symbol: sort by span ascending, then for each
		// symbol find the tightest strictly-larger enclosing span.
		sort.Slice(syms, func(i, j int) bool {
			return span(syms[i].sym) < span(syms[j].sym)
		})
		for i, child := range syms {
			var bestParent *symWithIdx
			for j := range syms {
				if i == j {
					continue
				}
				parent := syms[j]
				if encloses(parent.sym, child.sym) && span(parent.sym) > span(child.sym) {
					if bestParent == nil || span(parent.sym) < span(bestParent.sym) {
						p := parent
						bestParent = &p
					}
				}
			}
			if bestParent != nil {
				edgeType := core.EdgeSymbolContainsSym
				if classLikeKind(bestParent.sym.Kind) {
					edgeType = core.EdgeClassContainsSym
				}
				ar.addEdge(bestParent.idx, child.idx, edgeType, "")
			}
		}
	}
}

func classLikeKind(kind string) bool {
	switch kind {
	case "class", "struct", "interface":
		return true
	}
	return false
}

func symbolKey(filePath string, s core.Symbol) string {
	return fmt.Sprintf("symbol:%s#%s@%d-%d", filePath, s.Name, s.StartLine, s.EndLine)
}

func span(s core.Symbol) int {
	return s.EndLine - s.StartLine
}

func encloses(parent, child core.Symbol) bool {
	return parent.StartLine <= child.StartLine && parent.EndLine >= child.EndLine
}

// symbolIndexEntry is one declared symbol, globally indexed by normalized
// name for call-reference resolution.
type symbolIndexEntry struct {
	filePath string
	symbol   core.Symbol
}

func buildSymbolIndex(entries []fileEntry) map[string][]symbolIndexEntry {
	idx := make(map[string][]symbolIndexEntry)
	for _, e := range entries {
		for _, s := range e.symbols {
			name := normalizeSymbolName(s.Name)
			idx[name] = append(idx[name], symbolIndexEntry{filePath: e.file.Path, symbol: s})
		}
	}
	return idx
}

func normalizeSymbolName(name string) string {
	if idx := strings.LastIndexByte(name, '.'); idx != -1 {
		name = name[idx+1:]
	}
	return strings.ToLower(name)
}

// enclosingSymbol returns the smallest symbol in filePath containing line,
// and false if no symbol contains it.
func enclosingSymbol(entries []fileEntry, filePath string, line int) (core.Symbol, bool) {
	var best core.Symbol
	found := false
	for _, e := range entries {
		if e.file.Path != filePath {
			continue
		}
		for _, s := range e.symbols {
			if line >= s.StartLine && line <= s.EndLine {
				if !found || span(s) < span(best) {
					best = s
					found = true
				}
			}
		}
	}
	return best, found
}
