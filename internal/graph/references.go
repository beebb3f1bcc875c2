package graph

import (
	"context"
	"fmt"

	"github.com/sevigo/grepiku/internal/core"
)

// resolveReferences turns import/export/call references into
// file_dep/external_dep, exports_symbol, and references_symbol edges
// respectively.
func (b *Builder) resolveReferences(ar *arena, entries []fileEntry, resolver *indexResolver, symbolIndex map[string][]symbolIndexEntry) {
	for _, e := range entries {
		fromFileIdx, ok := ar.fileNodeIdx[e.file.Path]
		if !ok {
			continue
		}
		for _, ref := range e.refs {
			switch ref.Kind {
			case core.RefImport:
				b.resolveImportRef(ar, entries, e, ref, resolver, fromFileIdx)
			case core.RefExport:
				b.resolveExportRef(ar, e, ref)
			case core.RefCall:
				b.resolveCallRef(ar, entries, e, ref, symbolIndex, fromFileIdx)
			}
		}
	}
}

func (b *Builder) resolveImportRef(ar *arena, entries []fileEntry, e fileEntry, ref core.SymbolReference, resolver *indexResolver, fromFileIdx int) {
	targetPath := resolver.resolveImport(e.file.Path, ref.RefName)
	if targetPath == "" || targetPath == e.file.Path {
		root := packageRoot(ref.RefName)
		extIdx, ok := ar.externalIdx[root]
		if !ok {
			extIdx = ar.addNode("external:"+root, core.GraphNode{Type: core.NodeExternal, Key: root})
			ar.externalIdx[root] = extIdx
		}
		ar.addEdge(fromFileIdx, extIdx, core.EdgeExternalDep, ref.RefName)
		return
	}

	toFileIdx, ok := ar.fileNodeIdx[targetPath]
	if !ok {
		return
	}
	ar.addEdge(fromFileIdx, toFileIdx, core.EdgeFileDep, targetPath)

	if sym, found := enclosingSymbol(entries, e.file.Path, ref.Line); found {
		if symIdx, ok := ar.symbolNodeIdx[symbolKey(e.file.Path, sym)]; ok {
			ar.addEdge(symIdx, toFileIdx, core.EdgeSymbolImportsFile, "")
		}
	}

	fromModule := moduleNameFor(e.file.Path)
	toModule := moduleNameFor(targetPath)
	if fromModule != toModule {
		if fromModIdx, ok := ar.moduleNodeIdx[fromModule]; ok {
			if toModIdx, ok := ar.moduleNodeIdx[toModule]; ok {
				ar.addEdge(fromModIdx, toModIdx, core.EdgeModuleDep, "")
			}
		}
	}
}

func (b *Builder) resolveExportRef(ar *arena, e fileEntry, ref core.SymbolReference) {
	normalized := normalizeSymbolName(ref.RefName)
	matched := 0
	for _, s := range e.symbols {
		if matched >= maxExportMatches {
			return
		}
		if normalizeSymbolName(s.Name) != normalized {
			continue
		}
		key := symbolKey(e.file.Path, s)
		symIdx, ok := ar.symbolNodeIdx[key]
		if !ok {
			continue
		}
		fileIdx := ar.fileNodeIdx[e.file.Path]
		ar.addEdge(fileIdx, symIdx, core.EdgeExportsSymbol, "")
		matched++
	}
}

func (b *Builder) resolveCallRef(ar *arena, entries []fileEntry, e fileEntry, ref core.SymbolReference, symbolIndex map[string][]symbolIndexEntry, fromFileIdx int) {
	candidates := symbolIndex[normalizeSymbolName(ref.RefName)]
	if len(candidates) == 0 || len(candidates) > maxCallCandidates {
		return
	}

	var crossFile *symbolIndexEntry
	for i := range candidates {
		if candidates[i].filePath != e.file.Path {
			c := candidates[i]
			crossFile = &c
			break
		}
	}
	if crossFile == nil {
		return
	}

	fromSym, found := enclosingSymbol(entries, e.file.Path, ref.Line)
	if !found {
		return
	}
	fromSymIdx, ok := ar.symbolNodeIdx[symbolKey(e.file.Path, fromSym)]
	if !ok {
		return
	}
	toSymIdx, ok := ar.symbolNodeIdx[symbolKey(crossFile.filePath, crossFile.symbol)]
	if !ok {
		return
	}
	ar.addEdge(fromSymIdx, toSymIdx, core.EdgeReferencesSymbol, "")

	toFileIdx, ok := ar.fileNodeIdx[crossFile.filePath]
	if !ok {
		return
	}
	ar.addEdge(fromFileIdx, toFileIdx, core.EdgeFileDepInferred, fmt.Sprintf("%s@L%d", ref.RefName, ref.Line))
}

// promoteInferredEdges promotes any file_dep_inferred edge with weight >= 2
// to a parallel file_dep edge marked source=inferred.
func (b *Builder) promoteInferredEdges(ar *arena) {
	var toPromote []edgeKey
	for key, agg := range ar.edges {
		if key.typ == core.EdgeFileDepInferred && agg.weight >= inferredPromotionThreshold {
			toPromote = append(toPromote, key)
		}
	}
	for _, key := range toPromote {
		promoted := edgeKey{from: key.from, to: key.to, typ: core.EdgeFileDep}
		if existing, ok := ar.edges[promoted]; ok {
			existing.source = "inferred"
			continue
		}
		ar.edges[promoted] = &aggEdge{weight: ar.edges[key].weight, examples: ar.edges[key].examples, source: "inferred"}
	}
}

// persist saves the arena's nodes and aggregated edges, remapping edge
// endpoints from arena indices to assigned node IDs.
func (b *Builder) persist(ctx context.Context, repoID int64, ar *arena) error {
	ids, err := b.store.SaveNodes(ctx, repoID, ar.nodes)
	if err != nil {
		return fmt.Errorf("graph: save nodes: %w", err)
	}
	if len(ids) != len(ar.nodes) {
		return fmt.Errorf("graph: save nodes: expected %d ids, got %d", len(ar.nodes), len(ids))
	}

	edges := make([]core.GraphEdge, 0, len(ar.edges))
	for key, agg := range ar.edges {
		edges = append(edges, core.GraphEdge{
			RepoID:     repoID,
			FromNodeID: ids[key.from],
			ToNodeID:   ids[key.to],
			Type:       key.typ,
			Weight:     agg.weight,
			Examples:   agg.examples,
			Source:     agg.source,
		})
	}

	if err := b.store.SaveEdges(ctx, repoID, edges); err != nil {
		return fmt.Errorf("graph: save edges: %w", err)
	}
	return nil
}
