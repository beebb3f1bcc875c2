package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/grepiku/internal/core"
)

type fakeStore struct {
	files   map[int64][]core.FileIndex
	symbols map[int64]map[int64][]core.Symbol
	refs    map[int64]map[int64][]core.SymbolReference

	savedNodes []core.GraphNode
	savedEdges []core.GraphEdge
}

func (f *fakeStore) DropGraph(ctx context.Context, repoID int64) error { return nil }

func (f *fakeStore) ListFiles(ctx context.Context, repoID int64) ([]core.FileIndex, error) {
	return f.files[repoID], nil
}

func (f *fakeStore) ListSymbols(ctx context.Context, repoID, fileID int64) ([]core.Symbol, error) {
	return f.symbols[repoID][fileID], nil
}

func (f *fakeStore) ListReferences(ctx context.Context, repoID, fileID int64) ([]core.SymbolReference, error) {
	return f.refs[repoID][fileID], nil
}

func (f *fakeStore) SaveNodes(ctx context.Context, repoID int64, nodes []core.GraphNode) ([]int64, error) {
	ids := make([]int64, len(nodes))
	for i := range nodes {
		ids[i] = int64(i + 1)
	}
	f.savedNodes = nodes
	return ids, nil
}

func (f *fakeStore) SaveEdges(ctx context.Context, repoID int64, edges []core.GraphEdge) error {
	f.savedEdges = edges
	return nil
}

func TestBuild_FileDepInferredPromotion(t *testing.T) {
	store := &fakeStore{
		files: map[int64][]core.FileIndex{
			1: {
				{ID: 10, RepoID: 1, Path: "pkg/a.go"},
				{ID: 11, RepoID: 1, Path: "pkg/b.go"},
			},
		},
		symbols: map[int64]map[int64][]core.Symbol{
			1: {
				10: {{ID: 100, Name: "DoThing", Kind: "function", StartLine: 1, EndLine: 10}},
				11: {{ID: 101, Name: "Helper", Kind: "function", StartLine: 1, EndLine: 5}},
			},
		},
		refs: map[int64]map[int64][]core.SymbolReference{
			1: {
				10: {
					{RefName: "Helper", Line: 3, Kind: core.RefCall},
					{RefName: "Helper", Line: 7, Kind: core.RefCall},
				},
			},
		},
	}

	b := New(store, nil)
	err := b.Build(context.Background(), 1, "")
	require.NoError(t, err)

	var sawPromoted, sawInferred bool
	for _, e := range store.savedEdges {
		if e.Type == core.EdgeFileDep && e.Source == "inferred" {
			sawPromoted = true
			assert.Equal(t, 2, e.Weight)
		}
		if e.Type == core.EdgeFileDepInferred {
			sawInferred = true
			assert.Equal(t, 2, e.Weight)
			assert.LessOrEqual(t, len(e.Examples), 5)
		}
	}
	assert.True(t, sawInferred, "two calls to a cross-file symbol should produce a file_dep_inferred edge")
	assert.True(t, sawPromoted, "weight >= 2 should promote file_dep_inferred to a parallel file_dep edge")
}

func TestBuild_DirectoryAndModuleContainment(t *testing.T) {
	store := &fakeStore{
		files: map[int64][]core.FileIndex{
			1: {{ID: 10, RepoID: 1, Path: "internal/widget/widget.go"}},
		},
		symbols: map[int64]map[int64][]core.Symbol{1: {10: nil}},
		refs:    map[int64]map[int64][]core.SymbolReference{1: {10: nil}},
	}

	b := New(store, nil)
	err := b.Build(context.Background(), 1, "")
	require.NoError(t, err)

	var sawModuleContains, sawDirContainsFile, sawDirContainsDir bool
	for _, e := range store.savedEdges {
		switch e.Type {
		case core.EdgeModuleContains:
			sawModuleContains = true
		case core.EdgeDirContainsFile:
			sawDirContainsFile = true
		case core.EdgeDirContainsDir:
			sawDirContainsDir = true
		}
	}
	assert.True(t, sawModuleContains)
	assert.True(t, sawDirContainsFile)
	assert.True(t, sawDirContainsDir, "internal -> internal/widget directory chain should be linked")
}
