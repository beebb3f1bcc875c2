package contextpack

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/diffidx"
)

type fakeStore struct {
	files      []core.FileIndex
	symbols    []core.Symbol
	embeddings []core.Embedding
	nodes      []core.GraphNode
	edges      []core.GraphEdge
	findings   []core.Finding
}

func (f *fakeStore) ListFiles(ctx context.Context, repoID int64) ([]core.FileIndex, error) {
	return f.files, nil
}

func (f *fakeStore) ListSymbols(ctx context.Context, repoID int64) ([]core.Symbol, error) {
	return f.symbols, nil
}

func (f *fakeStore) ListEmbeddingsPage(ctx context.Context, repoID int64, beforeID int64, limit int) ([]core.Embedding, error) {
	var page []core.Embedding
	for _, e := range f.embeddings {
		if beforeID != 0 && e.ID >= beforeID {
			continue
		}
		page = append(page, e)
		if len(page) >= limit {
			break
		}
	}
	return page, nil
}

func (f *fakeStore) ListGraphNodes(ctx context.Context, repoID int64) ([]core.GraphNode, error) {
	return f.nodes, nil
}

func (f *fakeStore) ListGraphEdges(ctx context.Context, repoID int64) ([]core.GraphEdge, error) {
	return f.edges, nil
}

func (f *fakeStore) ListFindingsForPaths(ctx context.Context, repoID int64, paths []string) ([]core.Finding, error) {
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}
	var out []core.Finding
	for _, fn := range f.findings {
		if want[fn.Path] {
			out = append(out, fn)
		}
	}
	return out, nil
}

type fakeEmbedder struct {
	vec []float32
}

func (e *fakeEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return out, nil
}

const patch = `diff --git a/src/foo.go b/src/foo.go
--- a/src/foo.go
+++ b/src/foo.go
@@ -1,2 +1,3 @@
 package src
+import "src/bar"
 func run() {}
`

func TestBuild_RetrievalAndGraphWalkProduceRelatedFiles(t *testing.T) {
	store := &fakeStore{
		files: []core.FileIndex{
			{ID: 1, Path: "src/foo.go"},
			{ID: 2, Path: "src/bar.go"},
		},
		embeddings: []core.Embedding{
			{ID: 10, FileID: 2, Kind: core.EmbeddingChunk, Vector: []float32{1, 0}, Text: "func Bar() {}"},
			{ID: 9, FileID: 1, Kind: core.EmbeddingChunk, Vector: []float32{1, 0}, Text: "func run() {}"},
		},
		nodes: []core.GraphNode{
			{ID: 1, Type: core.NodeFile, Key: "src/foo.go"},
			{ID: 2, Type: core.NodeFile, Key: "src/bar.go"},
		},
		edges: []core.GraphEdge{
			{ID: 1, FromNodeID: 1, ToNodeID: 2, Type: core.EdgeFileDep, Weight: 3},
		},
	}
	embedder := &fakeEmbedder{vec: []float32{1, 0}}
	b := New(store, embedder, nil)

	pack, err := b.Build(context.Background(), 1, Input{
		Patch:        patch,
		ChangedFiles: []ChangedFile{{Path: "src/foo.go", Additions: 1, Deletions: 0}},
		PRTitle:      "add bar import",
		Retrieval:    core.DefaultResolvedConfig().Retrieval,
		Graph:        core.DefaultResolvedConfig().Graph,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pack.Retrieved)
	found := false
	for _, rf := range pack.RelatedFiles {
		if rf.Path == "src/bar.go" {
			found = true
		}
	}
	assert.True(t, found, "bar.go should surface via the file_dep graph walk from foo.go")
}

func TestComposeQuery_TruncatesAndIncludesChangedPaths(t *testing.T) {
	idx, err := diffidx.Parse(patch)
	require.NoError(t, err)
	q := composeQuery("Title", "Body", []string{"src/foo.go"}, idx)
	assert.Contains(t, q, "Title")
	assert.Contains(t, q, "src/foo.go")
	assert.LessOrEqual(t, len(q), maxQueryChars)
}

func TestDepthBonus_ClippedAtExtremes(t *testing.T) {
	assert.Equal(t, 0.08, depthBonus(1))
	assert.Equal(t, 0.04, depthBonus(2))
	assert.Equal(t, 0.0, depthBonus(3))
	assert.InDelta(t, -0.3, depthBonus(10), 0.0001)
}
