package contextpack

import (
	"context"

	"github.com/sevigo/grepiku/internal/core"
)

// Store is the persistence contract the context-pack builder depends on.
// The concrete implementation (internal/storage) reads embeddings from the
// relational embeddings table, where each vector is stored as packed
// float32 bytes, and nodes/edges/findings from the same tables the indexer
// and graph builder wrote.
type Store interface {
	// ListFiles returns every non-pattern-excluded FileIndex row for repoID,
	// used to resolve an embedding's FileID to a path and to flag pattern
	// repositories for patternBoost.
	ListFiles(ctx context.Context, repoID int64) ([]core.FileIndex, error)
	// ListSymbols returns every Symbol row for repoID, used to resolve an
	// embedding's SymbolID to a name/signature and to seed the graph walk
	// from changed-line-intersecting symbols.
	ListSymbols(ctx context.Context, repoID int64) ([]core.Symbol, error)

	// ListEmbeddingsPage returns up to limit embeddings for repoID with ID
	// strictly less than beforeID (0 means "from the top"), ordered by ID
	// descending.
	ListEmbeddingsPage(ctx context.Context, repoID int64, beforeID int64, limit int) ([]core.Embedding, error)

	// ListGraphNodes and ListGraphEdges return the full graph materialized
	// by the graph builder for repoID.
	ListGraphNodes(ctx context.Context, repoID int64) ([]core.GraphNode, error)
	ListGraphEdges(ctx context.Context, repoID int64) ([]core.GraphEdge, error)

	// ListFindingsForPaths returns every Finding (any status) for repoID
	// whose Path is in paths, used to build hotspots.
	ListFindingsForPaths(ctx context.Context, repoID int64, paths []string) ([]core.Finding, error)
}

// Embedder embeds text for the query-side of hybrid retrieval. It is the
// same goframe embeddings.Embedder the indexer batches documents through;
// embedding a single-element query reuses that one method rather than
// assuming a separate query-embedding call the pack never exposes.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}
