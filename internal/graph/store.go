package graph

import (
	"context"

	"github.com/sevigo/grepiku/internal/core"
)

// Store is the persistence contract the graph builder depends on. The
// concrete implementation lives in internal/storage.
type Store interface {
	// DropGraph removes every node and edge previously built for repoID
	//.
	DropGraph(ctx context.Context, repoID int64) error
	// ListFiles returns every non-pattern FileIndex row for repoID.
	ListFiles(ctx context.Context, repoID int64) ([]core.FileIndex, error)
	// ListSymbols returns every Symbol row for a file.
	ListSymbols(ctx context.Context, repoID, fileID int64) ([]core.Symbol, error)
	// ListReferences returns every SymbolReference row for a file.
	ListReferences(ctx context.Context, repoID, fileID int64) ([]core.SymbolReference, error)

	// SaveNodes inserts nodes and returns their assigned IDs, same order.
	SaveNodes(ctx context.Context, repoID int64, nodes []core.GraphNode) ([]int64, error)
	// SaveEdges inserts the final, aggregated edge set.
	SaveEdges(ctx context.Context, repoID int64, edges []core.GraphEdge) error
}
