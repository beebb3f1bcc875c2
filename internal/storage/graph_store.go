package storage

import (
	"context"
	"fmt"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/graph"
)

var _ graph.Store = (*DB)(nil)

// DropGraph removes every node and edge previously built for repoID.
func (db *DB) DropGraph(ctx context.Context, repoID int64) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin drop graph: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM graph_edges WHERE repo_id = ?`), repoID); err != nil {
		return fmt.Errorf("storage: drop graph edges: %w", err)
	}
	if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM graph_nodes WHERE repo_id = ?`), repoID); err != nil {
		return fmt.Errorf("storage: drop graph nodes: %w", err)
	}
	return tx.Commit()
}

// ListFiles returns every FileIndex row for repoID.
func (db *DB) ListFiles(ctx context.Context, repoID int64) ([]core.FileIndex, error) {
	var files []core.FileIndex
	err := db.SelectContext(ctx, &files, db.rebind(`
		SELECT id, repo_id, path, language, content_hash, size, is_pattern
		FROM file_indexes WHERE repo_id = ?`), repoID)
	if err != nil {
		return nil, fmt.Errorf("storage: list files: %w", err)
	}
	return files, nil
}

// ListSymbols returns every Symbol row for a single file. graph.Store is
// file-scoped; contextpackStore.ListSymbols (repo-scoped) wraps this.
func (db *DB) ListSymbols(ctx context.Context, repoID, fileID int64) ([]core.Symbol, error) {
	var symbols []core.Symbol
	err := db.SelectContext(ctx, &symbols, db.rebind(`
		SELECT id, repo_id, file_id, name, kind, start_line, end_line, signature, hash
		FROM symbols WHERE repo_id = ? AND file_id = ?`), repoID, fileID)
	if err != nil {
		return nil, fmt.Errorf("storage: list symbols: %w", err)
	}
	return symbols, nil
}

// ListReferences returns every SymbolReference row for a file.
func (db *DB) ListReferences(ctx context.Context, repoID, fileID int64) ([]core.SymbolReference, error) {
	var refs []core.SymbolReference
	err := db.SelectContext(ctx, &refs, db.rebind(`
		SELECT id, repo_id, file_id, ref_name, line, kind
		FROM symbol_references WHERE repo_id = ? AND file_id = ?`), repoID, fileID)
	if err != nil {
		return nil, fmt.Errorf("storage: list references: %w", err)
	}
	return refs, nil
}

// SaveNodes inserts nodes and returns their assigned IDs, same order.
func (db *DB) SaveNodes(ctx context.Context, repoID int64, nodes []core.GraphNode) ([]int64, error) {
	ids := make([]int64, len(nodes))
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: begin save nodes: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, n := range nodes {
		row := tx.QueryRowContext(ctx, db.rebind(`
			INSERT INTO graph_nodes (repo_id, type, key, file_id, symbol_id, data)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`),
			repoID, n.Type, n.Key, n.FileID, n.SymbolID, n.Data)
		var id int64
		if err := row.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: insert graph node %q: %w", n.Key, err)
		}
		ids[i] = id
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storage: commit save nodes: %w", err)
	}
	return ids, nil
}

// SaveEdges inserts the final, aggregated edge set.
func (db *DB) SaveEdges(ctx context.Context, repoID int64, edges []core.GraphEdge) error {
	if len(edges) == 0 {
		return nil
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin save edges: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range edges {
		examples, err := encodeExamples(e.Examples)
		if err != nil {
			return fmt.Errorf("storage: encode edge examples: %w", err)
		}
		if _, err := tx.ExecContext(ctx, db.rebind(`
			INSERT INTO graph_edges (repo_id, from_node_id, to_node_id, type, weight, examples, source)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
			repoID, e.FromNodeID, e.ToNodeID, e.Type, e.Weight, examples, e.Source); err != nil {
			return fmt.Errorf("storage: insert graph edge: %w", err)
		}
	}
	return tx.Commit()
}
