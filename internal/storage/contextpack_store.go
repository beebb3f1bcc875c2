package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sevigo/grepiku/internal/contextpack"
	"github.com/sevigo/grepiku/internal/core"
)

// contextpackStore adapts *DB to contextpack.Store. It exists only to
// rename ListSymbols to its repo-scoped shape; graph.Store's ListSymbols is
// file-scoped and already claims that name on *DB.
type contextpackStore struct{ *DB }

var _ contextpack.Store = contextpackStore{}

// NewContextPackStore adapts db to the contextpack.Store contract.
func NewContextPackStore(db *DB) contextpack.Store { return contextpackStore{db} }

// ListSymbols returns every Symbol row for a repo, across all of its files.
func (c contextpackStore) ListSymbols(ctx context.Context, repoID int64) ([]core.Symbol, error) {
	var symbols []core.Symbol
	err := c.SelectContext(ctx, &symbols, c.rebind(`
		SELECT id, repo_id, file_id, name, kind, start_line, end_line, signature, hash
		FROM symbols WHERE repo_id = ?`), repoID)
	if err != nil {
		return nil, fmt.Errorf("storage: list repo symbols: %w", err)
	}
	return symbols, nil
}

type embeddingRow struct {
	ID         int64  `db:"id"`
	RepoID     int64  `db:"repo_id"`
	FileID     int64  `db:"file_id"`
	SymbolID   *int64 `db:"symbol_id"`
	Kind       string `db:"kind"`
	ChunkIndex int    `db:"chunk_index"`
	StartLine  int    `db:"start_line"`
	EndLine    int    `db:"end_line"`
	Text       string `db:"text"`
	Vector     []byte `db:"vector"`
}

// ListEmbeddingsPage returns up to limit embeddings for repoID with ID
// strictly less than beforeID (0 means "from the top"), ordered by ID
// descending.
func (db *DB) ListEmbeddingsPage(ctx context.Context, repoID int64, beforeID int64, limit int) ([]core.Embedding, error) {
	var rows []embeddingRow
	query := `
		SELECT id, repo_id, file_id, symbol_id, kind, chunk_index, start_line, end_line, text, vector
		FROM embeddings WHERE repo_id = ?`
	args := []any{repoID}
	if beforeID > 0 {
		query += ` AND id < ?`
		args = append(args, beforeID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	if err := db.SelectContext(ctx, &rows, db.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("storage: list embeddings page: %w", err)
	}

	embeddings := make([]core.Embedding, len(rows))
	for i, r := range rows {
		vec, err := decodeVector(r.Vector)
		if err != nil {
			return nil, err
		}
		embeddings[i] = core.Embedding{
			ID: r.ID, RepoID: r.RepoID, FileID: r.FileID, SymbolID: r.SymbolID,
			Kind: core.EmbeddingKind(r.Kind), ChunkIndex: r.ChunkIndex,
			StartLine: r.StartLine, EndLine: r.EndLine, Text: r.Text, Vector: vec,
		}
	}
	return embeddings, nil
}

// ListGraphNodes returns the full node set materialized for a repo.
func (db *DB) ListGraphNodes(ctx context.Context, repoID int64) ([]core.GraphNode, error) {
	var nodes []core.GraphNode
	err := db.SelectContext(ctx, &nodes, db.rebind(`
		SELECT id, repo_id, type, key, file_id, symbol_id, data FROM graph_nodes WHERE repo_id = ?`), repoID)
	if err != nil {
		return nil, fmt.Errorf("storage: list graph nodes: %w", err)
	}
	return nodes, nil
}

type graphEdgeRow struct {
	ID         int64  `db:"id"`
	RepoID     int64  `db:"repo_id"`
	FromNodeID int64  `db:"from_node_id"`
	ToNodeID   int64  `db:"to_node_id"`
	Type       string `db:"type"`
	Weight     int    `db:"weight"`
	Examples   string `db:"examples"`
	Source     string `db:"source"`
}

// ListGraphEdges returns the full edge set materialized for a repo.
func (db *DB) ListGraphEdges(ctx context.Context, repoID int64) ([]core.GraphEdge, error) {
	var rows []graphEdgeRow
	err := db.SelectContext(ctx, &rows, db.rebind(`
		SELECT id, repo_id, from_node_id, to_node_id, type, weight, examples, source
		FROM graph_edges WHERE repo_id = ?`), repoID)
	if err != nil {
		return nil, fmt.Errorf("storage: list graph edges: %w", err)
	}
	edges := make([]core.GraphEdge, len(rows))
	for i, r := range rows {
		examples, err := decodeExamples(r.Examples)
		if err != nil {
			return nil, err
		}
		edges[i] = core.GraphEdge{
			ID: r.ID, RepoID: r.RepoID, FromNodeID: r.FromNodeID, ToNodeID: r.ToNodeID,
			Type: core.GraphEdgeType(r.Type), Weight: r.Weight, Examples: examples, Source: r.Source,
		}
	}
	return edges, nil
}

// ListFindingsForPaths returns every Finding (any status) for repoID whose
// Path is in paths. Findings are scoped by pull_request, not repo, so this
// joins through pull_requests to reach repoID.
func (db *DB) ListFindingsForPaths(ctx context.Context, repoID int64, paths []string) ([]core.Finding, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(paths)), ",")
	query := fmt.Sprintf(`
		SELECT f.id, f.pull_request_id, f.first_seen_run_id, f.last_seen_run_id, f.status, f.fingerprint,
			f.hunk_hash, f.context_hash, f.comment_id, f.comment_key, f.path, f.line, f.side, f.severity,
			f.category, f.title, f.body, f.evidence, f.suggested_patch, f.rule_id
		FROM findings f
		JOIN pull_requests pr ON pr.id = f.pull_request_id
		WHERE pr.repo_id = ? AND f.path IN (%s)`, placeholders)

	args := make([]any, 0, len(paths)+1)
	args = append(args, repoID)
	for _, p := range paths {
		args = append(args, p)
	}

	var findings []core.Finding
	if err := db.SelectContext(ctx, &findings, db.rebind(query), args...); err != nil {
		return nil, fmt.Errorf("storage: list findings for paths: %w", err)
	}
	return findings, nil
}
