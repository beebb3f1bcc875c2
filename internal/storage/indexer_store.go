package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/indexer"
)

var _ indexer.Store = (*DB)(nil)

// GetFileIndex returns the stored row for path, or nil if never indexed.
func (db *DB) GetFileIndex(ctx context.Context, repoID int64, path string) (*core.FileIndex, error) {
	var fi core.FileIndex
	err := db.GetContext(ctx, &fi, db.rebind(`
		SELECT id, repo_id, path, language, content_hash, size, is_pattern
		FROM file_indexes WHERE repo_id = ? AND path = ?`), repoID, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get file index: %w", err)
	}
	return &fi, nil
}

// ReplaceFileArtifacts atomically swaps out a file's FileIndex, Symbol,
// SymbolReference, and Embedding rows.
func (db *DB) ReplaceFileArtifacts(ctx context.Context, repoID int64, art indexer.FileArtifacts) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin replace file artifacts: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var fileID int64
	err = tx.GetContext(ctx, &fileID, db.rebind(`SELECT id FROM file_indexes WHERE repo_id = ? AND path = ?`),
		repoID, art.File.Path)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx, db.rebind(`
			UPDATE file_indexes SET language = ?, content_hash = ?, size = ?, is_pattern = ? WHERE id = ?`),
			art.File.Language, art.File.ContentHash, art.File.Size, art.File.IsPattern, fileID)
		if err != nil {
			return fmt.Errorf("storage: update file index: %w", err)
		}
		if err := db.clearFileArtifacts(ctx, tx, repoID, fileID); err != nil {
			return err
		}
	case errors.Is(err, sql.ErrNoRows):
		row := tx.QueryRowContext(ctx, db.rebind(`
			INSERT INTO file_indexes (repo_id, path, language, content_hash, size, is_pattern)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`),
			repoID, art.File.Path, art.File.Language, art.File.ContentHash, art.File.Size, art.File.IsPattern)
		if err := row.Scan(&fileID); err != nil {
			return fmt.Errorf("storage: insert file index: %w", err)
		}
	default:
		return fmt.Errorf("storage: lookup file index: %w", err)
	}

	for _, sym := range art.Symbols {
		if _, err := tx.ExecContext(ctx, db.rebind(`
			INSERT INTO symbols (repo_id, file_id, name, kind, start_line, end_line, signature, hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
			repoID, fileID, sym.Name, sym.Kind, sym.StartLine, sym.EndLine, sym.Signature, sym.Hash); err != nil {
			return fmt.Errorf("storage: insert symbol: %w", err)
		}
	}
	for _, ref := range art.References {
		if _, err := tx.ExecContext(ctx, db.rebind(`
			INSERT INTO symbol_references (repo_id, file_id, ref_name, line, kind)
			VALUES (?, ?, ?, ?, ?)`),
			repoID, fileID, ref.RefName, ref.Line, ref.Kind); err != nil {
			return fmt.Errorf("storage: insert symbol reference: %w", err)
		}
	}
	for _, emb := range art.Embeddings {
		if _, err := tx.ExecContext(ctx, db.rebind(`
			INSERT INTO embeddings (repo_id, file_id, symbol_id, kind, chunk_index, start_line, end_line, text, vector)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			repoID, fileID, emb.SymbolID, emb.Kind, emb.ChunkIndex, emb.StartLine, emb.EndLine,
			emb.Text, encodeVector(emb.Vector)); err != nil {
			return fmt.Errorf("storage: insert embedding: %w", err)
		}
	}

	return tx.Commit()
}

// clearFileArtifacts deletes every symbol, reference, and embedding row
// belonging to fileID ahead of a re-index.
func (db *DB) clearFileArtifacts(ctx context.Context, tx *sqlx.Tx, repoID, fileID int64) error {
	for _, table := range []string{"symbols", "symbol_references", "embeddings"} {
		if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM `+table+` WHERE repo_id = ? AND file_id = ?`),
			repoID, fileID); err != nil {
			return fmt.Errorf("storage: clear %s: %w", table, err)
		}
	}
	return nil
}

// DeleteFileArtifacts removes all rows for a path no longer present on disk.
func (db *DB) DeleteFileArtifacts(ctx context.Context, repoID int64, path string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin delete file artifacts: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var fileID int64
	err = tx.GetContext(ctx, &fileID, db.rebind(`SELECT id FROM file_indexes WHERE repo_id = ? AND path = ?`), repoID, path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: lookup file index for delete: %w", err)
	}

	if err := db.clearFileArtifacts(ctx, tx, repoID, fileID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, db.rebind(`DELETE FROM file_indexes WHERE id = ?`), fileID); err != nil {
		return fmt.Errorf("storage: delete file index: %w", err)
	}
	return tx.Commit()
}

// ListIndexedPaths returns every path currently indexed for a repo.
func (db *DB) ListIndexedPaths(ctx context.Context, repoID int64) ([]string, error) {
	var paths []string
	err := db.SelectContext(ctx, &paths, db.rebind(`SELECT path FROM file_indexes WHERE repo_id = ?`), repoID)
	if err != nil {
		return nil, fmt.Errorf("storage: list indexed paths: %w", err)
	}
	return paths, nil
}

// GetScanState loads the resumable scan state for a repo, or nil if none.
func (db *DB) GetScanState(ctx context.Context, repoID int64) (*core.ScanState, error) {
	var state core.ScanState
	err := db.GetContext(ctx, &state, db.rebind(`
		SELECT id, repo_id, status, progress, artifacts, updated_at FROM scan_states WHERE repo_id = ?`), repoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get scan state: %w", err)
	}
	return &state, nil
}

// UpsertScanState persists the current scan state.
func (db *DB) UpsertScanState(ctx context.Context, state *core.ScanState) error {
	var exists bool
	err := db.GetContext(ctx, &exists, db.rebind(`SELECT true FROM scan_states WHERE repo_id = ?`), state.RepoID)
	switch {
	case err == nil:
		_, err = db.ExecContext(ctx, db.rebind(`
			UPDATE scan_states SET status = ?, progress = ?, artifacts = ?, updated_at = CURRENT_TIMESTAMP
			WHERE repo_id = ?`),
			state.Status, state.Progress, state.Artifacts, state.RepoID)
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.ExecContext(ctx, db.rebind(`
			INSERT INTO scan_states (repo_id, status, progress, artifacts) VALUES (?, ?, ?, ?)`),
			state.RepoID, state.Status, state.Progress, state.Artifacts)
	default:
		return fmt.Errorf("storage: lookup scan state: %w", err)
	}
	if err != nil {
		return fmt.Errorf("storage: upsert scan state: %w", err)
	}
	return nil
}
