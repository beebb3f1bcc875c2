package indexer

import (
	"context"

	"github.com/sevigo/grepiku/internal/core"
)

// FileArtifacts is everything the indexer produces for one file, replaced
// atomically with each re-index.
type FileArtifacts struct {
	File       core.FileIndex
	Symbols    []core.Symbol
	References []core.SymbolReference
	Embeddings []core.Embedding
}

// Store is the persistence contract the indexer depends on. The concrete
// implementation (internal/storage) backs this with Postgres via sqlx/lib/pq
// or SQLite via mattn/go-sqlite3 for CLI/offline use.
type Store interface {
	// GetFileIndex returns the stored row for path, or nil if never indexed.
	GetFileIndex(ctx context.Context, repoID int64, path string) (*core.FileIndex, error)
	// ReplaceFileArtifacts atomically swaps out a file's FileIndex, Symbol,
	// SymbolReference, and Embedding rows for the given replacement set.
	ReplaceFileArtifacts(ctx context.Context, repoID int64, art FileArtifacts) error
	// DeleteFileArtifacts removes all rows for a path no longer present on
	// disk (a rename or deletion since the last scan).
	DeleteFileArtifacts(ctx context.Context, repoID int64, path string) error
	// ListIndexedPaths returns every path currently indexed for a repo, used
	// to detect deletions between scans.
	ListIndexedPaths(ctx context.Context, repoID int64) ([]string, error)

	// GetScanState loads the resumable scan state for a repo, or nil if none
	// exists yet.
	GetScanState(ctx context.Context, repoID int64) (*core.ScanState, error)
	// UpsertScanState persists the current scan state.
	UpsertScanState(ctx context.Context, state *core.ScanState) error
}
