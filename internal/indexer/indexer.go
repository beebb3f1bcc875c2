// Package indexer walks a repository checkout, extracts symbols and
// references from source files, and produces file/symbol/chunk embeddings
// for the context-pack builder and retrieval layer to consume.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/sevigo/goframe/embeddings"
	"github.com/sevigo/goframe/parsers"

	"github.com/sevigo/grepiku/internal/core"
)

// Indexer owns one repo's (re)indexing run.
type Indexer struct {
	store    Store
	embedder embeddings.Embedder
	parsers  parsers.ParserRegistry
	logger   *slog.Logger
}

// New constructs an Indexer. parsers may be nil in environments without a
// language-plugin registry configured; reference extraction then falls back
// to the regex-only heuristics, and no symbols are extracted.
func New(store Store, embedder embeddings.Embedder, registry parsers.ParserRegistry, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{store: store, embedder: embedder, parsers: registry, logger: logger}
}

// progress is the resumable cursor persisted in ScanState.Progress.
type progress struct {
	TotalFiles     int             `json:"total_files"`
	ProcessedFiles int             `json:"processed_files"`
	Done           map[string]bool `json:"done"`
	LastUpdated    time.Time       `json:"last_updated"`
}

const scanBatchSize = 100

// Index walks repoPath and (re)indexes every qualifying file under it,
// resuming from any incomplete prior scan unless force is set.
func (ix *Indexer) Index(ctx context.Context, repoID int64, repoPath string, excludeDirs []string, force bool) error {
	_, prog, err := ix.loadOrResetState(ctx, repoID, force)
	if err != nil {
		return err
	}

	files, err := walk(repoPath, excludeDirs)
	if err != nil {
		return fmt.Errorf("indexer: walk %s: %w", repoPath, err)
	}
	prog.TotalFiles = len(files)
	if err := ix.saveState(ctx, repoID, core.ScanInProgress, prog); err != nil {
		return err
	}

	seen := make(map[string]bool, len(files))
	var batch []candidateFile
	for _, f := range files {
		seen[f.Path] = true
		if prog.Done[f.Path] {
			continue
		}
		batch = append(batch, f)
		if len(batch) >= scanBatchSize {
			if err := ix.processBatch(ctx, repoID, repoPath, batch, force, prog); err != nil {
				ix.saveState(ctx, repoID, core.ScanFailed, prog) //nolint:errcheck
				return err
			}
			batch = nil
		}
	}
	if len(batch) > 0 {
		if err := ix.processBatch(ctx, repoID, repoPath, batch, force, prog); err != nil {
			ix.saveState(ctx, repoID, core.ScanFailed, prog) //nolint:errcheck
			return err
		}
	}

	if err := ix.pruneDeleted(ctx, repoID, seen); err != nil {
		ix.logger.Warn("indexer: prune deleted files failed", "error", err)
	}

	return ix.saveState(ctx, repoID, core.ScanCompleted, prog)
}

func (ix *Indexer) loadOrResetState(ctx context.Context, repoID int64, force bool) (*core.ScanState, *progress, error) {
	state, err := ix.store.GetScanState(ctx, repoID)
	if err != nil {
		return nil, nil, fmt.Errorf("indexer: load scan state: %w", err)
	}

	if force || state == nil || state.Status == core.ScanCompleted || state.Status == core.ScanFailed {
		return state, &progress{Done: make(map[string]bool), LastUpdated: time.Now()}, nil
	}

	var prog progress
	if len(state.Progress) > 0 {
		if err := json.Unmarshal(state.Progress, &prog); err != nil {
			return state, &progress{Done: make(map[string]bool)}, nil
		}
	}
	if prog.Done == nil {
		prog.Done = make(map[string]bool)
	}
	ix.logger.Info("indexer: resuming scan", "repo_id", repoID, "processed", prog.ProcessedFiles, "total", prog.TotalFiles)
	return state, &prog, nil
}

func (ix *Indexer) saveState(ctx context.Context, repoID int64, status core.ScanStatus, prog *progress) error {
	prog.LastUpdated = time.Now()
	raw, err := json.Marshal(prog)
	if err != nil {
		return fmt.Errorf("indexer: marshal progress: %w", err)
	}
	return ix.store.UpsertScanState(ctx, &core.ScanState{
		RepoID:   repoID,
		Status:   status,
		Progress: raw,
	})
}

func (ix *Indexer) processBatch(ctx context.Context, repoID int64, repoPath string, batch []candidateFile, force bool, prog *progress) error {
	for _, f := range batch {
		if err := ix.indexFile(ctx, repoID, repoPath, f, force); err != nil {
			ix.logger.Error("indexer: failed to index file, skipping", "path", f.Path, "error", err)
		}
		prog.Done[f.Path] = true
		prog.ProcessedFiles++
	}
	return ix.saveState(ctx, repoID, core.ScanInProgress, prog)
}

// indexFile parses, chunks, and embeds a single file.
func (ix *Indexer) indexFile(ctx context.Context, repoID int64, repoPath string, f candidateFile, force bool) error {
	fullPath := filepath.Join(repoPath, f.Path)

	content, language, ok, err := readIndexable(fullPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.Path, err)
	}
	if !ok {
		return nil
	}

	hash := contentHash(content)

	if !force {
		existing, err := ix.store.GetFileIndex(ctx, repoID, f.Path)
		if err != nil {
			return fmt.Errorf("lookup existing file_index: %w", err)
		}
		if existing != nil && existing.ContentHash == hash {
			return nil
		}
	}

	text := string(content)
	parsed, err := parseFile(ix.parsers, fullPath, f.Path, text)
	if err != nil {
		ix.logger.Warn("indexer: parser error, indexing as plain text", "path", f.Path, "error", err)
		parsed = &parsedFile{}
	}
	if language == "" && parsed.PackageName != "" {
		language = languageFor(f.Path)
	}

	fileRow := core.FileIndex{
		RepoID:      repoID,
		Path:        f.Path,
		Language:    language,
		ContentHash: hash,
		Size:        f.Size,
	}

	symbolRows, symbolTexts := buildSymbolRows(parsed.Symbols)
	refRows := buildReferenceRows(parsed.References)

	var embedTexts []string
	var embedMeta []embedMetaEntry

	const maxFileEmbedChars = 8000
	fileEmbedInput := f.Path + "\n" + truncate(text, maxFileEmbedChars)
	embedTexts = append(embedTexts, fileEmbedInput)
	embedMeta = append(embedMeta, embedMetaEntry{kind: core.EmbeddingFile})

	for i := range symbolRows {
		embedTexts = append(embedTexts, symbolTexts[i])
		embedMeta = append(embedMeta, embedMetaEntry{kind: core.EmbeddingSymbol, symbolIdx: i})
	}

	chunks := chunkFile(text)
	if len(chunks) > chunkMaxPerFile {
		chunks = chunks[:chunkMaxPerFile]
	}
	for i, c := range chunks {
		embedTexts = append(embedTexts, c.Text)
		embedMeta = append(embedMeta, embedMetaEntry{kind: core.EmbeddingChunk, chunkIdx: i})
	}

	vectors, err := embedAll(ctx, ix.embedder, embedTexts)
	if err != nil {
		return fmt.Errorf("embed %s: %w", f.Path, err)
	}
	if len(vectors) != len(embedTexts) {
		return fmt.Errorf("embed %s: expected %d vectors, got %d", f.Path, len(embedTexts), len(vectors))
	}

	var embeddingRows []core.Embedding
	for i, meta := range embedMeta {
		row := core.Embedding{
			RepoID: repoID,
			Kind:   meta.kind,
			Text:   embedTexts[i],
			Vector: vectors[i],
		}
		switch meta.kind {
		case core.EmbeddingSymbol:
			row.StartLine = symbolRows[meta.symbolIdx].StartLine
			row.EndLine = symbolRows[meta.symbolIdx].EndLine
		case core.EmbeddingChunk:
			row.ChunkIndex = meta.chunkIdx
			row.StartLine = chunks[meta.chunkIdx].StartLine
			row.EndLine = chunks[meta.chunkIdx].EndLine
		}
		embeddingRows = append(embeddingRows, row)
	}

	return ix.store.ReplaceFileArtifacts(ctx, repoID, FileArtifacts{
		File:       fileRow,
		Symbols:    symbolRows,
		References: refRows,
		Embeddings: embeddingRows,
	})
}

type embedMetaEntry struct {
	kind      core.EmbeddingKind
	symbolIdx int
	chunkIdx  int
}

func buildSymbolRows(symbols []extractedSymbol) ([]core.Symbol, []string) {
	rows := make([]core.Symbol, 0, len(symbols))
	texts := make([]string, 0, len(symbols))
	for _, s := range symbols {
		h := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d:%d", s.Kind, s.Name, s.StartLine, s.EndLine)))
		rows = append(rows, core.Symbol{
			Name:      s.Name,
			Kind:      s.Kind,
			StartLine: s.StartLine,
			EndLine:   s.EndLine,
			Signature: s.Signature,
			Hash:      hex.EncodeToString(h[:])[:16],
		})
		texts = append(texts, s.Name+" "+s.Signature)
	}
	return rows, texts
}

func buildReferenceRows(refs []extractedReference) []core.SymbolReference {
	rows := make([]core.SymbolReference, 0, len(refs))
	for _, r := range refs {
		rows = append(rows, core.SymbolReference{
			RefName: r.Name,
			Line:    r.Line,
			Kind:    r.Kind,
		})
	}
	return rows
}

func (ix *Indexer) pruneDeleted(ctx context.Context, repoID int64, seen map[string]bool) error {
	existing, err := ix.store.ListIndexedPaths(ctx, repoID)
	if err != nil {
		return err
	}
	var stale []string
	for _, p := range existing {
		if !seen[p] {
			stale = append(stale, p)
		}
	}
	sort.Strings(stale)
	var firstErr error
	for _, p := range stale {
		if err := ix.store.DeleteFileArtifacts(ctx, repoID, p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
