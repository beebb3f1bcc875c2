// Package core defines the domain entities and interfaces shared across the
// review pipeline. These types are intentionally free of any storage or
// transport dependency so every other package can depend on them without
// creating import cycles.
package core

import (
	"encoding/json"
	"time"
)

// ReviewRunStatus is the lifecycle state of a ReviewRun.
type ReviewRunStatus string

const (
	ReviewRunRunning   ReviewRunStatus = "running"
	ReviewRunCompleted ReviewRunStatus = "completed"
	ReviewRunFailed    ReviewRunStatus = "failed"
)

// FindingStatus is the lifecycle state of a Finding.
type FindingStatus string

const (
	FindingOpen     FindingStatus = "open"
	FindingFixed    FindingStatus = "fixed"
	FindingObsolete FindingStatus = "obsolete"
)

// DiffSide identifies which side of a unified diff a line belongs to.
type DiffSide string

const (
	SideLeft  DiffSide = "LEFT"
	SideRight DiffSide = "RIGHT"
)

// Severity and Category are the closed vocabularies used across findings.
type Severity string

const (
	SeverityBlocking  Severity = "blocking"
	SeverityImportant Severity = "important"
	SeverityNit       Severity = "nit"
)

type Category string

const (
	CategoryBug            Category = "bug"
	CategorySecurity       Category = "security"
	CategoryPerformance    Category = "performance"
	CategoryMaintain       Category = "maintainability"
	CategoryTesting        Category = "testing"
	CategoryStyle          Category = "style"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

type CommentKind string

const (
	CommentInline  CommentKind = "inline"
	CommentSummary CommentKind = "summary"
)

// Provider identifies a source-forge vendor (e.g. GitHub, GitLab).
type Provider struct {
	ID      int64  `db:"id" json:"id"`
	Kind    string `db:"kind" json:"kind"`
	BaseURL string `db:"base_url" json:"base_url"`
}

// Installation is a tenant-scoped credential anchor for a Provider.
type Installation struct {
	ID         int64  `db:"id" json:"id"`
	ProviderID int64  `db:"provider_id" json:"provider_id"`
	ExternalID string `db:"external_id" json:"external_id"`
}

// Repo owns files, symbols, embeddings, and graph nodes/edges exclusively.
type Repo struct {
	ID             int64  `db:"id" json:"id"`
	ProviderID     int64  `db:"provider_id" json:"provider_id"`
	ExternalID     string `db:"external_id" json:"external_id"`
	Owner          string `db:"owner" json:"owner"`
	Name           string `db:"name" json:"name"`
	FullName       string `db:"full_name" json:"full_name"`
	DefaultBranch  string `db:"default_branch" json:"default_branch"`
}

// PullRequest. Invariant: (RepoID, Number) unique.
type PullRequest struct {
	ID         int64  `db:"id" json:"id"`
	RepoID     int64  `db:"repo_id" json:"repo_id"`
	Number     int    `db:"number" json:"number"`
	ExternalID string `db:"external_id" json:"external_id"`
	Title      string `db:"title" json:"title"`
	Body       string `db:"body" json:"body"`
	State      string `db:"state" json:"state"`
	BaseRef    string `db:"base_ref" json:"base_ref"`
	HeadRef    string `db:"head_ref" json:"head_ref"`
	BaseSHA    string `db:"base_sha" json:"base_sha"`
	HeadSHA    string `db:"head_sha" json:"head_sha"`
	Draft      bool   `db:"draft" json:"draft"`
	AuthorID   int64  `db:"author_id" json:"author_id"`
}

// ReviewRun is one pass of the orchestrator over a (pull_request, head_sha).
// Invariant: at most one running run per (pull_request, head_sha) is
// observable to the scheduler.
type ReviewRun struct {
	ID                int64           `db:"id" json:"id"`
	PullRequestID     int64           `db:"pull_request_id" json:"pull_request_id"`
	HeadSHA           string          `db:"head_sha" json:"head_sha"`
	Status            ReviewRunStatus `db:"status" json:"status"`
	Trigger           string          `db:"trigger" json:"trigger"`
	StartedAt         time.Time       `db:"started_at" json:"started_at"`
	CompletedAt       *time.Time      `db:"completed_at" json:"completed_at,omitempty"`
	DraftJSON         json.RawMessage `db:"draft_json" json:"draft_json,omitempty"`
	FinalJSON         json.RawMessage `db:"final_json" json:"final_json,omitempty"`
	VerdictsJSON      json.RawMessage `db:"verdicts_json" json:"verdicts_json,omitempty"`
	ChecksJSON        json.RawMessage `db:"checks_json" json:"checks_json,omitempty"`
	ContextPackJSON   json.RawMessage `db:"context_pack_json" json:"context_pack_json,omitempty"`
}

// Finding is a single piece of review feedback tracked across runs.
type Finding struct {
	ID             int64         `db:"id" json:"id"`
	PullRequestID  int64         `db:"pull_request_id" json:"pull_request_id"`
	FirstSeenRunID int64         `db:"run_id" json:"first_seen_run_id"`
	LastSeenRunID  int64         `db:"last_seen_run_id" json:"last_seen_run_id"`
	Status         FindingStatus `db:"status" json:"status"`
	Fingerprint    string        `db:"fingerprint" json:"fingerprint"`
	HunkHash       string        `db:"hunk_hash" json:"hunk_hash"`
	ContextHash    string        `db:"context_hash" json:"context_hash"`
	CommentID      string        `db:"comment_id" json:"comment_id,omitempty"`
	CommentKey     string        `db:"comment_key" json:"comment_key"`
	Path           string        `db:"path" json:"path"`
	Line           int           `db:"line" json:"line"`
	Side           DiffSide      `db:"side" json:"side"`
	Severity       Severity      `db:"severity" json:"severity"`
	Category       Category      `db:"category" json:"category"`
	Title          string        `db:"title" json:"title"`
	Body           string        `db:"body" json:"body"`
	Evidence       string        `db:"evidence" json:"evidence"`
	SuggestedPatch string        `db:"suggested_patch" json:"suggested_patch,omitempty"`
	RuleID         string        `db:"rule_id" json:"rule_id,omitempty"`
}

// ReviewComment binds a posted provider artifact to a Finding or the status slot.
type ReviewComment struct {
	ID                int64       `db:"id" json:"id"`
	PullRequestID     int64       `db:"pull_request_id" json:"pull_request_id"`
	FindingID         *int64      `db:"finding_id" json:"finding_id,omitempty"`
	Kind              CommentKind `db:"kind" json:"kind"`
	ProviderCommentID string      `db:"provider_comment_id" json:"provider_comment_id"`
	Body              string      `db:"body" json:"body"`
	URL               string      `db:"url" json:"url"`
}

// FeedbackType distinguishes the two kinds of human response the reconciler
// and quality-gate consume.
type FeedbackType string

const (
	FeedbackReaction FeedbackType = "reaction"
	FeedbackReply    FeedbackType = "reply"
)

// Feedback captures a reviewer's response to a posted finding.
type Feedback struct {
	ID           int64        `db:"id" json:"id"`
	ReviewRunID  int64        `db:"review_run_id" json:"review_run_id"`
	Type         FeedbackType `db:"type" json:"type"`
	Sentiment    string       `db:"sentiment" json:"sentiment,omitempty"`
	Action       string       `db:"action" json:"action,omitempty"`
	CommentID    string       `db:"comment_id" json:"comment_id"`
	Metadata     string       `db:"metadata" json:"metadata,omitempty"`
}

// FileIndex is one indexed file within a Repo.
type FileIndex struct {
	ID          int64  `db:"id" json:"id"`
	RepoID      int64  `db:"repo_id" json:"repo_id"`
	Path        string `db:"path" json:"path"`
	Language    string `db:"language" json:"language"`
	ContentHash string `db:"content_hash" json:"content_hash"`
	Size        int64  `db:"size" json:"size"`
	IsPattern   bool   `db:"is_pattern" json:"is_pattern"`
}

// Symbol is a function/method/class/struct/interface/enum declaration.
type Symbol struct {
	ID        int64  `db:"id" json:"id"`
	RepoID    int64  `db:"repo_id" json:"repo_id"`
	FileID    int64  `db:"file_id" json:"file_id"`
	Name      string `db:"name" json:"name"`
	Kind      string `db:"kind" json:"kind"`
	StartLine int    `db:"start_line" json:"start_line"`
	EndLine   int    `db:"end_line" json:"end_line"`
	Signature string `db:"signature" json:"signature"`
	Hash      string `db:"hash" json:"hash"`
}

// ReferenceKind distinguishes the three reference shapes extracted by the
// indexer and consumed by the graph builder.
type ReferenceKind string

const (
	RefCall   ReferenceKind = "call"
	RefImport ReferenceKind = "import"
	RefExport ReferenceKind = "export"
)

// SymbolReference is a call/import/export reference found inside a file.
type SymbolReference struct {
	ID       int64         `db:"id" json:"id"`
	RepoID   int64         `db:"repo_id" json:"repo_id"`
	FileID   int64         `db:"file_id" json:"file_id"`
	RefName  string        `db:"ref_name" json:"ref_name"`
	Line     int           `db:"line" json:"line"`
	Kind     ReferenceKind `db:"kind" json:"kind"`
}

// EmbeddingKind distinguishes the granularity of an embedded unit.
type EmbeddingKind string

const (
	EmbeddingFile   EmbeddingKind = "file"
	EmbeddingSymbol EmbeddingKind = "symbol"
	EmbeddingChunk  EmbeddingKind = "chunk"
)

// Embedding is a vector representation of a file, symbol, or chunk.
type Embedding struct {
	ID         int64         `db:"id" json:"id"`
	RepoID     int64         `db:"repo_id" json:"repo_id"`
	FileID     int64         `db:"file_id" json:"file_id"`
	SymbolID   *int64        `db:"symbol_id" json:"symbol_id,omitempty"`
	Kind       EmbeddingKind `db:"kind" json:"kind"`
	ChunkIndex int           `db:"chunk_index" json:"chunk_index,omitempty"`
	StartLine  int           `db:"start_line" json:"start_line,omitempty"`
	EndLine    int           `db:"end_line" json:"end_line,omitempty"`
	Vector     []float32     `db:"-" json:"-"`
	Text       string        `db:"text" json:"text"`
}

// GraphNodeType enumerates the node kinds in the code graph.
type GraphNodeType string

const (
	NodeFile      GraphNodeType = "file"
	NodeSymbol    GraphNodeType = "symbol"
	NodeDirectory GraphNodeType = "directory"
	NodeModule    GraphNodeType = "module"
	NodeExternal  GraphNodeType = "external"
)

// GraphNode is an arena-allocated node in the repo's cyclic code graph.
type GraphNode struct {
	ID       int64         `db:"id" json:"id"`
	RepoID   int64         `db:"repo_id" json:"repo_id"`
	Type     GraphNodeType `db:"type" json:"type"`
	Key      string        `db:"key" json:"key"`
	FileID   *int64        `db:"file_id" json:"file_id,omitempty"`
	SymbolID *int64        `db:"symbol_id" json:"symbol_id,omitempty"`
	Data     string        `db:"data" json:"data,omitempty"`
}

// GraphEdgeType enumerates the edge kinds emitted by the graph builder.
type GraphEdgeType string

const (
	EdgeDirContainsDir      GraphEdgeType = "dir_contains_dir"
	EdgeDirContainsFile     GraphEdgeType = "dir_contains_file"
	EdgeModuleContains      GraphEdgeType = "module_contains"
	EdgeContainsSymbol      GraphEdgeType = "contains_symbol"
	EdgeSymbolContainsSym   GraphEdgeType = "symbol_contains_symbol"
	EdgeClassContainsSym    GraphEdgeType = "class_contains_symbol"
	EdgeFileDep             GraphEdgeType = "file_dep"
	EdgeFileDepInferred     GraphEdgeType = "file_dep_inferred"
	EdgeSymbolImportsFile   GraphEdgeType = "symbol_imports_file"
	EdgeModuleDep           GraphEdgeType = "module_dep"
	EdgeExternalDep         GraphEdgeType = "external_dep"
	EdgeExportsSymbol       GraphEdgeType = "exports_symbol"
	EdgeReferencesSymbol    GraphEdgeType = "references_symbol"
)

// GraphEdge carries an aggregated weight and example provenance strings for
// one (from, to, type) triple. Multi-edges are collapsed by the builder.
type GraphEdge struct {
	ID         int64         `db:"id" json:"id"`
	RepoID     int64         `db:"repo_id" json:"repo_id"`
	FromNodeID int64         `db:"from_node_id" json:"from_node_id"`
	ToNodeID   int64         `db:"to_node_id" json:"to_node_id"`
	Type       GraphEdgeType `db:"type" json:"type"`
	Weight     int           `db:"weight" json:"weight"`
	Examples   []string      `db:"-" json:"examples,omitempty"`
	Source     string        `db:"source" json:"source,omitempty"` // "inferred" when promoted from file_dep_inferred
}

// ScanStatus is the lifecycle of a repository's resumable index scan.
type ScanStatus string

const (
	ScanPending    ScanStatus = "pending"
	ScanInProgress ScanStatus = "in_progress"
	ScanCompleted  ScanStatus = "completed"
	ScanFailed     ScanStatus = "failed"
)

// ScanState is the persisted, resumable progress of an indexing run.
// Progress and Artifacts are opaque JSON blobs the indexer owns the shape of.
type ScanState struct {
	ID           int64           `db:"id" json:"id"`
	RepoID       int64           `db:"repo_id" json:"repo_id"`
	Status       ScanStatus      `db:"status" json:"status"`
	Progress     json.RawMessage `db:"progress" json:"progress,omitempty"`
	Artifacts    json.RawMessage `db:"artifacts" json:"artifacts,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
