// Package config resolves the deployment-level Env every entrypoint
// (cmd/server, cmd/cli, cmd/terminal) builds its component graph from:
// server/GitHub App/AI-provider/database settings, the persisted-state
// layout, and the baseline ResolvedConfig every review run's config
// cascade starts from. It never stores state in a package-level
// singleton — every caller gets its own *Env back from Load.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/logger"
)

const llmProviderGemini = "gemini"

// Env is the fully resolved deployment configuration for one process.
type Env struct {
	Server   ServerConfig
	GitHub   GitHubConfig
	AI       AIConfig
	Database DBConfig
	Storage  StorageConfig
	Logging  logger.Config
	Features FeaturesConfig
	Defaults RetrievalGraphDefaults
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	MaxWorkers   int    `mapstructure:"max_workers"`
	SharedSecret string `mapstructure:"shared_secret"`
	Theme        string `mapstructure:"theme"` // cmd/terminal lipgloss palette name
}

type GitHubConfig struct {
	AppID          int64  `mapstructure:"app_id"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	Token          string `mapstructure:"token"` // PAT for the CLI/dev oauth2 path
}

// AIConfig configures the LLM and embedding providers. The comparison-mode
// fields are loaded and validated only; no orchestrator or CLI code reads
// them.
type AIConfig struct {
	LLMProvider          string   `mapstructure:"llm_provider"`
	EmbedderProvider     string   `mapstructure:"embedder_provider"`
	OllamaHost           string   `mapstructure:"ollama_host"`
	GeminiAPIKey         string   `mapstructure:"gemini_api_key"`
	GeneratorModel       string   `mapstructure:"generator_model"`
	EmbedderModel        string   `mapstructure:"embedder_model"`
	EmbedderTask         string   `mapstructure:"embedder_task_description"`
	RerankerModel        string   `mapstructure:"reranker_model"`
	EnableReranking      bool     `mapstructure:"enable_reranking"`
	EnableHybrid         bool     `mapstructure:"enable_hybrid_search"`
	SparseVectorName     string   `mapstructure:"sparse_vector_name"`
	EnableHyDE           bool     `mapstructure:"enable_hyde"`
	ComparisonModels     []string `mapstructure:"comparison_models"`
	MaxComparisonModels  int      `mapstructure:"max_comparison_models"`
	MaxConcurrentReviews int      `mapstructure:"max_concurrent_reviews"`

	// StageExecutor selects the stagerunner.StageRunner backend: "anthropic"
	// (default, production) or "external" (an operator-supplied "codex"-style
	// binary, driven by StageCommand/StageArgs).
	StageExecutor   string   `mapstructure:"stage_executor"`
	AnthropicAPIKey string   `mapstructure:"anthropic_api_key"`
	AnthropicModel  string   `mapstructure:"anthropic_model"`
	StageCommand    string   `mapstructure:"stage_command"`
	StageArgs       []string `mapstructure:"stage_args"`
}

// Validate rejects a comparison-mode configuration that would fan a single
// review out into an unbounded or ambiguous set of model calls.
func (c *AIConfig) Validate() error {
	if len(c.ComparisonModels) == 0 {
		return nil
	}
	if len(c.ComparisonModels) > 10 {
		return errors.New("comparison_models cannot exceed 10 to prevent timeout cascades")
	}
	if c.MaxComparisonModels > 10 {
		return errors.New("max_comparison_models cannot exceed 10")
	}
	seen := make(map[string]bool, len(c.ComparisonModels))
	for _, m := range c.ComparisonModels {
		if strings.TrimSpace(m) == "" {
			return errors.New("comparison_models cannot contain empty model names")
		}
		if seen[m] {
			return fmt.Errorf("duplicate model in comparison_models: %s", m)
		}
		seen[m] = true
	}
	return nil
}

// StorageConfig is the persisted-state layout: a single var directory
// holding bare repo clones (<VarDir>/repos, owned by internal/worktree) and
// per-run bundles (<VarDir>/bundles, owned by internal/orchestrator), plus
// the vector-search and job-queue backend addresses.
type StorageConfig struct {
	QdrantHost string `mapstructure:"qdrant_host"`
	VarDir     string `mapstructure:"var_dir"`
	// RedisAddr, when set, selects the Redis-backed job queue instead of
	// the default in-process one.
	RedisAddr string `mapstructure:"redis_addr"`
}

// ReposDir is the worktree manager's base directory.
func (s StorageConfig) ReposDir() string { return s.VarDir }

// BundlesDir is the orchestrator's per-run bundle root.
func (s StorageConfig) BundlesDir() string { return filepath.Join(s.VarDir, "bundles") }

type FeaturesConfig struct {
	EnableBinaryQuantization bool `mapstructure:"enable_binary_quantization"`
	EnableGraphAnalysis      bool `mapstructure:"enable_graph_analysis"`
}

type DBConfig struct {
	Driver          string        `mapstructure:"driver"` // "postgres" | "sqlite3"
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Database        string        `mapstructure:"database"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	SQLitePath      string        `mapstructure:"sqlite_path"` // offline CLI mode
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// DSN returns the connection string for db.Driver: a libpq keyword/value
// string for "postgres", the plain file path for "sqlite3".
func (db DBConfig) DSN() string {
	if db.Driver == "sqlite3" {
		return db.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.Username, db.Password, db.Database, db.SSLMode)
}

// RetrievalDefaults and GraphDefaults let an operator tune the baseline
// ResolvedConfig every run's cascade starts from (§6.3) without touching
// Go code; zero-value fields fall back to core.DefaultResolvedConfig()'s
// constants via ResolvedConfigBaseline's selective overlay.
type RetrievalDefaults struct {
	TopK               int     `mapstructure:"top_k"`
	MaxPerPath         int     `mapstructure:"max_per_path"`
	SemanticWeight     float64 `mapstructure:"semantic_weight"`
	LexicalWeight      float64 `mapstructure:"lexical_weight"`
	RRFWeight          float64 `mapstructure:"rrf_weight"`
	ChangedPathBoost   float64 `mapstructure:"changed_path_boost"`
	SameDirectoryBoost float64 `mapstructure:"same_directory_boost"`
	PatternBoost       float64 `mapstructure:"pattern_boost"`
	SymbolBoost        float64 `mapstructure:"symbol_boost"`
	ChunkBoost         float64 `mapstructure:"chunk_boost"`
}

type GraphDefaults struct {
	MaxDepth         int      `mapstructure:"max_depth"`
	MinScore         float64  `mapstructure:"min_score"`
	MaxRelatedFiles  int      `mapstructure:"max_related_files"`
	MaxGraphLinks    int      `mapstructure:"max_graph_links"`
	HardIncludeFiles int      `mapstructure:"hard_include_files"`
	MaxNodesVisited  int      `mapstructure:"max_nodes_visited"`
	ExcludeDirs      []string `mapstructure:"exclude_dirs"`
}

// RetrievalGraphDefaults groups the two override tables under one viper key
// so a deployment can ship a single `defaults.yaml` block for both.
type RetrievalGraphDefaults struct {
	Retrieval RetrievalDefaults `mapstructure:"retrieval"`
	Graph     GraphDefaults     `mapstructure:"graph"`
}

// ResolvedConfigBaseline overlays any non-zero override field onto
// core.DefaultResolvedConfig(), producing the baseline orchestrator.New
// hands to every run's config cascade. A zero-value RetrievalGraphDefaults
// (no overrides configured) returns the defaults unchanged.
func (d RetrievalGraphDefaults) ResolvedConfigBaseline() *core.ResolvedConfig {
	base := core.DefaultResolvedConfig()

	r, bd := d.Retrieval, &base.Retrieval
	if r.TopK != 0 {
		bd.TopK = r.TopK
	}
	if r.MaxPerPath != 0 {
		bd.MaxPerPath = r.MaxPerPath
	}
	if r.SemanticWeight != 0 {
		bd.SemanticWeight = r.SemanticWeight
	}
	if r.LexicalWeight != 0 {
		bd.LexicalWeight = r.LexicalWeight
	}
	if r.RRFWeight != 0 {
		bd.RRFWeight = r.RRFWeight
	}
	if r.ChangedPathBoost != 0 {
		bd.ChangedPathBoost = r.ChangedPathBoost
	}
	if r.SameDirectoryBoost != 0 {
		bd.SameDirectoryBoost = r.SameDirectoryBoost
	}
	if r.PatternBoost != 0 {
		bd.PatternBoost = r.PatternBoost
	}
	if r.SymbolBoost != 0 {
		bd.SymbolBoost = r.SymbolBoost
	}
	if r.ChunkBoost != 0 {
		bd.ChunkBoost = r.ChunkBoost
	}

	g, bg := d.Graph, &base.Graph
	if g.MaxDepth != 0 {
		bg.MaxDepth = g.MaxDepth
	}
	if g.MinScore != 0 {
		bg.MinScore = g.MinScore
	}
	if g.MaxRelatedFiles != 0 {
		bg.MaxRelatedFiles = g.MaxRelatedFiles
	}
	if g.MaxGraphLinks != 0 {
		bg.MaxGraphLinks = g.MaxGraphLinks
	}
	if g.HardIncludeFiles != 0 {
		bg.HardIncludeFiles = g.HardIncludeFiles
	}
	if g.MaxNodesVisited != 0 {
		bg.MaxNodesVisited = g.MaxNodesVisited
	}
	if len(g.ExcludeDirs) > 0 {
		bg.ExcludeDirs = g.ExcludeDirs
	}

	return base
}

// Overrides is the single seam every caller (tests, `cmd/cli`'s offline
// mode) uses to substitute config resolution instead of going through
// viper's file/env discovery — it replaces the hidden singletons the
// teacher's package-level slog.Default()/global Config relied on.
type Overrides struct {
	// ConfigPaths are searched, in order, for a "config.yaml"/"config.yml"
	// file before falling back to built-in defaults.
	ConfigPaths []string
	// EnvPrefix namespaces environment variable lookups (e.g. "GREPIKU"
	// maps GREPIKU_SERVER_PORT to server.port); empty means no prefix.
	EnvPrefix string
	// Set overrides arbitrary dotted keys after the file/env/defaults
	// resolution, the same precedence a CLI flag would have.
	Set map[string]any
}

// Load resolves an Env with the hierarchy: Set overrides > environment
// variables > config file > built-in defaults. overrides may be nil.
func Load(overrides *Overrides) (*Env, error) {
	if overrides == nil {
		overrides = &Overrides{}
	}
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range overrides.ConfigPaths {
		v.AddConfigPath(p)
	}
	if len(overrides.ConfigPaths) == 0 {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.grepiku")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded configuration", "file", v.ConfigFileUsed())
	}

	if overrides.EnvPrefix != "" {
		v.SetEnvPrefix(overrides.EnvPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range overrides.Set {
		v.Set(key, val)
	}

	var env Env
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &env, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.max_workers", 5)

	v.SetDefault("github.private_key_path", "keys/grepiku-app.private-key.pem")
	v.SetDefault("github.token", "")

	v.SetDefault("ai.llm_provider", "ollama")
	v.SetDefault("ai.embedder_provider", "ollama")
	v.SetDefault("ai.ollama_host", "http://localhost:11434")
	v.SetDefault("ai.embedder_model", "nomic-embed-text")
	v.SetDefault("ai.embedder_task_description", "search_document")
	v.SetDefault("ai.enable_reranking", false)
	v.SetDefault("ai.reranker_model", "gemma2:2b")
	v.SetDefault("ai.enable_hybrid_search", true)
	v.SetDefault("ai.sparse_vector_name", "bow_sparse")
	v.SetDefault("ai.enable_hyde", false)
	v.SetDefault("ai.max_concurrent_reviews", 5)
	v.SetDefault("ai.stage_executor", "anthropic")
	v.SetDefault("ai.anthropic_model", "claude-sonnet-4-5")

	v.SetDefault("storage.qdrant_host", "localhost:6334")
	v.SetDefault("storage.var_dir", "./data/var")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "grepiku")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "./data/grepiku.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "5m")

	v.SetDefault("features.enable_binary_quantization", true)
	v.SetDefault("features.enable_graph_analysis", true)
}

// ValidateForServer checks the fields cmd/server requires that cmd/cli does
// not (a running GitHub App installation).
func (e *Env) ValidateForServer() error {
	if e.GitHub.AppID == 0 {
		return errors.New("github.app_id is required")
	}
	if e.GitHub.WebhookSecret == "" {
		return errors.New("github.webhook_secret is required")
	}
	if _, err := os.Stat(e.GitHub.PrivateKeyPath); os.IsNotExist(err) {
		return fmt.Errorf("github private key not found at path: %s", e.GitHub.PrivateKeyPath)
	}
	return e.validateAI()
}

// ValidateForCLI checks the fields shared by every `cmd/cli` subcommand.
func (e *Env) ValidateForCLI() error {
	return e.validateAI()
}

func (e *Env) validateAI() error {
	if (e.AI.LLMProvider == llmProviderGemini || e.AI.EmbedderProvider == llmProviderGemini) && e.AI.GeminiAPIKey == "" {
		return errors.New("ai.gemini_api_key is required for gemini provider")
	}
	if e.AI.StageExecutor == "anthropic" && e.AI.AnthropicAPIKey == "" {
		return errors.New("ai.anthropic_api_key is required for the anthropic stage executor")
	}
	if e.AI.StageExecutor == "external" && e.AI.StageCommand == "" {
		return errors.New("ai.stage_command is required for the external stage executor")
	}
	if err := e.AI.Validate(); err != nil {
		return fmt.Errorf("ai config invalid: %w", err)
	}
	return nil
}
