// Package app wires together every component package into a running
// grepiku server process: storage, the forge client factory, worktree
// checkout, context-pack retrieval, the review pipeline, the job queue, and
// the HTTP server that fronts them.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/redis/go-redis/v9"
	"github.com/sevigo/goframe/embeddings"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"
	"github.com/sevigo/goframe/parsers"

	"github.com/sevigo/grepiku/internal/config"
	"github.com/sevigo/grepiku/internal/contextpack"
	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/forge"
	"github.com/sevigo/grepiku/internal/graph"
	"github.com/sevigo/grepiku/internal/indexer"
	"github.com/sevigo/grepiku/internal/jobqueue"
	"github.com/sevigo/grepiku/internal/orchestrator"
	"github.com/sevigo/grepiku/internal/promptlib"
	"github.com/sevigo/grepiku/internal/reconcile"
	"github.com/sevigo/grepiku/internal/scheduler"
	"github.com/sevigo/grepiku/internal/server"
	"github.com/sevigo/grepiku/internal/stagerunner"
	"github.com/sevigo/grepiku/internal/storage"
	"github.com/sevigo/grepiku/internal/worktree"
)

const (
	reviewQueueConcurrency = 4
	indexQueueConcurrency  = 2
)

// App holds every long-lived component the server process runs.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	queue  core.Queue
	orch   *orchestrator.Orchestrator
	idx    *indexer.Indexer
	graph  *graph.Builder
	server *server.Server
	logger *slog.Logger
}

// New wires the full component graph from env. ctx governs the lifetime of
// the background queue subscribers started by Start.
func New(ctx context.Context, env *config.Env, logger *slog.Logger) (*App, error) {
	logger.Info("initializing grepiku application",
		"llm_provider", env.AI.LLMProvider,
		"embedder_provider", env.AI.EmbedderProvider,
		"stage_executor", env.AI.StageExecutor,
	)

	db, err := storage.Open(ctx, env.Database.Driver, env.Database.DSN(), logger)
	if err != nil {
		return nil, fmt.Errorf("app: open database: %w", err)
	}

	privateKeyPEM, err := os.ReadFile(env.GitHub.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("app: read github app private key: %w", err)
	}
	clients := forge.NewFactory(env.GitHub.AppID, privateKeyPEM, logger)

	worktrees := worktree.New(env.Storage.ReposDir(), "", logger)

	embedder, err := NewEmbedder(ctx, env.AI, logger)
	if err != nil {
		return nil, err
	}

	contextPack := contextpack.New(storage.NewContextPackStore(db), embedder, logger)
	reconciler := reconcile.New()

	stages, err := NewStageRunner(env.AI, logger)
	if err != nil {
		return nil, err
	}

	prompts, err := promptlib.New()
	if err != nil {
		return nil, fmt.Errorf("app: load prompt templates: %w", err)
	}

	queue := createQueue(env, logger)
	sched := scheduler.New(db, queue, "grepiku", []string{"/review", "@grepiku review"}, logger)

	baseline := env.Defaults.ResolvedConfigBaseline()
	orch := orchestrator.New(
		storage.NewOrchestratorStore(db),
		clients,
		worktrees,
		contextPack,
		reconciler,
		stages,
		prompts,
		queue,
		env.Storage.BundlesDir(),
		baseline,
		logger,
	)

	registry, err := parsers.RegisterLanguagePlugins(logger)
	if err != nil {
		return nil, fmt.Errorf("app: register language parsers: %w", err)
	}
	idx := indexer.New(db, embedder, registry, logger)
	graphBuilder := graph.New(db, logger)

	httpServer := server.NewServer(ctx, env, clients, sched, logger)

	runCtx, cancel := context.WithCancel(ctx)
	return &App{
		ctx:    runCtx,
		cancel: cancel,
		queue:  queue,
		orch:   orch,
		idx:    idx,
		graph:  graphBuilder,
		server: httpServer,
		logger: logger,
	}, nil
}

// NewEmbedder constructs the configured embedder backend. Exported so
// cmd/cli can build the same embedder the server uses without duplicating
// the provider-branching logic.
func NewEmbedder(ctx context.Context, ai config.AIConfig, logger *slog.Logger) (embeddings.Embedder, error) {
	logger.Info("connecting to embedder", "provider", ai.EmbedderProvider, "model", ai.EmbedderModel)

	switch ai.EmbedderProvider {
	case "gemini":
		embedderLLM, err := gemini.New(ctx,
			gemini.WithEmbeddingModel(ai.EmbedderModel),
			gemini.WithAPIKey(ai.GeminiAPIKey),
		)
		if err != nil {
			return nil, fmt.Errorf("app: create gemini embedder: %w", err)
		}
		return embeddings.NewEmbedder(embedderLLM)
	case "ollama":
		embedderLLM, err := ollama.New(
			ollama.WithServerURL(ai.OllamaHost),
			ollama.WithModel(ai.EmbedderModel),
			ollama.WithHTTPClient(newOllamaHTTPClient()),
			ollama.WithLogger(logger),
		)
		if err != nil {
			return nil, fmt.Errorf("app: create ollama embedder: %w", err)
		}
		return embeddings.NewEmbedder(embedderLLM)
	default:
		return nil, fmt.Errorf("app: unsupported embedder provider: %s", ai.EmbedderProvider)
	}
}

// NewStageRunner constructs the configured stage executor backend. Exported
// for cmd/cli's reuse; see NewEmbedder.
func NewStageRunner(ai config.AIConfig, logger *slog.Logger) (stagerunner.StageRunner, error) {
	switch ai.StageExecutor {
	case "", "anthropic":
		if ai.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("app: ai.anthropic_api_key is required for the anthropic stage executor")
		}
		return stagerunner.NewAnthropicRunner(ai.AnthropicAPIKey, anthropic.Model(ai.AnthropicModel), logger), nil
	case "external":
		if ai.StageCommand == "" {
			return nil, fmt.Errorf("app: ai.stage_command is required for the external stage executor")
		}
		return stagerunner.NewExternalProcessRunner(ai.StageCommand, ai.StageArgs, logger), nil
	default:
		return nil, fmt.Errorf("app: unsupported stage executor: %s", ai.StageExecutor)
	}
}

// createQueue picks the Redis-backed queue when a Redis address is
// configured, the in-process one otherwise — the same single-process vs.
// multi-process split internal/jobqueue's own doc comment describes.
func createQueue(env *config.Env, logger *slog.Logger) core.Queue {
	if env.Storage.RedisAddr != "" {
		return jobqueue.NewRedis(&redis.Options{Addr: env.Storage.RedisAddr}, logger)
	}
	return jobqueue.NewInProc(env.Server.MaxWorkers*20, logger)
}

func newOllamaHTTPClient() *http.Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: 15 * time.Minute}
}

// Start subscribes the review and index queue workers and runs the HTTP
// server; it blocks until the server stops or fails.
func (a *App) Start() error {
	go a.subscribeReviewJobs()
	go a.subscribeIndexJobs()
	return a.server.Start()
}

// Stop cancels the background subscribers and shuts down the HTTP server.
func (a *App) Stop() error {
	a.cancel()
	return a.server.Stop()
}

func (a *App) subscribeReviewJobs() {
	err := a.queue.Subscribe(a.ctx, core.JobReview, reviewQueueConcurrency, func(ctx context.Context, payload any) error {
		var job core.ReviewJobPayload
		if err := unmarshalPayload(payload, &job); err != nil {
			return fmt.Errorf("app: unmarshal review job: %w", err)
		}
		return a.orch.Run(ctx, job)
	})
	if err != nil {
		a.logger.Error("review job subscriber stopped", "error", err)
	}
}

func (a *App) subscribeIndexJobs() {
	err := a.queue.Subscribe(a.ctx, core.JobIndex, indexQueueConcurrency, func(ctx context.Context, payload any) error {
		var job core.IndexJobPayload
		if err := unmarshalPayload(payload, &job); err != nil {
			return fmt.Errorf("app: unmarshal index job: %w", err)
		}
		if err := a.idx.Index(ctx, job.RepoID, job.RepoPath, nil, job.Force); err != nil {
			return fmt.Errorf("app: index repo %d: %w", job.RepoID, err)
		}
		// moduleRoot is left unresolved here; the graph builder treats ""
		// as "skip the module-path gate" rather than mis-deriving one from
		// a filesystem checkout path.
		if err := a.graph.Build(ctx, job.RepoID, ""); err != nil {
			return fmt.Errorf("app: build graph for repo %d: %w", job.RepoID, err)
		}
		return nil
	})
	if err != nil {
		a.logger.Error("index job subscriber stopped", "error", err)
	}
}

// unmarshalPayload decodes a queue payload into dst. Both core.Queue
// implementations hand Subscribe a json.RawMessage regardless of backend,
// so this is the single seam every job handler decodes through.
func unmarshalPayload(payload any, dst any) error {
	raw, ok := payload.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		raw = b
	}
	return json.Unmarshal(raw, dst)
}
