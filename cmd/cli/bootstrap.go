package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sevigo/goframe/parsers"

	"github.com/sevigo/grepiku/internal/app"
	"github.com/sevigo/grepiku/internal/config"
	"github.com/sevigo/grepiku/internal/contextpack"
	"github.com/sevigo/grepiku/internal/core"
	"github.com/sevigo/grepiku/internal/forge"
	"github.com/sevigo/grepiku/internal/graph"
	"github.com/sevigo/grepiku/internal/indexer"
	"github.com/sevigo/grepiku/internal/jobqueue"
	"github.com/sevigo/grepiku/internal/logger"
	"github.com/sevigo/grepiku/internal/orchestrator"
	"github.com/sevigo/grepiku/internal/promptlib"
	"github.com/sevigo/grepiku/internal/reconcile"
	"github.com/sevigo/grepiku/internal/storage"
	"github.com/sevigo/grepiku/internal/worktree"
)

// cliApp is the offline counterpart to internal/app.App: no HTTP server, no
// webhook scheduler, no queue subscribers. Every cmd/cli subcommand drives
// its component graph synchronously, in-process, authenticated with a PAT
// instead of a GitHub App installation.
type cliApp struct {
	env    *config.Env
	db     *storage.DB
	logger *slog.Logger

	clients   *forge.PATFactory
	worktrees *worktree.Manager
	indexer   *indexer.Indexer
	graph     *graph.Builder
	orch      *orchestrator.Orchestrator
}

// newCLIApp loads config, opens storage, and wires every component a CLI
// subcommand might need. Subcommands that don't need the orchestrator (e.g.
// scan) still pay its setup cost; that's an acceptable simplification for a
// low-traffic offline tool.
func newCLIApp(ctx context.Context) (*cliApp, error) {
	env, err := config.Load(&config.Overrides{EnvPrefix: "GREPIKU"})
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := env.ValidateForCLI(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if env.GitHub.Token == "" {
		return nil, fmt.Errorf("github.token is required for cmd/cli (set GREPIKU_GITHUB_TOKEN)")
	}

	log := logger.NewLogger(env.Logging, nil)

	db, err := storage.Open(ctx, env.Database.Driver, env.Database.DSN(), log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	clients := forge.NewPATFactory(env.GitHub.Token, log)
	worktrees := worktree.New(env.Storage.ReposDir(), "", log)

	embedder, err := app.NewEmbedder(ctx, env.AI, log)
	if err != nil {
		return nil, err
	}

	registry, err := parsers.RegisterLanguagePlugins(log)
	if err != nil {
		return nil, fmt.Errorf("register language parsers: %w", err)
	}
	idx := indexer.New(db, embedder, registry, log)
	graphBuilder := graph.New(db, log)

	contextPack := contextpack.New(storage.NewContextPackStore(db), embedder, log)
	reconciler := reconcile.New()

	stages, err := app.NewStageRunner(env.AI, log)
	if err != nil {
		return nil, err
	}

	prompts, err := promptlib.New()
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	// The orchestrator's Queue dependency is only used to enqueue follow-up
	// index/comment jobs; a one-shot in-process queue with no subscriber
	// just drops them, which is correct for a synchronous CLI run.
	queue := jobqueue.NewInProc(1, log)

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
		log,
	)

	return &cliApp{
		env:       env,
		db:        db,
		logger:    log,
		clients:   clients,
		worktrees: worktrees,
		indexer:   idx,
		graph:     graphBuilder,
		orch:      orch,
	}, nil
}

// admitRepo upserts a "github" provider/repo pair and returns its storage
// id, the same entity-graph admission the webhook scheduler performs on
// every delivery (internal/scheduler.admit), reused here so a CLI-driven
// review or index job has somewhere to anchor its rows.
func (a *cliApp) admitRepo(ctx context.Context, owner, name string) (int64, error) {
	providerID, err := a.db.UpsertProvider(ctx, &core.Provider{Kind: "github"})
	if err != nil {
		return 0, fmt.Errorf("upsert provider: %w", err)
	}
	fullName := owner + "/" + name
	repoID, err := a.db.UpsertRepo(ctx, &core.Repo{
		ProviderID: providerID,
		ExternalID: fullName,
		Owner:      owner,
		Name:       name,
		FullName:   fullName,
	})
	if err != nil {
		return 0, fmt.Errorf("upsert repo: %w", err)
	}
	return repoID, nil
}
