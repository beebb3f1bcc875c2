package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sevigo/grepiku/internal/app"
	"github.com/sevigo/grepiku/internal/config"
	"github.com/sevigo/grepiku/internal/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application failed to run", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env, err := config.Load(&config.Overrides{EnvPrefix: "GREPIKU"})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := env.ValidateForServer(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	log := logger.NewLogger(env.Logging, nil)
	slog.SetDefault(log)

	log.Info("starting grepiku server")

	application, err := app.New(ctx, env, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	go func() {
		if err := application.Start(); err != nil {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("received shutdown signal")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down")
	}

	if err := application.Stop(); err != nil {
		log.Error("failed to stop application", "error", err)
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}
