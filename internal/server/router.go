package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sevigo/grepiku/internal/forge"
	"github.com/sevigo/grepiku/internal/scheduler"
	"github.com/sevigo/grepiku/internal/server/handler"
)

// NewRouter creates and configures the HTTP router: health and metrics
// endpoints, plus the GitHub webhook receiver.
func NewRouter(webhookSecret string, clients *forge.Factory, sched *scheduler.Scheduler, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		webhookHandler := handler.NewWebhookHandler(webhookSecret, clients, sched, logger)
		r.Post("/webhook/github", webhookHandler.Handle)
	})

	return r
}
