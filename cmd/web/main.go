package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"resto-dashboard/internal/config"
	"resto-dashboard/internal/middleware"
	"resto-dashboard/internal/observability"
	"resto-dashboard/internal/server"
	"resto-dashboard/internal/services"
	"resto-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	loadTimeout   = 30 * time.Second
)

func handleDashboard(analytics *services.Analytics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		facets, err := analytics.Facets(ctx)
		if err != nil {
			http.Error(w, "source data unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := templates.Dashboard(facets).Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"sales_file", cfg.Data.SalesFile,
		"location_file", cfg.Data.LocationFile,
		"cache_ttl", cfg.Data.CacheTTL,
	)

	store := services.NewStore(cfg.Data.SalesFile, cfg.Data.LocationFile, cfg.Data.CacheTTL, logger)

	// The initial load is fatal: a dashboard with no data has nothing to serve.
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	if _, err := store.Dataset(ctx); err != nil {
		logger.Error("failed to load source data", "error", err)
		os.Exit(1)
	}

	analytics := services.NewAnalytics(store, logger)

	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard(analytics),
	}

	srv := server.NewServer(analytics, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server.ShutdownTimeout)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("dataset store released")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
