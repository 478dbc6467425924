package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"

	"olist-dashboard/internal/config"
	"olist-dashboard/internal/dataset"
	"olist-dashboard/internal/middleware"
	"olist-dashboard/internal/observability"
	"olist-dashboard/internal/server"
	"olist-dashboard/internal/services"
	"olist-dashboard/internal/ui/templates"
)

const (
	renderTimeout   = 10 * time.Second
	datasetTimeout  = 60 * time.Second
	pageCacheMaxAge = "public, max-age=300"
)

func pageHandler(component templ.Component) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Cache-Control", pageCacheMaxAge)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := component.Render(ctx, w); err != nil {
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
		"version", "1.0.0",
		"dataset_dir", cfg.Dataset.Dir,
	)

	ctx, cancel := context.WithTimeout(context.Background(), datasetTimeout)
	defer cancel()

	start := time.Now()
	loader := dataset.NewLoader(cfg.Dataset.Dir, logger)
	result, err := loader.Load(ctx)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset ready",
		"orders", len(result.Orders),
		"duration", time.Since(start),
	)

	analytics := services.NewAnalytics()
	analytics.SetResult(result)
	observability.DatasetOrders.Set(float64(len(result.Orders)))

	registry := observability.InitRegistry()

	templateHandlers := &server.TemplateHandlers{
		Overview:  pageHandler(templates.Overview()),
		Delivery:  pageHandler(templates.Delivery()),
		Segments:  pageHandler(templates.Segments()),
		Geography: pageHandler(templates.Geography()),
	}

	srv := server.NewServer(analytics, logger, templateHandlers, server.Options{
		ReportName:     cfg.Export.ReportName,
		MetricsHandler: observability.MetricsHandler(registry),
	})

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.Metrics(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		middleware.Compression(logger),
	)

	handler := middlewareChain(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down analytics service")
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
