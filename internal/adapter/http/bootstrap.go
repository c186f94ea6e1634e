package http

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"daycheck/internal/adapter/http/routes"
	"daycheck/pkg"
	"daycheck/pkg/config"
	"daycheck/pkg/tracing"
)

func StartServer(metrics *tracing.AppMetrics, logger *config.LokiLogger) {
	StartServerWithConfig(metrics, logger, config.GetDefaultConfig())
}

func StartServerWithConfig(metrics *tracing.AppMetrics, logger *config.LokiLogger, cfg *config.AppConfig) {
	ctx := context.Background()

	container, err := NewContainer(ctx, cfg, logger)

	if err != nil {
		slog.Error("Failed to build application container", "error", err)
		os.Exit(1)
	}

	defer container.KV.Close()

	if metrics != nil {
		container.ChecklistHandler.Metrics = metrics
		metrics.SetChecklistGauges(
			container.ChecklistService.CompletedTodayCount(),
			container.ChecklistService.TotalTasksCount(),
		)
	}

	router := routes.SetupRouterWithConfig(routes.HandlersConfig{
		ChecklistHandler: container.ChecklistHandler,
	}, metrics, logger, cfg)

	port := pkg.GetServerPort()

	slog.Info("Server starting",
		"port", port,
		"environment", cfg.Environment,
		"storage_backend", cfg.StorageBackend,
		"rate_limit_enabled", cfg.RateLimitEnabled,
		"https_enforced", cfg.EnforceHTTPS)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
}
