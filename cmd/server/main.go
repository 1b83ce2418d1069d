// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	analyticsrouter "github.com/highfly-app/github-analytics/internal/analytics/router"
	"github.com/highfly-app/github-analytics/internal/analytics/service"
	"github.com/highfly-app/github-analytics/internal/config"
	"github.com/highfly-app/github-analytics/internal/database"
	"github.com/highfly-app/github-analytics/internal/database/migrate"
	"github.com/highfly-app/github-analytics/internal/github"
	"github.com/highfly-app/github-analytics/internal/health"
	"github.com/highfly-app/github-analytics/internal/middleware"
	"github.com/highfly-app/github-analytics/pkg/logger"
	"github.com/highfly-app/github-analytics/pkg/retry"
)

func main() {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	zapLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	db, err := database.New()
	if err != nil {
		zapLogger.Fatalw("failed to connect to database", "error", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zapLogger.Errorw("failed to close database", "error", err)
		}
	}()

	if err := migrate.Migrate(db); err != nil {
		zapLogger.Fatalw("failed to apply migrations", "error", err)
	}

	source := github.NewClient(github.ClientConfig{
		BaseURL: cfg.GitHub.BaseURL,
		Token:   cfg.GitHub.Token,
		Timeout: cfg.GitHub.RequestTimeout,
		PerPage: cfg.GitHub.PerPage,
		Retry:   retry.GitHubConfig(),
	}, zapLogger)

	r := gin.New()
	r.Use(middleware.Recovery(zapLogger))
	r.Use(middleware.Logger(zapLogger))

	healthHandler := health.New(db, zapLogger)
	r.GET("/health", healthHandler.Check)

	svc := analyticsrouter.RegisterRoutes(r, db, source, cfg.Cache.TTL, zapLogger)

	purgeCtx, stopPurge := context.WithCancel(context.Background())
	defer stopPurge()
	go purgeLoop(purgeCtx, svc, cfg.Cache.PurgeInterval, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		zapLogger.Infow("starting server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatalw("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Errorw("forced shutdown", "error", err)
	}
	zapLogger.Infow("server stopped")
}

// purgeLoop periodically removes expired cached reports.
func purgeLoop(ctx context.Context, svc service.Service, interval time.Duration, logger *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := svc.PurgeExpired(ctx)
			if err != nil {
				logger.Errorw("cache purge failed", "error", err)
				continue
			}
			if removed > 0 {
				logger.Infow("purged expired reports", "count", removed)
			}
		}
	}
}
