package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coolBuddy03/sitemapmonitoring/internal/backend"
	"github.com/coolBuddy03/sitemapmonitoring/internal/charts"
	"github.com/coolBuddy03/sitemapmonitoring/internal/dashboard"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/config"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/logger"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/middleware"
	"github.com/coolBuddy03/sitemapmonitoring/internal/session"
)

const sweepInterval = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, backend.WithRateLimit(cfg.BackendRateLimit))
	controller := session.NewController(store, client, log, cfg.BackendTimeout)
	transport := dashboard.NewTransport(controller, charts.NewBoard(), log)

	mux := http.NewServeMux()
	transport.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.Chain(mux, middleware.RequestID, middleware.Logging(log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Port, "backend_url", cfg.BackendURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if err := controller.Wait(shutdownCtx); err != nil {
		log.Warn("in-flight sitemap jobs abandoned", "error", err)
	}

	log.Info("shutdown complete")
}

// openStore returns a Redis-backed store when REDIS_URL is set and an
// in-memory store otherwise.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		store := session.NewMemoryStore(cfg.SessionTTL)
		go store.RunSweeper(ctx, sweepInterval)
		log.Info("using in-memory session store", "ttl", cfg.SessionTTL.String())
		return store, func() {}, nil
	}

	rdb, err := session.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	log.Info("using redis session store", "ttl", cfg.SessionTTL.String())
	return session.NewRedisStore(rdb, cfg.SessionTTL), func() { _ = rdb.Close() }, nil
}
