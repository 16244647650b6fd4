package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"github.com/eshop-micro/services/internal/application"
	"github.com/eshop-micro/services/internal/config"
	"github.com/eshop-micro/services/internal/logger"
	"github.com/eshop-micro/services/internal/metrics"
	"github.com/eshop-micro/services/internal/migrate"
	"github.com/eshop-micro/services/internal/presentation"
	"github.com/eshop-micro/services/internal/repository"
)

func main() {
	logger.Init()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("config load failed", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DB_STRING)
	if err != nil {
		logger.Warn("pgxpool new failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		logger.Warn("db ping failed", "err", err)
		os.Exit(1)
	}
	logger.Info("db connected")

	if err := migrate.Up(cfg.DB_STRING, "catalog"); err != nil {
		logger.Warn("migrations failed", "err", err)
		os.Exit(1)
	}

	repo := repository.NewCatalogRepository(pool)
	svc := application.NewCatalogService(repo)

	m := metrics.NewServerMetrics("catalog")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(m.Middleware)

	h := presentation.NewCatalogHandler(svc)
	h.Register(r)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	addr := ":" + cfg.HTTP_PORT
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logger.Info("starting http", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("http server crashed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", "err", err)
	}
}
