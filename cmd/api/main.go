package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dsfrexample/internal/author"
	"dsfrexample/internal/config"
	"dsfrexample/internal/httpx"
	"dsfrexample/internal/platform/database"
	"dsfrexample/internal/platform/logging"
	"dsfrexample/internal/platform/metrics"
	"dsfrexample/internal/platform/render"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("cannot open store", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer closeRepo()
	slog.Info("database connection OK", "driver", cfg.DBDriver)

	renderer, err := render.New()
	if err != nil {
		slog.Error("cannot parse templates", "error", err)
		os.Exit(1)
	}

	if cfg.CSRFSecret == "" {
		slog.Warn("CSRF_SECRET is empty, CSRF protection disabled")
	}

	m := metrics.New()
	service := author.NewService(repo)
	handler := author.NewHTTPHandler(service, renderer,
		author.BookFormsetConfig(cfg.FormsetExtra, cfg.FormsetMinNum, cfg.FormsetMaxNum),
		author.WithRootDir(cfg.RootDir),
		author.WithRecorder(m),
	)

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newRouter(cfg, handler, service, m, limiter),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", cfg.Addr, "route", formRoute)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openRepository(ctx context.Context, cfg config.Config) (author.Repository, func(), error) {
	if cfg.DBDriver == config.DriverSQLite {
		sqlDB, err := database.OpenSQLite(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return author.NewSQLiteRepo(sqlDB, cfg.DBTimeout), func() { sqlDB.Close() }, nil
	}

	pool, err := database.OpenPostgres(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	return author.NewPostgresRepo(pool, cfg.DBTimeout), pool.Close, nil
}
