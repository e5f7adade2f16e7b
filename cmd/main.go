package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/postboard/internal/adapters/http/api"
	"github.com/okian/postboard/internal/adapters/http/site"
	"github.com/okian/postboard/internal/adapters/http/swagger"
	"github.com/okian/postboard/internal/adapters/repository"
	app "github.com/okian/postboard/internal/app"
	"github.com/okian/postboard/internal/config"
	"github.com/okian/postboard/pkg/logger"
	"github.com/okian/postboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	corsMaxAge        = 300
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (.env -> defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger format comes from config, so it isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	metrics.SetEnabled(cfg.MetricsEnabled)

	svc, err := newService(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(ctx, cfg, svc, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for shutdown signal or a listener failure
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
	}
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService opens the configured database and starts the service on top of it.
func newService(ctx context.Context, cfg *config.Config, l logger.Logger) (*app.Service, error) {
	db, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN,
		repository.WithLogger(l.Named("gorm")),
		repository.WithMaxOpenConns(cfg.DBMaxOpenConns),
		repository.WithSlowQueryThreshold(time.Duration(cfg.DBSlowQueryMS)*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := metrics.RegisterDBStats(sqlDB, cfg.DBDriver); err != nil {
			l.Warn(ctx, "db stats collector not registered", logger.Error(err))
		}
	}

	svc := app.New(
		app.WithLogger(l.Named("service")),
		app.WithStore(repository.NewGormStore(db)),
	)
	if err := svc.Start(ctx); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("start service: %w", err)
	}
	return svc, nil
}

// newRouter builds the HTTP handler: shared middleware, docs and business routes.
func newRouter(ctx context.Context, cfg *config.Config, svc *app.Service, l logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", api.RequestIDHeader},
		ExposedHeaders: []string{api.RequestIDHeader},
		MaxAge:         corsMaxAge,
	}))
	r.Use(api.RequestLogger(l.Named("http")))

	// Landing page at / and API docs under /api-docs and /openapi.yaml
	site.Register(ctx, r)
	swagger.Register(ctx, r)

	// Register business API routes with the service dependency.
	api.NewServer(svc, l.Named("api")).Register(ctx, r)

	return r
}
