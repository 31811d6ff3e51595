package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecdash/internal/config"
	"ecdash/internal/infrastructure"
	customMiddleware "ecdash/internal/middleware"
	"ecdash/internal/services"
	handlers "ecdash/internal/transport/http"
)

// Version identifies the running build.
const Version = "1.0.0"

// Application represents the main application container
type Application struct {
	Config      *config.Config
	Router      *chi.Mux
	Server      *http.Server
	DataService *services.DataService
	Logger      *slog.Logger
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.String("data_dir", cfg.Paths.DataDir),
		slog.Int("schools", len(cfg.Schools)))

	app := &Application{
		Config:      cfg,
		Logger:      logger,
		DataService: services.NewDataService(cfg, logger),
	}
	app.Router = app.setupRouter()
	app.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return app, nil
}

// setupRouter wires middleware and routes.
func (a *Application) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.RateLimit(a.Config.Server.RateLimitRPS, a.Config.Server.RateLimitBurst))

	healthHandler := handlers.NewHealthHandler(Version)
	dataHandler := handlers.NewDataHandler(a.DataService, a.Logger)

	r.Get("/healthz", healthHandler.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/api", dataHandler.Routes())

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	infrastructure.CloseLogFile()
	return nil
}

// WarmCache loads the first snapshot in the background so the first request
// does not pay the full parse cost.
func (a *Application) WarmCache(ctx context.Context) {
	go func() {
		start := time.Now()
		if _, err := a.DataService.Snapshot(ctx); err != nil {
			a.Logger.Warn("cache warm-up failed", slog.String("error", err.Error()))
			return
		}
		a.Logger.Info("cache warmed", slog.Duration("took", time.Since(start)))
	}()
}
