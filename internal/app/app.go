// Package app wires configuration, logging, metrics, services and the
// HTTP router into a runnable dashboard server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"cordex/internal/config"
	apierrors "cordex/internal/errors"
	"cordex/internal/infrastructure"
	custommw "cordex/internal/middleware"
	"cordex/internal/services"
	handlers "cordex/internal/transport/http"
)

// Version is the explorer release identifier.
const Version = "1.0.0"

// Application represents the main application container
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *infrastructure.Metrics
	Router   *chi.Mux
	Server   *http.Server
	Explorer *services.ExplorerService

	errorHandler *apierrors.ErrorHandler
	webFS        fs.FS
}

// NewApplication creates a new application instance with dependency
// injection. webFS holds the embedded dashboard assets and may be nil.
func NewApplication(webFS fs.FS) (*Application, error) {
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
		slog.String("dataset", cfg.Dataset.Path),
		slog.String("addr", cfg.Server.Addr()))

	metrics := infrastructure.NewMetrics()

	app := &Application{
		Config:       cfg,
		Logger:       logger,
		Metrics:      metrics,
		Explorer:     services.NewExplorerService(cfg.Dataset, metrics, logger),
		errorHandler: apierrors.NewErrorHandler(logger, false),
		webFS:        webFS,
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.Metrics(a.Metrics))
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.Compress(5))

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	healthHandler := handlers.NewHealthHandler(Version, a.Config.Dataset.Path, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/stats", handlers.NewStatsHandler(a.Explorer, a.Logger, a.errorHandler).Routes())
		r.Mount("/search", handlers.NewSearchHandler(a.Explorer, a.Logger, a.errorHandler).Routes())
		r.Mount("/export", handlers.NewExportHandler(a.Explorer, a.Logger, a.errorHandler).Routes())
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
	})

	r.Method(http.MethodGet, "/metrics", a.Metrics.Handler())

	if a.webFS != nil {
		r.Get("/", handlers.ServeDashboard(a.webFS))
		r.Handle("/static/*", handlers.ServeStatic(a.webFS))
	}

	a.Router = r
}

// createServer builds the http.Server from the configured timeouts
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.Addr(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the HTTP server and blocks until a shutdown signal arrives
// or the server fails.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	infrastructure.CloseLogFile()
	return err
}
