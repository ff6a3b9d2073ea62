// Package app wires configuration, storage, the import service, and
// the HTTP surfaces into one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	importservice "github.com/cagepicks/cagepicks-backend/app/modules/dataimport/application"
	"github.com/cagepicks/cagepicks-backend/app/modules/dataimport/infrastructure/adapters"
	importhandlers "github.com/cagepicks/cagepicks-backend/app/modules/dataimport/infrastructure/handlers"
	importqueue "github.com/cagepicks/cagepicks-backend/app/modules/dataimport/infrastructure/queue"
	"github.com/cagepicks/cagepicks-backend/config"
	"github.com/cagepicks/cagepicks-backend/internal/db/bundb"
	"github.com/cagepicks/cagepicks-backend/internal/eventbus"
	"github.com/cagepicks/cagepicks-backend/internal/observability"
	"github.com/cagepicks/cagepicks-backend/internal/observability/attr"
)

// App holds the wired application.
type App struct {
	Cfg           *config.Config
	ImportService importservice.Service
	Queue         importqueue.QueueService

	db       *bundb.DBService
	bus      eventbus.EventBus
	logger   *slog.Logger
	registry *prometheus.Registry

	httpServer    *http.Server
	metricsServer *http.Server
}

// NewApp initializes the application with the necessary services.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewPrometheusMetrics(registry)
	tracer := otel.Tracer(cfg.Observability.ServiceName)

	bus := eventbus.New(logger)

	svc := importservice.NewImportService(
		&adapters.FighterStoreAdapter{Repo: dbService.Fighter},
		&adapters.FightStoreAdapter{Repo: dbService.Fight},
		bus,
		logger,
		metrics,
		tracer,
	)

	a := &App{
		Cfg:           cfg,
		ImportService: svc,
		db:            dbService,
		bus:           bus,
		logger:        logger,
		registry:      registry,
	}

	if cfg.Import.AsyncCommit {
		queue, err := importqueue.NewService(ctx, cfg.Postgres.DSN, svc, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize commit queue: %w", err)
		}
		a.Queue = queue
	}

	a.httpServer = &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	a.metricsServer = &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

func (a *App) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	var enqueuer importhandlers.CommitEnqueuer
	if a.Queue != nil {
		enqueuer = a.Queue
	}
	importHandler := importhandlers.NewImportHandler(a.ImportService, a.logger, a.Cfg.Import.MaxFileBytes, enqueuer)
	r.Route("/api/v1", func(r chi.Router) {
		importHandler.RegisterRoutes(r)
	})
	return r
}

// Run starts the HTTP and metrics servers and blocks until the context
// is canceled, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("API server listening", attr.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		a.logger.Info("Metrics server listening", attr.String("address", a.metricsServer.Addr))
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	if a.Queue != nil {
		if err := a.Queue.Start(ctx); err != nil {
			return fmt.Errorf("failed to start commit queue: %w", err)
		}
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return a.shutdown(shutdownCtx)
}

func (a *App) shutdown(ctx context.Context) error {
	var errs []error

	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
	}
	if err := a.metricsServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
	}
	if a.Queue != nil {
		if err := a.Queue.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("queue stop: %w", err))
		}
	}
	if err := a.bus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus close: %w", err))
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("db close: %w", err))
	}

	a.logger.Info("Shutdown complete")
	return errors.Join(errs...)
}

// DB returns the database service.
func (a *App) DB() *bundb.DBService {
	return a.db
}
