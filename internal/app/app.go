package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/charts"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/config"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/dataprocessing"
	apierrors "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/errors"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/infrastructure"
	customMiddleware "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/middleware"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/operations"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/services"
	handlers "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/transport/http"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/validation"
	ws "github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/websocket"
	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/pkg/contracts"
)

// maxJSONBody bounds POST /api/comparison bodies.
const maxJSONBody = 1 << 20

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	Loader        *dataprocessing.SeriesLoader
	Pipeline      *operations.Pipeline
	WebSocketHub  *ws.Hub
	Services      *ServiceContainer
	ErrorHandler  *apierrors.ErrorHandler

	listener net.Listener
	serveErr chan error
	stopOnce sync.Once
	stopErr  error
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Comparison *services.ComparisonService
	Catalog    *services.CatalogService
	Health     *services.HealthService
}

// NewApplication loads configuration from the file and environment and
// builds the application around the global logger.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(cfg, nil)
}

// New wires every component for cfg. A nil logger initializes the global
// infrastructure logger from cfg.Logging.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	if logger == nil {
		if err := cfg.Logging.EnsureLogDir(); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		l, err := infrastructure.InitializeLogger(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
	}

	logger.Info("Application starting",
		slog.String("name", contracts.ApplicationName),
		slog.String("version", contracts.GetVersionString()),
		slog.String("build", contracts.GetFullVersionString()),
		slog.String("data_dir", cfg.Data.Dir))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		logger.Warn("business metrics unavailable, continuing without them",
			slog.String("error", err.Error()))
		metrics = infrastructure.NoopBusinessMetrics()
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  apierrors.NewErrorHandler(logger, cfg.Telemetry.Environment == "development"),
		serveErr:      make(chan error, 1),
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	a.setupRouter()
	a.createServer()

	return a, nil
}

func (a *Application) initializeServices() error {
	loader, err := dataprocessing.NewSeriesLoader(a.Config.Data, a.Logger, a.Metrics)
	if err != nil {
		return err
	}
	a.Loader = loader

	a.Pipeline = operations.NewPipeline(loader,
		operations.NewPipelineTracer(a.OTelProviders.Tracer, a.Metrics), a.Logger)

	a.Services = &ServiceContainer{
		Comparison: services.NewComparisonService(a.Pipeline,
			validation.NewRequestValidator(a.Logger), a.Config.Dashboard, a.Logger),
		Catalog: services.NewCatalogService(loader.Dir(), a.Config.Data, a.Config.Dashboard, a.Logger),
		Health:  services.NewHealthService(loader.Dir(), validation.NewFileValidator(a.Logger), a.Logger),
	}

	a.WebSocketHub = ws.NewHub(a.Metrics, a.Logger)

	a.Logger.Info("Services initialized",
		slog.String("data_dir", loader.Dir()),
		slog.Int("load_concurrency", a.Config.Data.LoadConcurrency))
	return nil
}

func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Only middleware that leaves the ResponseWriter unwrapped may run
	// before the WebSocket upgrade.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Handle("/ws", ws.NewHandler(a.WebSocketHub, a.Services.Comparison,
		a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger))

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		if a.Config.Server.RequestTimeout > 0 {
			r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout))
		}
		r.Use(customMiddleware.SecurityHeaders)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupHTMLRoutes(r)
	})

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	healthHandler := handlers.NewHealthHandler(a.Services.Health, a.Logger, a.ErrorHandler)
	catalogHandler := handlers.NewCatalogHandler(a.Services.Catalog, a.Logger, a.ErrorHandler)
	comparisonHandler := handlers.NewComparisonHandler(a.Services.Comparison,
		charts.OptionsFrom(a.Config.Dashboard), a.Metrics, a.Logger, a.ErrorHandler)
	jsonBody := customMiddleware.NewJSONBody(a.Logger, a.ErrorHandler, maxJSONBody)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/version", healthHandler.Version)

		r.Get("/tickers", catalogHandler.ListTickers)
		r.Get("/tenures", catalogHandler.ListTenures)

		r.With(jsonBody.Handler).Mount("/comparison", comparisonHandler.Routes())
	})
}

func (a *Application) setupHTMLRoutes(r chi.Router) {
	dashboard := handlers.NewDashboardHandler(a.Services.Comparison, a.Services.Catalog,
		a.Config.Dashboard, a.Logger)
	r.Method(http.MethodGet, "/", dashboard)
	r.Method(http.MethodHead, "/", dashboard)
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			customMiddleware.RequestIDHeader,
		},
		ExposedHeaders: []string{customMiddleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Addr(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start binds the listener and serves in the background. Serve errors are
// reported through Run.
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			a.serveErr <- err
		}
	}()

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "Startup health check warnings", slog.String("warnings", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application started successfully",
		slog.String("address", "http://"+ln.Addr().String()),
		slog.String("level", a.Config.Logging.Level))
	return nil
}

// Addr returns the bound listen address, or the configured one before Start.
func (a *Application) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.Server.Addr
}

// Stop gracefully stops the application. Only the first call has effect.
func (a *Application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.stopErr = a.stop(ctx)
	})
	return a.stopErr
}

func (a *Application) stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	// Sessions are closed first; hijacked connections are not tracked by Shutdown.
	a.WebSocketHub.Stop()

	var shutdownErr error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	_ = infrastructure.CloseLogFile()
	return shutdownErr
}

// Run runs the application until interrupted or the server fails
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Received interrupt signal")
	case runErr = <-a.serveErr:
	}

	if err := a.Stop(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// performStartupHealthCheck reports a missing or empty data directory
// without preventing startup; the dashboard then explains the problem.
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	resp := a.Services.Health.Check(ctx)
	switch resp.Status {
	case services.HealthStatusHealthy:
		a.Logger.InfoContext(ctx, "Startup health check passed",
			slog.Int("data_files", resp.DataFiles))
		return nil
	default:
		return fmt.Errorf("%s: data directory %s", resp.Status, resp.Checks["data_directory"])
	}
}
