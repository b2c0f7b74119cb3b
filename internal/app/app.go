package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"ensaio/internal/config"
	apierrors "ensaio/internal/errors"
	"ensaio/internal/infrastructure"
	customMiddleware "ensaio/internal/middleware"
	"ensaio/internal/services"
	"ensaio/internal/sheetstore"
	handlers "ensaio/internal/transport/http"
	"ensaio/pkg/contracts"
)

// AppName is shown in startup logs and the service manager
const AppName = "Ensaio - Simulação de Ensaio"

// Application wires configuration, the record store, services and the router
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Store         sheetstore.RecordStore
	Simulation    *services.SimulationService
	HealthService *services.HealthService
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics

	listener net.Listener
	group    *errgroup.Group
	groupCtx context.Context
}

// Option customizes NewApplication
type Option func(*Application)

// WithStore replaces the store NewApplication would build from config
func WithStore(store sheetstore.RecordStore) Option {
	return func(a *Application) {
		a.Store = store
	}
}

// NewApplication creates a new application instance with dependency injection
func NewApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	app := &Application{
		Config: cfg,
		Logger: logger,
	}
	for _, opt := range opts {
		opt(app)
	}

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.Bool("offline", cfg.Sheets.Offline))

	providers, err := infrastructure.InitializeOTel(OTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	app.OTelProviders = providers

	metrics, err := infrastructure.CreateBusinessMetrics(app.OTelProviders.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	app.Metrics = metrics

	if err := app.initializeServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// OTelConfig maps the telemetry section onto the providers' configuration
func OTelConfig(t config.TelemetryConfig) *infrastructure.OTelConfig {
	cfg := infrastructure.DefaultOTelConfig()
	cfg.ServiceVersion = contracts.Version
	if t.Environment != "" {
		cfg.Environment = t.Environment
	}
	cfg.EnableTracing = t.EnableTracing
	cfg.EnableMetrics = t.EnableMetrics
	cfg.TraceExporter = t.TraceExporter
	cfg.MetricExporter = t.MetricExporter
	cfg.SampleRatio = t.SampleRatio
	return cfg
}

// initializeServices builds the record store, then the services on top of it
func (a *Application) initializeServices(ctx context.Context) error {
	if a.Store == nil {
		store, err := NewStore(ctx, a.Config.Sheets, a.Logger)
		if err != nil {
			return err
		}
		a.Store = store
	}
	a.Store = sheetstore.NewInstrumented(a.Store, a.OTelProviders.Tracer, a.Metrics, a.Logger)

	a.Simulation = services.NewSimulationService(a.Store, a.Logger,
		services.WithSheetNames(a.Config.Sheets.MRSheet, a.Config.Sheets.DPSheet),
		services.WithTelemetry(a.OTelProviders.Tracer, a.Metrics),
	)
	a.HealthService = services.NewHealthService(contracts.Version, contracts.BuildTime, a.Store, a.Config.Sheets.Offline, a.Logger)
	return nil
}

// setupRouter applies middleware in the order RequestID, RealIP, OTel,
// Logger, Recoverer, security headers, CORS, rate limit
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, a.isDevelopmentMode())

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	// scrapes skip request logging and tracing
	metricsHandler := handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, errorHandler)
	if metricsHandler.Enabled() {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(errorHandler))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(a.getCORSConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				errorHandler,
			).Handler)
		}

		a.setupAPIRoutes(r, errorHandler)
		a.setupHTMLRoutes(r, errorHandler)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	validator := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)
	simulationHandler := handlers.NewSimulationHandler(a.Simulation, validator, errorHandler, a.Logger)
	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/simulations", simulationHandler.Routes())
		r.Get("/schemas/{mode}", simulationHandler.GetSchema)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
	})
}

// setupHTMLRoutes serves the form pages at / and /{mode}
func (a *Application) setupHTMLRoutes(r chi.Router, errorHandler *apierrors.ErrorHandler) {
	formHandler := handlers.NewFormHandler(a.Simulation, errorHandler, a.Logger)
	r.Get("/", handlers.RedirectToDefaultMode)
	r.Get("/{mode}", formHandler.ShowForm)
	r.Post("/{mode}", formHandler.Submit)
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// isDevelopmentMode enables stack traces in problem responses
func (a *Application) isDevelopmentMode() bool {
	return a.Config.Telemetry.Environment == "development"
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           net.JoinHostPort(a.Config.Server.Host, strconv.Itoa(a.Config.Server.Port)),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start binds the listener and serves in the background. Bind failures are
// returned here; later serve failures end the context passed to Wait.
func (a *Application) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln
	a.group, a.groupCtx = errgroup.WithContext(ctx)

	a.group.Go(func() error {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			return err
		}
		return nil
	})

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", a.URL()),
		slog.Bool("offline", a.Config.Sheets.Offline))
	return nil
}

// URL is the local address of the running server
func (a *Application) URL() string {
	addr := a.Server.Addr
	if a.listener != nil {
		addr = a.listener.Addr().String()
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// Done is closed when the server stops on its own
func (a *Application) Done() <-chan struct{} {
	if a.groupCtx == nil {
		return nil
	}
	return a.groupCtx.Done()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if a.group != nil {
		if err := a.group.Wait(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run serves until ctx is cancelled or the server fails, then shuts down
func (a *Application) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		a.Logger.InfoContext(ctx, "Received shutdown signal")
	case <-a.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout+time.Second)
	defer cancel()
	return a.Stop(stopCtx)
}
