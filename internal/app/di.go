// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	accessService "github.com/allisson/appgate/internal/access/service"
	accessUsecase "github.com/allisson/appgate/internal/access/usecase"
	auditRepository "github.com/allisson/appgate/internal/audit/repository"
	auditUsecase "github.com/allisson/appgate/internal/audit/usecase"
	"github.com/allisson/appgate/internal/config"
	"github.com/allisson/appgate/internal/database"
	endpointDomain "github.com/allisson/appgate/internal/endpoint/domain"
	endpointHTTP "github.com/allisson/appgate/internal/endpoint/http"
	endpointService "github.com/allisson/appgate/internal/endpoint/service"
	appHTTP "github.com/allisson/appgate/internal/http"
	"github.com/allisson/appgate/internal/management"
	"github.com/allisson/appgate/internal/metrics"
)

// Version is the application version reported by the CLI and the info
// endpoint.
const Version = "1.0.0"

// Container holds all application dependencies and provides methods to access
// them. It follows the lazy initialization pattern - components are created on
// first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger      *slog.Logger
	logLevelVar *slog.LevelVar
	httpClient  *http.Client
	db          *sql.DB

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Access pipeline
	keyStore          accessService.KeySource
	tokenValidator    accessService.TokenValidator
	permissionsClient accessService.PermissionsClient
	securityUseCase   accessUsecase.SecurityUseCase

	// Audit trail
	decisionRepo    auditUsecase.DecisionRepository
	decisionUseCase auditUsecase.DecisionUseCase

	// Transport
	endpointHandler *endpointHTTP.EndpointHandler
	httpServer      *appHTTP.Server
	metricsServer   *appHTTP.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	httpClientInit      sync.Once
	dbInit              sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	keyStoreInit        sync.Once
	validatorInit       sync.Once
	permissionsInit     sync.Once
	securityInit        sync.Once
	decisionRepoInit    sync.Once
	decisionUseCaseInit sync.Once
	endpointHandlerInit sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance. The logger is built on a
// shared slog.LevelVar so the loggers endpoint can change the level at
// runtime.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// LogLevelVar returns the root log level the application logger was built on.
func (c *Container) LogLevelVar() *slog.LevelVar {
	c.Logger()
	return c.logLevelVar
}

// HTTPClient returns the shared client for outbound platform calls. Per-call
// deadlines come from the request context; the client itself carries the
// configured outbound timeout as a hard upper bound.
func (c *Container) HTTPClient() *http.Client {
	c.httpClientInit.Do(func() {
		c.httpClient = &http.Client{Timeout: c.config.OutboundTimeout}
	})
	return c.httpClient
}

// DB returns the audit database connection.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil if metrics are disabled in configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// KeyStore returns the platform signing key source.
func (c *Container) KeyStore() (accessService.KeySource, error) {
	var err error
	c.keyStoreInit.Do(func() {
		c.keyStore, err = c.initKeyStore()
		if err != nil {
			c.initErrors["keyStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyStore"]; exists {
		return nil, storedErr
	}
	return c.keyStore, nil
}

// TokenValidator returns the bearer token validator.
func (c *Container) TokenValidator() (accessService.TokenValidator, error) {
	var err error
	c.validatorInit.Do(func() {
		c.tokenValidator, err = c.initTokenValidator()
		if err != nil {
			c.initErrors["tokenValidator"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenValidator"]; exists {
		return nil, storedErr
	}
	return c.tokenValidator, nil
}

// PermissionsClient returns the cloud controller permissions client.
func (c *Container) PermissionsClient() (accessService.PermissionsClient, error) {
	var err error
	c.permissionsInit.Do(func() {
		c.permissionsClient, err = c.initPermissionsClient()
		if err != nil {
			c.initErrors["permissionsClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["permissionsClient"]; exists {
		return nil, storedErr
	}
	return c.permissionsClient, nil
}

// SecurityUseCase returns the access decision pipeline.
func (c *Container) SecurityUseCase() (accessUsecase.SecurityUseCase, error) {
	var err error
	c.securityInit.Do(func() {
		c.securityUseCase, err = c.initSecurityUseCase()
		if err != nil {
			c.initErrors["securityUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["securityUseCase"]; exists {
		return nil, storedErr
	}
	return c.securityUseCase, nil
}

// DecisionRepository returns the audit decision repository instance.
func (c *Container) DecisionRepository() (auditUsecase.DecisionRepository, error) {
	var err error
	c.decisionRepoInit.Do(func() {
		c.decisionRepo, err = c.initDecisionRepository()
		if err != nil {
			c.initErrors["decisionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["decisionRepo"]; exists {
		return nil, storedErr
	}
	return c.decisionRepo, nil
}

// DecisionUseCase returns the audit decision use case. A no-op recorder is
// returned when the audit trail is disabled, so the gateway runs without a
// database.
func (c *Container) DecisionUseCase() (auditUsecase.DecisionUseCase, error) {
	var err error
	c.decisionUseCaseInit.Do(func() {
		c.decisionUseCase, err = c.initDecisionUseCase()
		if err != nil {
			c.initErrors["decisionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["decisionUseCase"]; exists {
		return nil, storedErr
	}
	return c.decisionUseCase, nil
}

// EndpointHandler returns the management transport handler with the full
// endpoint catalog wired in.
func (c *Container) EndpointHandler() (*endpointHTTP.EndpointHandler, error) {
	var err error
	c.endpointHandlerInit.Do(func() {
		c.endpointHandler, err = c.initEndpointHandler()
		if err != nil {
			c.initErrors["endpointHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["endpointHandler"]; exists {
		return nil, storedErr
	}
	return c.endpointHandler, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*appHTTP.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil if metrics are disabled in configuration.
func (c *Container) MetricsServer() (*appHTTP.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates a structured logger on top of a runtime-adjustable level
// var seeded from configuration.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	c.logLevelVar = new(slog.LevelVar)
	c.logLevelVar.Set(logLevel)

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: c.logLevelVar,
	})

	return slog.New(handler)
}

// initDB creates and configures the audit database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return businessMetrics, nil
}

// initKeyStore creates the UAA signing key store.
func (c *Container) initKeyStore() (accessService.KeySource, error) {
	if c.config.UAAURL == "" {
		return nil, fmt.Errorf("UAA_URL is required to validate tokens")
	}

	return accessService.NewUAAKeyStore(
		c.HTTPClient(),
		c.config.UAAURL,
		c.config.KeyCacheTTL,
		c.config.OutboundTimeout,
	), nil
}

// initTokenValidator creates the bearer token validator.
func (c *Container) initTokenValidator() (accessService.TokenValidator, error) {
	keyStore, err := c.KeyStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get key store for token validator: %w", err)
	}

	return accessService.NewUAATokenValidator(
		keyStore,
		c.config.TokenIssuer,
		c.config.TokenAudience,
	), nil
}

// initPermissionsClient creates the cloud controller permissions client.
func (c *Container) initPermissionsClient() (accessService.PermissionsClient, error) {
	if c.config.CloudControllerURL == "" {
		return nil, fmt.Errorf("CLOUD_CONTROLLER_URL is required to resolve access levels")
	}

	return accessService.NewCloudControllerClient(c.HTTPClient(), c.config.CloudControllerURL), nil
}

// initSecurityUseCase creates the access decision pipeline with its metrics
// decorator.
func (c *Container) initSecurityUseCase() (accessUsecase.SecurityUseCase, error) {
	if c.config.ApplicationID == "" {
		return nil, fmt.Errorf("APPLICATION_ID is required to resolve access levels")
	}

	validator, err := c.TokenValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to get token validator for security use case: %w", err)
	}

	permissions, err := c.PermissionsClient()
	if err != nil {
		return nil, fmt.Errorf("failed to get permissions client for security use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for security use case: %w", err)
	}

	useCase := accessUsecase.NewSecurityUseCase(
		validator,
		permissions,
		c.config.ApplicationID,
		c.config.OutboundMaxRetries,
		c.config.OutboundRetryBackoff,
	)

	return accessUsecase.NewSecurityUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initDecisionRepository creates the decision repository for the configured
// driver.
func (c *Container) initDecisionRepository() (auditUsecase.DecisionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for decision repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return auditRepository.NewMySQLDecisionRepository(db), nil
	case "postgres":
		return auditRepository.NewPostgreSQLDecisionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDecisionUseCase creates the audit decision use case.
func (c *Container) initDecisionUseCase() (auditUsecase.DecisionUseCase, error) {
	if !c.config.AuditEnabled {
		return auditUsecase.NewNoOpDecisionUseCase(), nil
	}

	decisionRepo, err := c.DecisionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get decision repository for decision use case: %w", err)
	}

	return auditUsecase.NewDecisionUseCase(decisionRepo), nil
}

// initEndpointHandler builds the endpoint catalog and wires each endpoint to
// its handler. The catalog is the single source of truth for what the gateway
// exposes; routes, gating and discovery all derive from it.
func (c *Container) initEndpointHandler() (*endpointHTTP.EndpointHandler, error) {
	logger := c.Logger()

	registry, err := endpointDomain.NewRegistry(
		endpointDomain.EndpointDescriptor{
			ID:                 "info",
			Readable:           true,
			RestrictedReadable: true,
			Discoverable:       true,
		},
		endpointDomain.EndpointDescriptor{
			ID:       "health",
			Readable: true,
		},
		endpointDomain.EndpointDescriptor{
			// Readable at RESTRICTED for self-diagnosis but kept out of the
			// restricted link set; values are masked either way.
			ID:                 "env",
			Readable:           true,
			RestrictedReadable: true,
		},
		endpointDomain.EndpointDescriptor{
			ID:       "loggers",
			Readable: true,
			Writable: true,
		},
		endpointDomain.EndpointDescriptor{
			ID:       "loggers-name",
			Path:     "loggers/{name}",
			Selector: "name",
			Readable: true,
			Writable: true,
		},
		endpointDomain.EndpointDescriptor{
			ID:       "auditevents",
			Readable: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build endpoint registry: %w", err)
	}

	decisions, err := c.DecisionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get decision use case for endpoint handler: %w", err)
	}

	// The health endpoint only probes the audit store when one is configured.
	var auditStore management.Pinger
	if c.config.AuditEnabled {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for health endpoint: %w", err)
		}
		auditStore = db
	}

	loggersHandler := management.NewLoggersHandler(c.LogLevelVar(), logger)

	handlers := map[string]management.Handler{
		"info":         management.NewInfoHandler(c.config.ApplicationName, c.config.ApplicationID, Version),
		"health":       management.NewHealthHandler(auditStore),
		"env":          management.NewEnvHandler(),
		"loggers":      loggersHandler,
		"loggers-name": loggersHandler,
		"auditevents":  management.NewAuditEventsHandler(decisions, logger),
	}

	return endpointHTTP.NewEndpointHandler(
		registry,
		endpointService.NewOperationGate(registry),
		endpointService.NewLinkSetBuilder(registry, c.config.BasePath),
		handlers,
		decisions,
		logger,
	), nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*appHTTP.Server, error) {
	logger := c.Logger()

	securityUseCase, err := c.SecurityUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get security use case for http server: %w", err)
	}

	endpointHandler, err := c.EndpointHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	return appHTTP.NewServer(c.config, securityUseCase, endpointHandler, metricsProvider, logger), nil
}

// initMetricsServer creates the metrics server.
func (c *Container) initMetricsServer() (*appHTTP.MetricsServer, error) {
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return appHTTP.NewMetricsServer(
		c.config.ServerHost,
		c.config.MetricsPort,
		c.Logger(),
		metricsProvider,
	), nil
}
