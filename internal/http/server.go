package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	accessUseCase "github.com/allisson/appgate/internal/access/usecase"
	"github.com/allisson/appgate/internal/config"
	endpointHTTP "github.com/allisson/appgate/internal/endpoint/http"
	"github.com/allisson/appgate/internal/metrics"
)

// Server is the public management server. The middleware order is fixed:
// recovery, logging, request id, CORS, HTTP metrics, then per base path rate
// limiting and the security middleware in front of the endpoint routes. CORS
// sits before security so preflight requests are answered without a token.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer assembles the Gin engine and wraps it in an http.Server.
func NewServer(
	cfg *config.Config,
	securityUseCase accessUseCase.SecurityUseCase,
	endpointHandler *endpointHTTP.EndpointHandler,
	metricsProvider *metrics.Provider,
	logger *slog.Logger,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))
	router.Use(requestid.New())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if cfg.MetricsEnabled && metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	base := router.Group(cfg.BasePath)
	if cfg.RateLimitEnabled {
		base.Use(endpointHTTP.RateLimitMiddleware(
			cfg.RateLimitRequestsPerSec,
			cfg.RateLimitBurst,
			logger,
		))
	}
	base.Use(endpointHTTP.SecurityMiddleware(securityUseCase, logger))

	base.GET("", endpointHandler.Discovery)
	base.GET("/:endpoint", endpointHandler.Dispatch)
	base.POST("/:endpoint", endpointHandler.Dispatch)
	base.GET("/:endpoint/:selector", endpointHandler.Dispatch)
	base.POST("/:endpoint/:selector", endpointHandler.Dispatch)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
