package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "dvsacheck/docs" // swagger docs
	"dvsacheck/pkg/config"
	"dvsacheck/pkg/handlers"
	"dvsacheck/pkg/logger"
	"dvsacheck/pkg/middleware"
)

// Server constants. WriteTimeout covers a full browser check.
const (
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 3 * time.Minute
	DefaultIdleTimeout  = 120 * time.Second
)

// HTTPServer represents the HTTP server component
type HTTPServer struct {
	server     *http.Server
	engine     *gin.Engine
	config     *config.Config
	handlerSvc *handlers.HandlerService
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(cfg *config.Config, handlerSvc *handlers.HandlerService) *HTTPServer {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.Info("Initializing HTTP server", zap.String("listen_addr", addr))

	s := &HTTPServer{
		engine:     gin.New(),
		config:     cfg,
		handlerSvc: handlerSvc,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}

	logger.Info("HTTP server initialized", zap.String("listen_addr", addr))
	return s
}

// Handler returns the routed gin engine
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// setupRoutes configures all HTTP routes
func (s *HTTPServer) setupRoutes() {
	s.addMiddleware()

	s.engine.GET("/health", s.handlerSvc.HealthCheck)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if s.config.Server.EnableSwagger {
		s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	s.setupAPIRoutes()

	s.engine.NoRoute(s.handlerSvc.NotFound)

	logger.Info("HTTP routes configured")
}

// addMiddleware adds all middleware to the engine
func (s *HTTPServer) addMiddleware() {
	s.engine.Use(
		middleware.RequestID(),
		middleware.GinZapLogger(logger.Logger),
		middleware.Recovery(),
		cors.New(corsConfig(s.config.Server.AllowedOrigins)),
		middleware.ErrorHandler(),
	)
}

// setupAPIRoutes configures the /api routes behind the per-client rate limit
func (s *HTTPServer) setupAPIRoutes() {
	api := s.engine.Group("/api")

	if rl := s.config.RateLimit; rl != nil && rl.Enabled {
		limiter := middleware.NewRateLimiter(rl.WindowDuration(), rl.MaxRequests)
		api.Use(limiter.Middleware())
		logger.Info("API rate limit enabled",
			zap.Duration("window", rl.WindowDuration()),
			zap.Int("max_requests", rl.MaxRequests))
	}

	api.POST("/check-tests", s.handlerSvc.CheckTests)
	api.GET("/watch/status", s.handlerSvc.WatchStatus)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// Start starts the HTTP server; it blocks until the server stops
func (s *HTTPServer) Start() error {
	logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	return nil
}
