package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/termfolio/backend/internal/api/http"
	"github.com/GriffinCanCode/termfolio/backend/internal/api/middleware"
	"github.com/GriffinCanCode/termfolio/backend/internal/api/ws"
	"github.com/GriffinCanCode/termfolio/backend/internal/content"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/termfolio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/storage"
	"github.com/GriffinCanCode/termfolio/backend/internal/providers/terminal"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *http.Server
	manager *terminal.Manager
	source  *content.Source
	store   *storage.Store
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("Initializing terminal server",
		zap.String("port", cfg.Server.Port),
		zap.String("content", cfg.Content.Path),
		zap.String("storage", cfg.Storage.Driver),
	)

	// Initialize metrics first (needed by other components)
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	source, err := content.NewSource(cfg.Content.Path, logger.Component("content"))
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	source.OnReload = func(_ string, err error) { metrics.RecordContentReload(err) }
	logger.Info("Content loaded", zap.String("version", source.Current().Version))

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	storeLogger := logger.Component("storage")
	store.OnError = func(op string, err error) {
		metrics.RecordStorageError(op)
		storeLogger.Warn("storage operation failed", zap.String("op", op), zap.Error(err))
	}

	manager := terminal.NewManager(terminal.Config{
		Cols:        cfg.Terminal.Cols,
		Rows:        cfg.Terminal.Rows,
		Scrollback:  cfg.Terminal.Scrollback,
		MaxSessions: cfg.Terminal.MaxSessions,
		CharDelay:   cfg.Terminal.CharDelay,
		LineDelay:   cfg.Terminal.LineDelay,
		GameTick:    cfg.Terminal.GameTick,
	}, source, store, metrics, logger)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	limits := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	}
	var keyLimits *middleware.RateLimitConfig
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", limits.RequestsPerSecond),
			zap.Int("burst", limits.Burst),
		)
		router.Use(middleware.RateLimit(limits))
		keyLimits = &limits
	}

	handlers := api.NewHandlers(manager, source, metrics)
	wsHandler := ws.NewHandler(manager, keyLimits, metrics, logger)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/sessions", handlers.ListSessions)
	router.DELETE("/sessions/:id", handlers.DeleteSession)
	router.GET("/terminal", wsHandler.HandleConnection)
	if cfg.Monitoring.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		manager: manager,
		source:  source,
		store:   store,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler exposes the router
func (s *Server) Handler() http.Handler { return s.router }

// Run serves HTTP until ctx is done, then stops accepting connections
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Watch reloads content on change until ctx is done. It returns at once
// when watching is disabled.
func (s *Server) Watch(ctx context.Context) error {
	if !s.config.Content.Watch {
		return nil
	}
	s.logger.Info("Watching content", zap.String("path", s.config.Content.Path))
	return s.source.Watch(ctx)
}

// Close ends every session and releases storage
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.manager.Shutdown(ctx); err != nil {
		s.logger.Error("Sessions did not stop in time", zap.Error(err))
	}

	if err := s.store.Close(); err != nil {
		s.logger.Error("Failed to close storage", zap.Error(err))
		return fmt.Errorf("failed to close storage: %w", err)
	}

	// Sync logger before exit
	_ = s.logger.Sync()
	return nil
}
