package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/monitor"
	"github.com/nao1215/rivalscope/internal/pipeline"
)

const (
	// ShutdownTimeout bounds how long Run waits for in-flight requests.
	ShutdownTimeout = 15 * time.Second

	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// Store is the read side of the database used by the API.
type Store interface {
	ListCompetitors(ctx context.Context, owner string) ([]model.Competitor, error)
	GetCompetitorByID(ctx context.Context, owner, id string) (*model.Competitor, error)
	DeleteCompetitor(ctx context.Context, owner, id string) error
	LatestMetrics(ctx context.Context, competitorID string) (*model.SeoMetricsSnapshot, error)
	ListMetrics(ctx context.Context, competitorID string, limit int) ([]model.SeoMetricsSnapshot, error)
	ListSuggestions(ctx context.Context, owner, suggestionType string, limit int) ([]model.Suggestion, error)
	ListAlerts(ctx context.Context, owner string, unreadOnly bool, limit int) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, owner, id string) error
}

// MonitorRunner runs one monitoring pass for an owner.
type MonitorRunner interface {
	RunOnce(ctx context.Context, owner string) (monitor.Summary, error)
}

// Metrics records requests and serves the prometheus exposition.
type Metrics interface {
	ObserveRequest(method, route string, status int)
	Handler() http.Handler
}

// Server is the HTTP API.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server

	analyzer pipeline.Analyzer
	store    Store
	monitor  MonitorRunner
	metrics  Metrics
	logger   *slog.Logger

	defaultOwner string
	rateLimit    float64
	rateBurst    int
}

// Option configures a Server.
type Option func(*Server)

// WithMonitor enables POST /api/monitor.
func WithMonitor(m MonitorRunner) Option {
	return func(s *Server) {
		s.monitor = m
	}
}

// WithMetrics records request metrics and serves GET /metrics.
func WithMetrics(m Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultOwner sets the owner used when a request names none.
func WithDefaultOwner(owner string) Option {
	return func(s *Server) {
		if owner != "" {
			s.defaultOwner = owner
		}
	}
}

// WithRateLimit limits each client to r requests per second with the given
// burst. A non-positive r disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(s *Server) {
		s.rateLimit = r
		s.rateBurst = burst
	}
}

// New builds the router and the http.Server listening on addr.
func New(addr string, analyzer pipeline.Analyzer, store Store, opts ...Option) *Server {
	s := &Server{
		analyzer:     analyzer,
		store:        store,
		logger:       slog.Default(),
		defaultOwner: config.DefaultOwner,
		rateLimit:    config.DefaultRateLimit,
		rateBurst:    config.DefaultRateBurst,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(recovery(s.logger))
	router.Use(requestLogger(s.logger, s.metrics))
	if s.rateLimit > 0 {
		router.Use(newClientLimiter(s.rateLimit, s.rateBurst).middleware())
	}

	api := router.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/analyze", s.analyze)
		api.GET("/competitors", s.listCompetitors)
		api.DELETE("/competitors/:id", s.deleteCompetitor)
		api.GET("/competitors/:id/metrics", s.latestMetrics)
		api.GET("/competitors/:id/history", s.metricsHistory)
		api.GET("/suggestions", s.listSuggestions)
		api.GET("/alerts", s.listAlerts)
		api.POST("/alerts/:id/read", s.markAlertRead)
		api.POST("/monitor", s.runMonitor)
	}

	if s.metrics != nil {
		router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", "timeout", ShutdownTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
