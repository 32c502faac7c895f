// Package httpapi provides the councild HTTP surface: council creation,
// the live SSE council stream, overtime, session lookup, and the
// balance/horoscope side features.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/councilhq/councild/internal/balance"
	"github.com/councilhq/councild/internal/council"
	"github.com/councilhq/councild/internal/horoscope"
	"github.com/councilhq/councild/internal/ratelimit"
	"github.com/councilhq/councild/internal/session"
)

// Runner is the orchestration capability the server drives. It matches
// *council.Orchestrator and lets handler tests substitute a stub.
type Runner interface {
	Run(ctx context.Context, in council.RunInput) ([]council.VerdictLine, error)
	Overtime(ctx context.Context, in council.OvertimeInput) error
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server wires the echo engine to the council core and its stores.
type Server struct {
	echo       *echo.Echo
	runner     Runner
	sessions   session.Store
	votes      balance.VoteStore
	horoscopes *horoscope.Generator
	limiter    *ratelimit.DailyLimiter
	metrics    *Metrics
	logger     *zap.Logger
	config     *Config

	modelID      string
	modelDisplay string
}

// Options carries the server's collaborators.
type Options struct {
	Runner       Runner
	Sessions     session.Store
	Votes        balance.VoteStore
	Horoscopes   *horoscope.Generator
	Limiter      *ratelimit.DailyLimiter
	Metrics      *Metrics
	Logger       *zap.Logger
	Config       *Config
	ModelID      string
	ModelDisplay string
}

// NewServer creates the HTTP server and registers all routes.
func NewServer(opts Options) (*Server, error) {
	if opts.Runner == nil {
		return nil, fmt.Errorf("runner cannot be nil")
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("session store cannot be nil")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 8080}
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			opts.Logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:         e,
		runner:       opts.Runner,
		sessions:     opts.Sessions,
		votes:        opts.Votes,
		horoscopes:   opts.Horoscopes,
		limiter:      opts.Limiter,
		metrics:      metrics,
		logger:       opts.Logger,
		config:       cfg,
		modelID:      opts.ModelID,
		modelDisplay: opts.ModelDisplay,
	}

	s.registerRoutes()
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")
	api.POST("/council", s.handleCreateCouncil)
	api.GET("/council/:id", s.handleGetCouncil)
	api.GET("/council/:id/stream", s.handleCouncilStream)
	api.POST("/council/:id/overtime", s.handleOvertime)
	api.GET("/stats", s.handleStats)

	api.GET("/balance/questions", s.handleBalanceQuestions)
	api.POST("/balance/vote", s.handleBalanceVote)

	api.GET("/horoscope/:type/:date", s.handleHoroscope)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Echo exposes the underlying engine for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// clientIP extracts the originating client address for rate limiting.
func clientIP(c echo.Context) string {
	if fwd := c.Request().Header.Get("X-Forwarded-For"); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	if real := c.Request().Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return c.RealIP()
}
