// Package server provides the crash intake and dashboard HTTP endpoints.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tliron/commonlog"
	"github.com/vinumeris/crashfx/internal/engine"
	"github.com/vinumeris/crashfx/internal/metrics"
	"github.com/vinumeris/crashfx/internal/report"
	"github.com/vinumeris/crashfx/internal/store"
)

// placeholderPassword is the password shipped in example configs.
const placeholderPassword = "CHANGE_ME"

// ErrInsecurePassword is returned by New when the dashboard password is unset
// or still the placeholder.
var ErrInsecurePassword = errors.New("dashboard password is unset or still " + placeholderPassword)

var log = commonlog.GetLogger("crashfx.server")

// CrashStore persists and retrieves crashes.
type CrashStore interface {
	Save(ctx context.Context, c store.Crash) (store.Crash, error)
	Get(ctx context.Context, id string) (store.Crash, error)
}

// Config holds HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	MaxUploadBytes int64
	Username       string
	Password       string
}

// Deps are the collaborators the server delegates to.
type Deps struct {
	Store    CrashStore
	Reports  *report.Builder
	Engine   *engine.Engine
	Registry *prometheus.Registry
}

// Server provides HTTP endpoints for crashfx.
type Server struct {
	echo     *echo.Echo
	store    CrashStore
	reports  *report.Builder
	engine   *engine.Engine
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	config   *Config
}

// New creates a new HTTP server.
func New(deps Deps, cfg *Config) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if deps.Reports == nil || deps.Engine == nil {
		return nil, fmt.Errorf("report builder and template engine are required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Password == "" || cfg.Password == placeholderPassword {
		return nil, ErrInsecurePassword
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 1 << 20
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger)

	s := &Server{
		echo:     e,
		store:    deps.Store,
		reports:  deps.Reports,
		engine:   deps.Engine,
		metrics:  metrics.New(deps.Registry),
		registry: deps.Registry,
		config:   cfg,
	}
	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	s.echo.POST("/crashfx/upload", s.handleUpload)

	auth := middleware.BasicAuth(s.checkCredentials)
	s.echo.GET("/crashfx/dashboard", s.handleDashboard, auth)
	s.echo.GET("/crashfx/dashboard/chart.png", s.handleChart, auth)

	api := s.echo.Group("/crashfx/api", auth)
	api.GET("/tops", s.handleTops)
	api.GET("/crashes/:id", s.handleCrash)
}

func (s *Server) checkCredentials(username, password string, _ echo.Context) (bool, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.config.Password)) == 1
	if !userOK || !passOK {
		log.Warningf("rejected dashboard login for user %q", username)
	}
	return userOK && passOK, nil
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		log.Infof("%s %s %d %s request_id=%s",
			c.Request().Method,
			c.Request().RequestURI,
			c.Response().Status,
			time.Since(start),
			c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return nil
	}
}

// Handler exposes the router, for embedding and tests.
func (s *Server) Handler() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	log.Infof("starting http server on %s", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Infof("shutting down http server")
	return s.echo.Shutdown(ctx)
}
