package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/server/handlers"
	"github.com/vzahanych/weather-dashboard/internal/server/middlewares"
	"github.com/vzahanych/weather-dashboard/internal/service"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.uber.org/zap"
)

//go:embed web/index.html
var webFS embed.FS

type Server struct {
	cfg     config.ServerConfig
	engine  *gin.Engine
	server  *http.Server
	metrics *handlers.MetricsHandler
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

// NewServer wires the Open-Meteo fetchers, the dashboard and the HTTP
// routes from cfg.
func NewServer(cfg *config.Config, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	registry, err := weather.NewRegistry(cfg.Weather.CityList())
	if err != nil {
		return nil, fmt.Errorf("city registry: %w", err)
	}

	svc, err := service.NewOpenMeteoServiceWithConfig(cfg.Weather, logger, tele)
	if err != nil {
		return nil, fmt.Errorf("weather service: %w", err)
	}

	metrics := handlers.NewMetricsHandler(logger)
	svc.SetMetricsRecorder(metrics)

	initial, err := dashboard.InitialStateFromConfig(cfg.Dashboard)
	if err != nil {
		return nil, fmt.Errorf("dashboard defaults: %w", err)
	}

	dash, err := dashboard.New(svc, registry, initial, logger, tele)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return newServer(cfg.Server, dash, metrics, logger, tele)
}

func newServer(cfg config.ServerConfig, dash handlers.Dashboard, metrics *handlers.MetricsHandler, logger *zap.Logger, tele *telemetry.Telemetry) (*Server, error) {
	page, err := template.ParseFS(webFS, "web/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.SetHTMLTemplate(page)

	httpMetrics := middlewares.NewMetricsMiddleware(logger, tele)
	metrics.SetHTTPMetrics(httpMetrics)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, true))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		metrics: metrics,
		logger:  logger,
		tele:    tele,
	}
	s.setupRoutes(dash)

	return s, nil
}

func (s *Server) setupRoutes(dash handlers.Dashboard) {
	dh := handlers.NewDashboardHandler(dash, s.metrics, s.logger)

	// Page
	s.engine.GET("/", dh.Index)

	// Business endpoints
	api := s.engine.Group("/api")
	api.GET("/dashboard", dh.GetDashboard)
	api.GET("/cities", dh.GetCities)
	api.GET("/history", dh.GetHistory)
	api.GET("/forecast", dh.GetForecast)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger, func() bool { return len(dash.Cities()) > 0 })
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	// Monitoring endpoints
	s.engine.GET("/metrics", s.metrics.ServeMetrics)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeout) * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
