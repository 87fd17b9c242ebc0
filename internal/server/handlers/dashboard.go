package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/server/utils"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Dashboard is the subset of *dashboard.Dashboard the HTTP layer needs.
type Dashboard interface {
	Render(ctx context.Context, req dashboard.Request) (*dashboard.ViewModel, error)
	History(ctx context.Context, city, unit string) (weather.ObservationTable, error)
	Forecast(ctx context.Context, city, unit string) (weather.ForecastTable, error)
	Cities() []weather.City
	Initial() dashboard.InitialState
}

type DashboardHandler struct {
	dashboard Dashboard
	metrics   *MetricsHandler
	logger    *zap.Logger
}

func NewDashboardHandler(d Dashboard, metrics *MetricsHandler, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: d,
		metrics:   metrics,
		logger:    logger,
	}
}

// Index serves the page shell. The page loads its data from GetDashboard.
func (h *DashboardHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Initial": h.dashboard.Initial(),
		"Cities":  h.dashboard.Cities(),
	})
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req DashboardRequest
	if !h.bind(c, reqLogger, &req) {
		return
	}

	vm, err := h.dashboard.Render(ctx, req.toDashboard())
	if err != nil {
		h.renderError(c, reqLogger, err)
		return
	}

	utils.GetSpanFromGinContext(c).SetAttributes(attribute.Bool("dashboard.available", vm.Available))
	if h.metrics != nil {
		h.metrics.RecordDashboardRender(vm.Available)
	}

	c.JSON(http.StatusOK, vm)
}

func (h *DashboardHandler) GetCities(c *gin.Context) {
	c.JSON(http.StatusOK, CitiesResponse{
		Cities:  h.dashboard.Cities(),
		Initial: h.dashboard.Initial(),
	})
}

func (h *DashboardHandler) GetHistory(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req TableRequest
	if !h.bind(c, reqLogger, &req) {
		return
	}

	table, err := h.dashboard.History(ctx, req.City, req.Unit)
	if err != nil {
		h.renderError(c, reqLogger, err)
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{City: h.cityOrDefault(req.City), Unit: req.Unit, Table: table})
}

func (h *DashboardHandler) GetForecast(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req TableRequest
	if !h.bind(c, reqLogger, &req) {
		return
	}

	table, err := h.dashboard.Forecast(ctx, req.City, req.Unit)
	if err != nil {
		h.renderError(c, reqLogger, err)
		return
	}

	c.JSON(http.StatusOK, ForecastResponse{City: h.cityOrDefault(req.City), Unit: req.Unit, Table: table})
}

func (h *DashboardHandler) cityOrDefault(city string) string {
	if city == "" {
		return h.dashboard.Initial().City
	}
	return city
}

// bind decodes the query into req and validates it, writing a 400 on
// failure.
func (h *DashboardHandler) bind(c *gin.Context, reqLogger *zap.Logger, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return false
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		reqLogger.Warn("Request validation failed", zap.Int("errors", len(errs)))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Invalid request parameters",
			Code:   "INVALID_PARAMS",
			Fields: errs,
		})
		return false
	}

	return true
}

func (h *DashboardHandler) renderError(c *gin.Context, reqLogger *zap.Logger, err error) {
	if errors.Is(err, dashboard.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}

	reqLogger.Error("Failed to build dashboard", zap.Error(err))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "Failed to build dashboard",
		Code:  "DASHBOARD_ERROR",
	})
}
