package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-dashboard/internal/server/middlewares"
	"go.uber.org/zap"
)

// AppMetrics holds application-level metrics: upstream calls and failures.
type AppMetrics struct {
	mutex                sync.RWMutex
	weatherServiceCalls  map[string]int64
	weatherServiceErrors map[string]int64
	dashboardRenders     int64
	dashboardUnavailable int64
}

// HTTPMetricsProvider is implemented by the metrics middleware.
type HTTPMetricsProvider interface {
	Snapshot() middlewares.HTTPMetricsSnapshot
}

type MetricsHandler struct {
	logger     *zap.Logger
	appMetrics *AppMetrics
	http       HTTPMetricsProvider
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		appMetrics: &AppMetrics{
			weatherServiceCalls:  make(map[string]int64),
			weatherServiceErrors: make(map[string]int64),
		},
	}
}

// SetHTTPMetrics attaches the request counters exposed alongside the
// application metrics.
func (h *MetricsHandler) SetHTTPMetrics(p HTTPMetricsProvider) {
	h.http = p
}

// RecordWeatherServiceCall records an upstream weather API call
func (h *MetricsHandler) RecordWeatherServiceCall(ctx context.Context, service string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.weatherServiceCalls[service]++
	if !success {
		h.appMetrics.weatherServiceErrors[service]++
	}
	h.appMetrics.mutex.Unlock()
}

// RecordDashboardRender counts rendered views and those without history.
func (h *MetricsHandler) RecordDashboardRender(available bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.dashboardRenders++
	if !available {
		h.appMetrics.dashboardUnavailable++
	}
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes metrics in Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		snap := h.http.Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		writeCounters(&b, "http_requests_total", "route_status", snap.RequestsTotal)

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AverageDurationSecs, 'f', 6, 64) + "\n")

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n\n")
	}

	h.appMetrics.mutex.RLock()
	defer h.appMetrics.mutex.RUnlock()

	b.WriteString("# HELP weather_service_calls_total Total weather service calls\n")
	b.WriteString("# TYPE weather_service_calls_total counter\n")
	writeCounters(&b, "weather_service_calls_total", "service", h.appMetrics.weatherServiceCalls)

	b.WriteString("\n# HELP weather_service_errors_total Total weather service errors\n")
	b.WriteString("# TYPE weather_service_errors_total counter\n")
	writeCounters(&b, "weather_service_errors_total", "service", h.appMetrics.weatherServiceErrors)

	b.WriteString("\n# HELP dashboard_renders_total Total dashboard renders\n")
	b.WriteString("# TYPE dashboard_renders_total counter\n")
	b.WriteString("dashboard_renders_total " + strconv.FormatInt(h.appMetrics.dashboardRenders, 10) + "\n")

	b.WriteString("\n# HELP dashboard_unavailable_total Dashboard renders without historical data\n")
	b.WriteString("# TYPE dashboard_unavailable_total counter\n")
	b.WriteString("dashboard_unavailable_total " + strconv.FormatInt(h.appMetrics.dashboardUnavailable, 10) + "\n")

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func writeCounters(b *strings.Builder, name, label string, values map[string]int64) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(name + "{" + label + "=\"" + k + "\"} " + strconv.FormatInt(values[k], 10) + "\n")
	}
}
