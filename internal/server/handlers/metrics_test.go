package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/vzahanych/weather-dashboard/internal/server/middlewares"
	"go.uber.org/zap/zaptest"
)

type fixedHTTPMetrics struct{}

func (fixedHTTPMetrics) Snapshot() middlewares.HTTPMetricsSnapshot {
	return middlewares.HTTPMetricsSnapshot{
		RequestsTotal:       map[string]int64{"GET /_200": 3},
		AverageDurationSecs: 0.5,
		ActiveRequests:      1,
	}
}

func TestServeMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(zaptest.NewLogger(t))
	h.SetHTTPMetrics(fixedHTTPMetrics{})

	ctx := context.Background()
	h.RecordWeatherServiceCall(ctx, "open-meteo/forecast", true)
	h.RecordWeatherServiceCall(ctx, "open-meteo/archive", true)
	h.RecordWeatherServiceCall(ctx, "open-meteo/archive", false)
	h.RecordDashboardRender(true)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	h.ServeMetrics(c)

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, `http_requests_total{route_status="GET /_200"} 3`)
	assert.Contains(t, body, "http_request_duration_seconds_avg 0.500000")
	assert.Contains(t, body, "http_active_requests 1")
	assert.Contains(t, body,
		"weather_service_calls_total{service=\"open-meteo/archive\"} 2\n"+
			"weather_service_calls_total{service=\"open-meteo/forecast\"} 1\n")
	assert.Contains(t, body, `weather_service_errors_total{service="open-meteo/archive"} 1`)
	assert.Contains(t, body, "dashboard_unavailable_total 0")
}
