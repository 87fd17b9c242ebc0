package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/server/handlers"
	"github.com/vzahanych/weather-dashboard/internal/server/middlewares"
	"github.com/vzahanych/weather-dashboard/internal/units"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

type stubService struct {
	history  weather.ObservationTable
	forecast weather.ForecastTable
}

func (s *stubService) FetchHistory(context.Context, weather.City, units.TemperatureUnit) weather.ObservationTable {
	return s.history
}

func (s *stubService) FetchForecast(context.Context, weather.City, units.TemperatureUnit) weather.ForecastTable {
	return s.forecast
}

func (s *stubService) Name() string { return "stub" }

func sampleService() *stubService {
	obs := make([]weather.ObservationRow, 7)
	fc := make([]weather.ForecastRow, 7)
	for i := range obs {
		wind := 8.0
		obs[i] = weather.ObservationRow{
			Date:          weather.NewDate(2024, time.May, 1+i),
			TempMax:       weather.Float(72),
			TempMin:       weather.Float(55),
			Precipitation: weather.Float(2.54),
			WindSpeed:     &wind,
			Humidity:      weather.SyntheticHumidity(&wind),
		}
		fc[i] = weather.ForecastRow{
			Date:          weather.NewDate(2024, time.May, 8+i),
			TempMax:       weather.Float(75),
			TempMin:       weather.Float(58),
			Precipitation: weather.Float(0),
		}
	}
	return &stubService{history: weather.NewObservationTable(obs), forecast: weather.NewForecastTable(fc)}
}

func newTestServer(t *testing.T, svc *stubService) *Server {
	t.Helper()

	logger := zaptest.NewLogger(t)
	cfg := config.NewDefaultConfig()

	registry, err := weather.NewRegistry(cfg.Weather.CityList())
	require.NoError(t, err)
	initial, err := dashboard.InitialStateFromConfig(cfg.Dashboard)
	require.NoError(t, err)
	dash, err := dashboard.New(svc, registry, initial, logger, telemetry.Disabled())
	require.NoError(t, err)

	s, err := newServer(cfg.Server, dash, handlers.NewMetricsHandler(logger), logger, telemetry.Disabled())
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboardEndpoint(t *testing.T) {
	s := newTestServer(t, sampleService())

	rec := get(t, s, "/api/dashboard?city=Lexington,%20KY&unit=fahrenheit&wind_unit=kmh&precip_unit=mm")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middlewares.RequestIDHeader))

	var vm dashboard.ViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	assert.True(t, vm.Available)
	assert.Equal(t, "Lexington, KY", vm.City)
	assert.Equal(t, "2024-05-01", vm.StartDate.String())
	assert.Len(t, vm.Charts, 4)
	assert.Equal(t, "17.78 mm", vm.Cards[2].Value)
	assert.Equal(t, "8.0 km/h", vm.Cards[3].Value)
}

func TestDashboardEndpoint_Unavailable(t *testing.T) {
	svc := sampleService()
	svc.history = weather.NewObservationTable(nil)
	s := newTestServer(t, svc)

	rec := get(t, s, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var vm dashboard.ViewModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vm))
	assert.False(t, vm.Available)
	assert.Equal(t, dashboard.MessageDataUnavailable, vm.Message)
}

func TestDashboardEndpoint_BadRequests(t *testing.T) {
	s := newTestServer(t, sampleService())

	for _, target := range []string{
		"/api/dashboard?unit=kelvin",
		"/api/dashboard?wind_unit=knots",
		"/api/dashboard?start_date=yesterday",
		"/api/dashboard?city=Atlantis",
		"/api/dashboard?start_date=2024-05-06&end_date=2024-05-01",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(t, s, target)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "INVALID_PARAMS", resp.Code)
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, sampleService())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middlewares.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(middlewares.RequestIDHeader))
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t, sampleService())

	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Kentucky Weather Dashboard</title>")
	assert.Contains(t, body, `<option value="Louisville, KY" selected>`)
	assert.Contains(t, body, `<option value="Bowling Green, KY">`)
	assert.Contains(t, body, `value="fahrenheit" checked`)
}

func TestCitiesEndpoint(t *testing.T) {
	s := newTestServer(t, sampleService())

	rec := get(t, s, "/api/cities")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Cities  []weather.City `json:"cities"`
		Initial struct {
			City string `json:"city"`
		} `json:"initial"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Cities, 3)
	assert.Equal(t, "Louisville, KY", resp.Initial.City)
}

func TestTableEndpoints(t *testing.T) {
	s := newTestServer(t, sampleService())

	rec := get(t, s, "/api/history?city=Bowling%20Green,%20KY")
	require.Equal(t, http.StatusOK, rec.Code)

	var history struct {
		City  string `json:"city"`
		Table struct {
			Columns []string          `json:"columns"`
			Rows    []json.RawMessage `json:"rows"`
		} `json:"table"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Equal(t, "Bowling Green, KY", history.City)
	assert.Equal(t, weather.ObservationColumns, history.Table.Columns)
	assert.Len(t, history.Table.Rows, 7)

	rec = get(t, s, "/api/forecast")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"city":"Louisville, KY"`)

	rec = get(t, s, "/api/forecast?city=Nowhere")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, sampleService())

	for _, target := range []string{"/health", "/health/live", "/health/ready"} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`, target)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	svc := sampleService()
	s := newTestServer(t, svc)

	get(t, s, "/api/dashboard")
	svc.history = weather.NewObservationTable(nil)
	get(t, s, "/api/dashboard")

	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))

	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{route_status="GET /api/dashboard_200"} 2`)
	assert.Contains(t, body, "dashboard_renders_total 2")
	assert.Contains(t, body, "dashboard_unavailable_total 1")
}
