package cmd

import (
	"bytes"
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
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/logger"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
)

func TestWriteObservationTable(t *testing.T) {
	var buf bytes.Buffer
	writeObservationTable(&buf, weather.NewObservationTable([]weather.ObservationRow{
		{Date: weather.NewDate(2024, time.May, 1), TempMax: weather.Float(72.5), TempMin: nil, Precipitation: weather.Float(0), WindSpeed: weather.Float(9), Humidity: 69},
	}))

	out := buf.String()
	assert.Contains(t, out, "temp_max")
	assert.Contains(t, out, "2024-05-01")
	assert.Contains(t, out, "72.5")
	assert.Contains(t, out, " - ")
	assert.Contains(t, out, "69")
}

func TestWriteEmptyTables(t *testing.T) {
	var buf bytes.Buffer
	writeObservationTable(&buf, weather.NewObservationTable(nil))
	writeForecastTable(&buf, weather.NewForecastTable(nil))

	assert.Equal(t, "Data unavailable\nError loading data\n", buf.String())
}

// openMeteoEcho answers any daily request with one row per requested day.
func openMeteoEcho(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		start, err := weather.ParseDate(q.Get("start_date"))
		require.NoError(t, err)

		daily := map[string]any{}
		var dates []string
		var values []float64
		for i := 0; i < 7; i++ {
			dates = append(dates, start.AddDays(i).String())
			values = append(values, float64(10+i))
		}
		daily["time"] = dates
		for _, v := range strings.Split(q.Get("daily"), ",") {
			daily[v] = values
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"daily": daily})
	}))
}

func TestRunFetch(t *testing.T) {
	upstream := openMeteoEcho(t)
	defer upstream.Close()

	cfg = config.NewDefaultConfig()
	cfg.Weather.ArchiveBaseURL = upstream.URL + "/v1/archive"
	cfg.Weather.ForecastBaseURL = upstream.URL + "/v1/forecast"
	log = logger.NewNop()
	tele = telemetry.Disabled()
	fetchCity, fetchUnit, fetchQuiet = "Lexington, KY", "celsius", true

	var buf bytes.Buffer
	fetchCmd.SetOut(&buf)
	fetchCmd.SetContext(context.Background())

	require.NoError(t, runFetch(fetchCmd, nil))

	out := buf.String()
	assert.Contains(t, out, "Lexington, KY: last 7 days (°C)")
	assert.Contains(t, out, "Lexington, KY: next 7 days (°C)")
	assert.Contains(t, out, "wind_speed")
	assert.NotContains(t, out, "Data unavailable")
	assert.NotContains(t, out, "Error loading data")
}

func TestRunFetch_UnknownCity(t *testing.T) {
	cfg = config.NewDefaultConfig()
	log = logger.NewNop()
	tele = telemetry.Disabled()
	fetchCity, fetchUnit = "Atlantis", ""

	fetchCmd.SetContext(context.Background())
	assert.ErrorIs(t, runFetch(fetchCmd, nil), weather.ErrUnknownCity)
}
