package service

import (
	"context"

	"github.com/vzahanych/weather-dashboard/internal/units"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

// WeatherService fetches daily tables for a city. Implementations never
// return an error: any failure yields an empty table with the full schema.
type WeatherService interface {
	FetchHistory(ctx context.Context, city weather.City, unit units.TemperatureUnit) weather.ObservationTable
	FetchForecast(ctx context.Context, city weather.City, unit units.TemperatureUnit) weather.ForecastTable
	Name() string
}

// MetricsRecorder receives one call per upstream request.
type MetricsRecorder interface {
	RecordWeatherServiceCall(ctx context.Context, service string, success bool)
}
