package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/service"
	"github.com/vzahanych/weather-dashboard/internal/units"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/logger"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid dashboard request")

// InitialState is the control state the page opens with.
type InitialState struct {
	Title      string                  `json:"title"`
	City       string                  `json:"city"`
	Unit       units.TemperatureUnit   `json:"unit"`
	WindUnit   units.WindUnit          `json:"wind_unit"`
	PrecipUnit units.PrecipitationUnit `json:"precip_unit"`
}

// Request is one dashboard interaction. Empty fields fall back to the
// initial state; empty dates fall back to the span of the fetched history.
type Request struct {
	City       string
	Unit       string
	WindUnit   string
	PrecipUnit string
	StartDate  string
	EndDate    string
}

type Dashboard struct {
	service  service.WeatherService
	registry *weather.Registry
	initial  InitialState
	logger   *zap.Logger
	tele     *telemetry.Telemetry
}

func InitialStateFromConfig(cfg config.DashboardConfig) (InitialState, error) {
	unit, err := units.ParseTemperatureUnit(cfg.DefaultUnit)
	if err != nil {
		return InitialState{}, err
	}
	wind, err := units.ParseWindUnit(cfg.DefaultWindUnit)
	if err != nil {
		return InitialState{}, err
	}
	precip, err := units.ParsePrecipitationUnit(cfg.DefaultPrecipUnit)
	if err != nil {
		return InitialState{}, err
	}
	return InitialState{
		Title:      cfg.Title,
		City:       cfg.DefaultCity,
		Unit:       unit,
		WindUnit:   wind,
		PrecipUnit: precip,
	}, nil
}

func New(svc service.WeatherService, registry *weather.Registry, initial InitialState, logger *zap.Logger, tele *telemetry.Telemetry) (*Dashboard, error) {
	if _, err := registry.Lookup(initial.City); err != nil {
		return nil, fmt.Errorf("initial city: %w", err)
	}
	return &Dashboard{
		service:  svc,
		registry: registry,
		initial:  initial,
		logger:   logger,
		tele:     tele,
	}, nil
}

func (d *Dashboard) Initial() InitialState {
	return d.initial
}

func (d *Dashboard) Cities() []weather.City {
	return d.registry.Cities()
}

type resolved struct {
	city       weather.City
	unit       units.TemperatureUnit
	wind       units.WindUnit
	precip     units.PrecipitationUnit
	start, end *weather.Date
}

func (d *Dashboard) resolve(req Request) (resolved, error) {
	var r resolved
	var err error

	name := req.City
	if name == "" {
		name = d.initial.City
	}
	if r.city, err = d.registry.Lookup(name); err != nil {
		return r, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	r.unit, r.wind, r.precip = d.initial.Unit, d.initial.WindUnit, d.initial.PrecipUnit
	if req.Unit != "" {
		if r.unit, err = units.ParseTemperatureUnit(req.Unit); err != nil {
			return r, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if req.WindUnit != "" {
		if r.wind, err = units.ParseWindUnit(req.WindUnit); err != nil {
			return r, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if req.PrecipUnit != "" {
		if r.precip, err = units.ParsePrecipitationUnit(req.PrecipUnit); err != nil {
			return r, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	if r.start, err = parseOptionalDate(req.StartDate); err != nil {
		return r, fmt.Errorf("%w: start_date: %v", ErrInvalidRequest, err)
	}
	if r.end, err = parseOptionalDate(req.EndDate); err != nil {
		return r, fmt.Errorf("%w: end_date: %v", ErrInvalidRequest, err)
	}
	if r.start != nil && r.end != nil && r.start.After(r.end.Time) {
		return r, fmt.Errorf("%w: start_date %s is after end_date %s", ErrInvalidRequest, r.start, r.end)
	}

	return r, nil
}

func parseOptionalDate(s string) (*weather.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := weather.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Render fetches history and forecast for the request and builds the view.
// Both fetches run sequentially, once each. The only error is a request that
// fails validation; upstream failures show up as unavailable sections.
func (d *Dashboard) Render(ctx context.Context, req Request) (*ViewModel, error) {
	tracer := d.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "dashboard.Render")
	defer span.End()

	reqLogger := logger.FromContext(ctx, d.logger)

	r, err := d.resolve(req)
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		reqLogger.Warn("Rejected dashboard request", zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("city", r.city.Name),
		attribute.String("unit", string(r.unit)),
		attribute.String("wind_unit", string(r.wind)),
		attribute.String("precip_unit", string(r.precip)),
	)

	history := d.service.FetchHistory(ctx, r.city, r.unit)
	forecast := d.service.FetchForecast(ctx, r.city, r.unit)

	if history.Empty() {
		span.SetAttributes(attribute.Bool("available", false))
		reqLogger.Warn("No historical data, rendering unavailable state",
			zap.String("city", r.city.Name))
		vm := unavailable()
		vm.City, vm.Unit, vm.WindUnit, vm.PrecipUnit = r.city.Name, r.unit, r.wind, r.precip
		return vm, nil
	}

	history = convertHistory(history, r.wind, r.precip)
	forecast = convertForecast(forecast, r.precip)

	start, end, _ := history.Span()
	if r.start != nil {
		start = *r.start
	}
	if r.end != nil {
		end = *r.end
	}
	view := history.Filter(start, end)

	vm := &ViewModel{
		City:       r.city.Name,
		Unit:       r.unit,
		WindUnit:   r.wind,
		PrecipUnit: r.precip,
		Available:  true,
		StartDate:  &start,
		EndDate:    &end,
		Forecast:   forecastChart(r.city.Name, forecast, r.unit),
		Charts:     historyCharts(view, r.unit, r.wind, r.precip),
		Cards:      cards(view, r.unit, r.wind, r.precip),
	}

	span.SetAttributes(
		attribute.Bool("available", true),
		attribute.Int("history_rows", history.Len()),
		attribute.Int("view_rows", view.Len()),
		attribute.Int("forecast_rows", forecast.Len()),
	)
	reqLogger.Info("Dashboard rendered",
		zap.String("city", r.city.Name),
		zap.String("start_date", start.String()),
		zap.String("end_date", end.String()),
		zap.Int("view_rows", view.Len()),
		zap.Bool("forecast_available", !forecast.Empty()))

	return vm, nil
}

// History returns the raw historical table for a city by name.
func (d *Dashboard) History(ctx context.Context, city, unit string) (weather.ObservationTable, error) {
	r, err := d.resolve(Request{City: city, Unit: unit})
	if err != nil {
		return weather.ObservationTable{}, err
	}
	return d.service.FetchHistory(ctx, r.city, r.unit), nil
}

func (d *Dashboard) Forecast(ctx context.Context, city, unit string) (weather.ForecastTable, error) {
	r, err := d.resolve(Request{City: city, Unit: unit})
	if err != nil {
		return weather.ForecastTable{}, err
	}
	return d.service.FetchForecast(ctx, r.city, r.unit), nil
}

// convertHistory applies the display units for wind and precipitation. The
// fetchers leave both in km/h and mm.
func convertHistory(t weather.ObservationTable, wind units.WindUnit, precip units.PrecipitationUnit) weather.ObservationTable {
	return t.Map(func(r weather.ObservationRow) weather.ObservationRow {
		r.WindSpeed = weather.MapFloat(r.WindSpeed, func(v float64) float64 { return units.Wind(v, wind) })
		r.Precipitation = weather.MapFloat(r.Precipitation, func(v float64) float64 { return units.Precipitation(v, precip) })
		return r
	})
}

func convertForecast(t weather.ForecastTable, precip units.PrecipitationUnit) weather.ForecastTable {
	return t.Map(func(r weather.ForecastRow) weather.ForecastRow {
		r.Precipitation = weather.MapFloat(r.Precipitation, func(v float64) float64 { return units.Precipitation(v, precip) })
		return r
	})
}
