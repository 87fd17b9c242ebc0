package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vzahanych/weather-dashboard/internal/config"
	"github.com/vzahanych/weather-dashboard/internal/units"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Days is the number of daily rows in every table, today included.
const Days = 7

const (
	endpointArchive  = "archive"
	endpointForecast = "forecast"
)

const (
	historyVariables  = "temperature_2m_max,temperature_2m_min,precipitation_sum,windspeed_10m_max"
	forecastVariables = "temperature_2m_max,temperature_2m_min,precipitation_sum"
)

type OpenMeteoService struct {
	archiveURL  string
	forecastURL string
	timezone    string
	location    *time.Location
	client      *http.Client
	limiter     *rate.Limiter
	now         func() time.Time
	logger      *zap.Logger
	tele        *telemetry.Telemetry
	metrics     MetricsRecorder
}

type dailyResponse struct {
	Daily *dailyBlock `json:"daily"`
}

type dailyBlock struct {
	Time             []string   `json:"time"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	TemperatureMin   []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	WindSpeedMax     []*float64 `json:"windspeed_10m_max"`
}

type errorResponse struct {
	Reason string `json:"reason"`
}

func NewOpenMeteoServiceWithConfig(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) (*OpenMeteoService, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}

	return &OpenMeteoService{
		archiveURL:  cfg.ArchiveBaseURL,
		forecastURL: cfg.ForecastBaseURL,
		timezone:    cfg.Timezone,
		location:    loc,
		client: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		limiter: rate.NewLimiter(limit, burst),
		now:     time.Now,
		logger:  logger,
		tele:    tele,
	}, nil
}

func (s *OpenMeteoService) Name() string {
	return "open-meteo"
}

// SetMetricsRecorder sets the recorder notified after every upstream call
func (s *OpenMeteoService) SetMetricsRecorder(metrics MetricsRecorder) {
	s.metrics = metrics
}

// SetClock replaces the time source used to anchor "today".
func (s *OpenMeteoService) SetClock(now func() time.Time) {
	s.now = now
}

// FetchHistory returns the last Days days, today included, from the archive
// endpoint. Temperatures follow unit; precipitation (mm) and wind (km/h) are
// left as reported.
func (s *OpenMeteoService) FetchHistory(ctx context.Context, city weather.City, unit units.TemperatureUnit) weather.ObservationTable {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "open-meteo.FetchHistory")
	defer span.End()

	end := s.today()
	start := end.AddDays(-(Days - 1))

	span.SetAttributes(
		attribute.String("city", city.Name),
		attribute.String("unit", string(unit)),
		attribute.String("start_date", start.String()),
		attribute.String("end_date", end.String()),
	)

	daily, err := s.fetchDaily(ctx, endpointArchive, s.archiveURL, city, historyVariables, start, end)
	var rows []weather.ObservationRow
	if err == nil {
		rows, err = historyRows(daily, start, unit)
	}
	if err != nil {
		s.fail(ctx, endpointArchive, city, err)
		span.SetAttributes(attribute.Bool("success", false))
		return weather.NewObservationTable(nil)
	}

	s.succeed(ctx, endpointArchive, city, len(rows))
	span.SetAttributes(attribute.Bool("success", true), attribute.Int("rows", len(rows)))
	return weather.NewObservationTable(rows)
}

// FetchForecast returns today and the following Days-1 days.
func (s *OpenMeteoService) FetchForecast(ctx context.Context, city weather.City, unit units.TemperatureUnit) weather.ForecastTable {
	tracer := s.tele.GetTracer()
	ctx, span := tracer.Start(ctx, "open-meteo.FetchForecast")
	defer span.End()

	start := s.today()
	end := start.AddDays(Days - 1)

	span.SetAttributes(
		attribute.String("city", city.Name),
		attribute.String("unit", string(unit)),
		attribute.String("start_date", start.String()),
		attribute.String("end_date", end.String()),
	)

	daily, err := s.fetchDaily(ctx, endpointForecast, s.forecastURL, city, forecastVariables, start, end)
	var rows []weather.ForecastRow
	if err == nil {
		rows, err = forecastRows(daily, start, unit)
	}
	if err != nil {
		s.fail(ctx, endpointForecast, city, err)
		span.SetAttributes(attribute.Bool("success", false))
		return weather.NewForecastTable(nil)
	}

	s.succeed(ctx, endpointForecast, city, len(rows))
	span.SetAttributes(attribute.Bool("success", true), attribute.Int("rows", len(rows)))
	return weather.NewForecastTable(rows)
}

func (s *OpenMeteoService) today() weather.Date {
	return weather.DateOf(s.now().In(s.location))
}

func (s *OpenMeteoService) fetchDaily(ctx context.Context, endpoint, baseURL string, city weather.City, variables string, start, end weather.Date) (*dailyBlock, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad %s url: %v", ErrNetwork, endpoint, err)
	}

	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(city.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(city.Longitude, 'f', -1, 64))
	q.Set("daily", variables)
	q.Set("timezone", s.timezone)
	q.Set("start_date", start.String())
	q.Set("end_date", end.String())
	u.RawQuery = q.Encode()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %v", ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("Requesting Open-Meteo daily data",
		zap.String("endpoint", endpoint),
		zap.String("url", u.String()))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Reason != "" {
			return nil, fmt.Errorf("%w: API request failed with status %d: %s", ErrNetwork, resp.StatusCode, apiErr.Reason)
		}
		return nil, fmt.Errorf("%w: API request failed with status %d", ErrNetwork, resp.StatusCode)
	}

	var result dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Daily == nil {
		return nil, fmt.Errorf("%w: missing daily object", ErrMalformedResponse)
	}

	return result.Daily, nil
}

// dates checks the time column against the requested window and returns
// one date per row.
func (d *dailyBlock) dates(start weather.Date) ([]weather.Date, error) {
	if len(d.Time) == 0 {
		return nil, ErrEmptyResult
	}
	if len(d.Time) != Days {
		return nil, fmt.Errorf("%w: expected %d days, got %d", ErrMalformedResponse, Days, len(d.Time))
	}

	dates := make([]weather.Date, len(d.Time))
	for i, raw := range d.Time {
		date, err := weather.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: time[%d]: %v", ErrMalformedResponse, i, err)
		}
		if want := start.AddDays(i); !date.Equal(want.Time) {
			return nil, fmt.Errorf("%w: time[%d] is %s, expected %s", ErrMalformedResponse, i, date, want)
		}
		dates[i] = date
	}
	return dates, nil
}

func checkColumn(name string, column []*float64, n int) error {
	if column == nil {
		return fmt.Errorf("%w: missing %s", ErrMalformedResponse, name)
	}
	if len(column) != n {
		return fmt.Errorf("%w: %s has %d values for %d days", ErrMalformedResponse, name, len(column), n)
	}
	return nil
}

func (d *dailyBlock) checkColumns(n int, withWind bool) error {
	names := []string{"temperature_2m_max", "temperature_2m_min", "precipitation_sum"}
	columns := [][]*float64{d.TemperatureMax, d.TemperatureMin, d.PrecipitationSum}
	if withWind {
		names = append(names, "windspeed_10m_max")
		columns = append(columns, d.WindSpeedMax)
	}

	for i, name := range names {
		if err := checkColumn(name, columns[i], n); err != nil {
			return err
		}
	}
	return nil
}

func temperature(unit units.TemperatureUnit) func(float64) float64 {
	return func(c float64) float64 { return units.Temperature(c, unit) }
}

func historyRows(d *dailyBlock, start weather.Date, unit units.TemperatureUnit) ([]weather.ObservationRow, error) {
	dates, err := d.dates(start)
	if err != nil {
		return nil, err
	}
	if err := d.checkColumns(len(dates), true); err != nil {
		return nil, err
	}

	rows := make([]weather.ObservationRow, len(dates))
	for i, date := range dates {
		rows[i] = weather.ObservationRow{
			Date:          date,
			TempMax:       weather.MapFloat(d.TemperatureMax[i], temperature(unit)),
			TempMin:       weather.MapFloat(d.TemperatureMin[i], temperature(unit)),
			Precipitation: d.PrecipitationSum[i],
			WindSpeed:     d.WindSpeedMax[i],
			Humidity:      weather.SyntheticHumidity(d.WindSpeedMax[i]),
		}
	}
	return rows, nil
}

func forecastRows(d *dailyBlock, start weather.Date, unit units.TemperatureUnit) ([]weather.ForecastRow, error) {
	dates, err := d.dates(start)
	if err != nil {
		return nil, err
	}
	if err := d.checkColumns(len(dates), false); err != nil {
		return nil, err
	}

	rows := make([]weather.ForecastRow, len(dates))
	for i, date := range dates {
		rows[i] = weather.ForecastRow{
			Date:          date,
			TempMax:       weather.MapFloat(d.TemperatureMax[i], temperature(unit)),
			TempMin:       weather.MapFloat(d.TemperatureMin[i], temperature(unit)),
			Precipitation: d.PrecipitationSum[i],
		}
	}
	return rows, nil
}

func (s *OpenMeteoService) fail(ctx context.Context, endpoint string, city weather.City, err error) {
	kind := errorKind(err)
	s.logger.Error("Open-Meteo fetch failed, returning empty table",
		zap.String("endpoint", endpoint),
		zap.String("city", city.Name),
		zap.String("error_kind", kind),
		zap.Error(err))
	s.tele.RecordError(ctx, err, map[string]string{
		"endpoint":   endpoint,
		"error_kind": kind,
	})
	if s.metrics != nil {
		s.metrics.RecordWeatherServiceCall(ctx, s.Name()+"/"+endpoint, false)
	}
}

func (s *OpenMeteoService) succeed(ctx context.Context, endpoint string, city weather.City, rows int) {
	s.logger.Info("Open-Meteo fetch completed",
		zap.String("endpoint", endpoint),
		zap.String("city", city.Name),
		zap.Int("rows", rows))
	if s.metrics != nil {
		s.metrics.RecordWeatherServiceCall(ctx, s.Name()+"/"+endpoint, true)
	}
}
