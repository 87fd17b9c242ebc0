package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // timezone database for hosts without one

	"github.com/go-playground/validator/v10"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Weather     WeatherConfig   `mapstructure:"weather"`
	Dashboard   DashboardConfig `mapstructure:"dashboard"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

type WeatherConfig struct {
	ArchiveBaseURL  string       `mapstructure:"archive_base_url" validate:"required,url"`
	ForecastBaseURL string       `mapstructure:"forecast_base_url" validate:"required,url"`
	Timezone        string       `mapstructure:"timezone" validate:"required"`
	Timeout         int          `mapstructure:"timeout" validate:"min=1"`
	RateLimit       float64      `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst       int          `mapstructure:"rate_burst" validate:"gte=0"`
	Cities          []CityConfig `mapstructure:"cities" validate:"required,min=1,dive"`
}

type CityConfig struct {
	Name      string  `mapstructure:"name" validate:"required"`
	Latitude  float64 `mapstructure:"latitude" validate:"latitude"`
	Longitude float64 `mapstructure:"longitude" validate:"longitude"`
}

type DashboardConfig struct {
	Title             string `mapstructure:"title"`
	DefaultCity       string `mapstructure:"default_city" validate:"required"`
	DefaultUnit       string `mapstructure:"default_unit" validate:"oneof=fahrenheit celsius"`
	DefaultWindUnit   string `mapstructure:"default_wind_unit" validate:"oneof=mph kmh"`
	DefaultPrecipUnit string `mapstructure:"default_precip_unit" validate:"oneof=in cm mm"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	cities := make([]CityConfig, 0, len(weather.DefaultCities))
	for _, c := range weather.DefaultCities {
		cities = append(cities, CityConfig{Name: c.Name, Latitude: c.Latitude, Longitude: c.Longitude})
	}

	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8050,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			ArchiveBaseURL:  "https://archive-api.open-meteo.com/v1/archive",
			ForecastBaseURL: "https://api.open-meteo.com/v1/forecast",
			Timezone:        "America/New_York",
			Timeout:         10,
			RateLimit:       5,
			RateBurst:       10,
			Cities:          cities,
		},
		Dashboard: DashboardConfig{
			Title:             "Kentucky Weather Dashboard",
			DefaultCity:       "Louisville, KY",
			DefaultUnit:       "fahrenheit",
			DefaultWindUnit:   "mph",
			DefaultPrecipUnit: "in",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "weather-dashboard",
		},
	}
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if _, err := time.LoadLocation(c.Weather.Timezone); err != nil {
		return fmt.Errorf("invalid weather.timezone %q: %w", c.Weather.Timezone, err)
	}

	registry, err := weather.NewRegistry(c.Weather.CityList())
	if err != nil {
		return fmt.Errorf("invalid weather.cities: %w", err)
	}
	if _, err := registry.Lookup(c.Dashboard.DefaultCity); err != nil {
		return fmt.Errorf("invalid dashboard.default_city: %w", err)
	}

	return nil
}

func (w WeatherConfig) CityList() []weather.City {
	cities := make([]weather.City, len(w.Cities))
	for i, c := range w.Cities {
		cities[i] = weather.City{Name: c.Name, Latitude: c.Latitude, Longitude: c.Longitude}
	}
	return cities
}

func (w WeatherConfig) TimeoutDuration() time.Duration {
	return time.Duration(w.Timeout) * time.Second
}
