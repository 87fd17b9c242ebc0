package handlers

import (
	"github.com/vzahanych/weather-dashboard/internal/dashboard"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

// DashboardRequest represents the dashboard query. Every field is optional;
// empty values fall back to the initial state.
type DashboardRequest struct {
	City       string `form:"city" json:"city" validate:"omitempty,max=100"`
	Unit       string `form:"unit" json:"unit" validate:"omitempty,oneof=fahrenheit celsius"`
	WindUnit   string `form:"wind_unit" json:"wind_unit" validate:"omitempty,oneof=mph kmh"`
	PrecipUnit string `form:"precip_unit" json:"precip_unit" validate:"omitempty,oneof=in cm mm"`
	StartDate  string `form:"start_date" json:"start_date" validate:"omitempty,date"`
	EndDate    string `form:"end_date" json:"end_date" validate:"omitempty,date"`
}

func (r DashboardRequest) toDashboard() dashboard.Request {
	return dashboard.Request{
		City:       r.City,
		Unit:       r.Unit,
		WindUnit:   r.WindUnit,
		PrecipUnit: r.PrecipUnit,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}
}

// TableRequest selects a raw table for one city.
type TableRequest struct {
	City string `form:"city" json:"city" validate:"omitempty,max=100"`
	Unit string `form:"unit" json:"unit" validate:"omitempty,oneof=fahrenheit celsius"`
}

type HistoryResponse struct {
	City  string                   `json:"city"`
	Unit  string                   `json:"unit,omitempty"`
	Table weather.ObservationTable `json:"table"`
}

type ForecastResponse struct {
	City  string                `json:"city"`
	Unit  string                `json:"unit,omitempty"`
	Table weather.ForecastTable `json:"table"`
}

type CitiesResponse struct {
	Cities  []weather.City         `json:"cities"`
	Initial dashboard.InitialState `json:"initial"`
}

// ErrorResponse represents an error response with validation
type ErrorResponse struct {
	Error   string `json:"error" validate:"required,min=1,max=500"`
	Code    string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Details string `json:"details,omitempty" validate:"omitempty,max=1000"`
	Fields  any    `json:"fields,omitempty"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string `json:"status" validate:"required,oneof=ok degraded unavailable"`
	Uptime    string `json:"uptime" validate:"required"`
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
