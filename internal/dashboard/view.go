package dashboard

import (
	"fmt"

	"github.com/vzahanych/weather-dashboard/internal/units"
	"github.com/vzahanych/weather-dashboard/internal/weather"
)

const (
	MessageDataUnavailable = "Data unavailable"
	MessageLoadError       = "Error loading data"
)

type ChartKind string

const (
	ChartLine  ChartKind = "line"
	ChartBar   ChartKind = "bar"
	ChartGauge ChartKind = "gauge"
)

// ViewModel is everything the page needs to draw one dashboard state.
type ViewModel struct {
	City       string                  `json:"city"`
	Unit       units.TemperatureUnit   `json:"unit"`
	WindUnit   units.WindUnit          `json:"wind_unit"`
	PrecipUnit units.PrecipitationUnit `json:"precip_unit"`
	Available  bool                    `json:"available"`
	Message    string                  `json:"message,omitempty"`
	StartDate  *weather.Date           `json:"start_date"`
	EndDate    *weather.Date           `json:"end_date"`
	Forecast   *Chart                  `json:"forecast,omitempty"`
	Charts     []Chart                 `json:"charts"`
	Cards      []Card                  `json:"cards"`
}

type Chart struct {
	ID        string    `json:"id"`
	Kind      ChartKind `json:"kind"`
	Title     string    `json:"title"`
	XLabel    string    `json:"x_label,omitempty"`
	YLabel    string    `json:"y_label,omitempty"`
	Labels    []string  `json:"labels,omitempty"`
	Series    []Series  `json:"series,omitempty"`
	Gauge     *Gauge    `json:"gauge,omitempty"`
	Available bool      `json:"available"`
	Message   string    `json:"message,omitempty"`
}

type Series struct {
	Name   string     `json:"name"`
	Values []*float64 `json:"values"`
}

type Gauge struct {
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

type Card struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

func unavailable() *ViewModel {
	return &ViewModel{
		Available: false,
		Message:   MessageDataUnavailable,
		Charts:    []Chart{},
		Cards:     []Card{},
	}
}

func forecastChart(city string, t weather.ForecastTable, unit units.TemperatureUnit) *Chart {
	c := &Chart{
		ID:     "forecast-graph",
		Kind:   ChartLine,
		Title:  fmt.Sprintf("%s 7-Day Forecast (%s)", city, unit.Label()),
		XLabel: "Date",
		YLabel: fmt.Sprintf("Temp (%s)", unit.Label()),
	}
	if t.Empty() {
		c.Message = MessageLoadError
		return c
	}

	rows := t.Rows()
	maxs := make([]*float64, len(rows))
	mins := make([]*float64, len(rows))
	c.Labels = make([]string, len(rows))
	for i, r := range rows {
		c.Labels[i] = r.Date.String()
		maxs[i] = r.TempMax
		mins[i] = r.TempMin
	}
	c.Series = []Series{{Name: "temp_max", Values: maxs}, {Name: "temp_min", Values: mins}}
	c.Available = true
	return c
}

func historyCharts(view weather.ObservationTable, unit units.TemperatureUnit, wind units.WindUnit, precip units.PrecipitationUnit) []Chart {
	rows := view.Rows()
	labels := make([]string, len(rows))
	maxs := make([]*float64, len(rows))
	mins := make([]*float64, len(rows))
	humidity := make([]*float64, len(rows))
	precipitation := make([]*float64, len(rows))
	for i, r := range rows {
		labels[i] = r.Date.String()
		maxs[i] = r.TempMax
		mins[i] = r.TempMin
		humidity[i] = weather.Float(float64(r.Humidity))
		precipitation[i] = r.Precipitation
	}

	temp := Chart{
		ID:        "temp-graph",
		Kind:      ChartLine,
		Title:     fmt.Sprintf("Historical Temperatures (%s)", unit.Label()),
		XLabel:    "Date",
		YLabel:    fmt.Sprintf("Temp (%s)", unit.Label()),
		Labels:    labels,
		Series:    []Series{{Name: "temp_max", Values: maxs}, {Name: "temp_min", Values: mins}},
		Available: true,
	}
	hum := Chart{
		ID:        "humidity-graph",
		Kind:      ChartLine,
		Title:     "Historical Humidity (%)",
		XLabel:    "Date",
		YLabel:    "Humidity (%)",
		Labels:    labels,
		Series:    []Series{{Name: "humidity", Values: humidity}},
		Available: true,
	}
	rain := Chart{
		ID:        "precip-graph",
		Kind:      ChartBar,
		Title:     fmt.Sprintf("Historical Precipitation (%s)", precip.Label()),
		XLabel:    "Date",
		YLabel:    fmt.Sprintf("Precipitation (%s)", precip.Label()),
		Labels:    labels,
		Series:    []Series{{Name: "precipitation", Values: precipitation}},
		Available: true,
	}

	gauge := Chart{
		ID:    "wind-gauge",
		Kind:  ChartGauge,
		Title: fmt.Sprintf("Latest Wind Speed (%s)", wind.Label()),
	}
	if last, ok := view.Last(); ok && last.WindSpeed != nil {
		gauge.Gauge = &Gauge{Value: *last.WindSpeed, Min: 0, Max: wind.GaugeMax()}
		gauge.Available = true
	} else {
		gauge.Message = MessageDataUnavailable
	}

	return []Chart{temp, hum, rain, gauge}
}

func cards(view weather.ObservationTable, unit units.TemperatureUnit, wind units.WindUnit, precip units.PrecipitationUnit) []Card {
	titles := []string{"Max Temp", "Min Temp", "Total Precip", "Avg Wind"}

	s, ok := weather.Summarize(view)
	if !ok {
		out := make([]Card, len(titles))
		for i, title := range titles {
			out[i] = Card{Title: title, Value: MessageDataUnavailable}
		}
		return out
	}

	return []Card{
		{Title: titles[0], Value: formatOr(s.MaxTemp, "%.1f"+unit.Label())},
		{Title: titles[1], Value: formatOr(s.MinTemp, "%.1f"+unit.Label())},
		{Title: titles[2], Value: fmt.Sprintf("%.2f %s", s.TotalPrecipitation, precip.Short())},
		{Title: titles[3], Value: formatOr(s.AverageWindSpeed, "%.1f "+wind.Label())},
	}
}

func formatOr(v *float64, format string) string {
	if v == nil {
		return MessageDataUnavailable
	}
	return fmt.Sprintf(format, *v)
}
