package weather

import (
	"encoding/json"
	"math"
)

// City is a named coordinate pair. Cities are defined once at startup.
type City struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var (
	ObservationColumns = []string{"date", "temp_max", "temp_min", "precipitation", "wind_speed", "humidity"}
	ForecastColumns    = []string{"date", "temp_max", "temp_min", "precipitation"}
)

// ObservationRow is one day of historical data. Numeric readings are nil
// when the archive has no value for that day yet.
type ObservationRow struct {
	Date          Date     `json:"date"`
	TempMax       *float64 `json:"temp_max"`
	TempMin       *float64 `json:"temp_min"`
	Precipitation *float64 `json:"precipitation"`
	WindSpeed     *float64 `json:"wind_speed"`
	Humidity      int      `json:"humidity"`
}

type ForecastRow struct {
	Date          Date     `json:"date"`
	TempMax       *float64 `json:"temp_max"`
	TempMin       *float64 `json:"temp_min"`
	Precipitation *float64 `json:"precipitation"`
}

// ObservationTable holds historical rows ordered by date ascending.
// A table is never modified after construction.
type ObservationTable struct {
	rows []ObservationRow
}

type ForecastTable struct {
	rows []ForecastRow
}

func NewObservationTable(rows []ObservationRow) ObservationTable {
	return ObservationTable{rows: append([]ObservationRow{}, rows...)}
}

func NewForecastTable(rows []ForecastRow) ForecastTable {
	return ForecastTable{rows: append([]ForecastRow{}, rows...)}
}

func (t ObservationTable) Columns() []string { return append([]string{}, ObservationColumns...) }
func (t ObservationTable) Len() int          { return len(t.rows) }
func (t ObservationTable) Empty() bool       { return len(t.rows) == 0 }

// Rows returns a copy of the table rows.
func (t ObservationTable) Rows() []ObservationRow {
	return append([]ObservationRow{}, t.rows...)
}

func (t ForecastTable) Columns() []string { return append([]string{}, ForecastColumns...) }
func (t ForecastTable) Len() int          { return len(t.rows) }
func (t ForecastTable) Empty() bool       { return len(t.rows) == 0 }

func (t ForecastTable) Rows() []ForecastRow {
	return append([]ForecastRow{}, t.rows...)
}

type tableJSON[R any] struct {
	Columns []string `json:"columns"`
	Rows    []R      `json:"rows"`
}

func (t ObservationTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON[ObservationRow]{Columns: t.Columns(), Rows: t.Rows()})
}

func (t ForecastTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON[ForecastRow]{Columns: t.Columns(), Rows: t.Rows()})
}

// SyntheticHumidity is a placeholder humidity derived from wind speed only:
// 60 plus the rounded wind speed, with a missing reading counted as zero.
func SyntheticHumidity(windSpeed *float64) int {
	w := 0.0
	if windSpeed != nil {
		w = *windSpeed
	}
	return 60 + int(math.RoundToEven(w))
}

// Float returns a pointer to v. Handy for building rows.
func Float(v float64) *float64 {
	return &v
}

// MapFloat applies f to a non-nil reading.
func MapFloat(v *float64, f func(float64) float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(f(*v))
}
