package weather

// Summary holds the four dashboard aggregates. A nil field means every
// cell of that column was missing.
type Summary struct {
	MaxTemp            *float64
	MinTemp            *float64
	TotalPrecipitation float64
	AverageWindSpeed   *float64
}

// Summarize reduces the table to its aggregates. Missing cells are skipped.
// ok is false for an empty table, where no aggregate is defined.
func Summarize(t ObservationTable) (s Summary, ok bool) {
	if t.Empty() {
		return Summary{}, false
	}

	var windSum float64
	var windN int
	for _, r := range t.rows {
		if r.TempMax != nil && (s.MaxTemp == nil || *r.TempMax > *s.MaxTemp) {
			s.MaxTemp = Float(*r.TempMax)
		}
		if r.TempMin != nil && (s.MinTemp == nil || *r.TempMin < *s.MinTemp) {
			s.MinTemp = Float(*r.TempMin)
		}
		if r.Precipitation != nil {
			s.TotalPrecipitation += *r.Precipitation
		}
		if r.WindSpeed != nil {
			windSum += *r.WindSpeed
			windN++
		}
	}
	if windN > 0 {
		s.AverageWindSpeed = Float(windSum / float64(windN))
	}
	return s, true
}
