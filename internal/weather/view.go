package weather

// Filter returns the rows dated within [start, end], both ends inclusive.
// The receiver is left untouched.
func (t ObservationTable) Filter(start, end Date) ObservationTable {
	rows := make([]ObservationRow, 0, len(t.rows))
	for _, r := range t.rows {
		if r.Date.Before(start.Time) || r.Date.After(end.Time) {
			continue
		}
		rows = append(rows, r)
	}
	return ObservationTable{rows: rows}
}

// Span returns the first and last date of the table. ok is false for an
// empty table.
func (t ObservationTable) Span() (start, end Date, ok bool) {
	if len(t.rows) == 0 {
		return Date{}, Date{}, false
	}
	start, end = t.rows[0].Date, t.rows[0].Date
	for _, r := range t.rows[1:] {
		if r.Date.Before(start.Time) {
			start = r.Date
		}
		if r.Date.After(end.Time) {
			end = r.Date
		}
	}
	return start, end, true
}

// Map returns a new table with f applied to a copy of every row.
func (t ObservationTable) Map(f func(ObservationRow) ObservationRow) ObservationTable {
	rows := make([]ObservationRow, len(t.rows))
	for i, r := range t.rows {
		rows[i] = f(r)
	}
	return ObservationTable{rows: rows}
}

func (t ForecastTable) Map(f func(ForecastRow) ForecastRow) ForecastTable {
	rows := make([]ForecastRow, len(t.rows))
	for i, r := range t.rows {
		rows[i] = f(r)
	}
	return ForecastTable{rows: rows}
}

// Last returns the most recent row.
func (t ObservationTable) Last() (ObservationRow, bool) {
	if len(t.rows) == 0 {
		return ObservationRow{}, false
	}
	return t.rows[len(t.rows)-1], true
}
