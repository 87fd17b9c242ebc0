package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-dashboard/internal/service"
	"github.com/vzahanych/weather-dashboard/internal/units"
	"github.com/vzahanych/weather-dashboard/internal/weather"
	"github.com/vzahanych/weather-dashboard/pkg/logger"
)

var (
	fetchCity  string
	fetchUnit  string
	fetchQuiet bool

	fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Print the last 7 days and the next 7 days for a city",
		Long:  `Fetch the historical and forecast tables for one city and print them as text tables, exactly as the dashboard receives them.`,
		RunE:  runFetch,
	}
)

func init() {
	fetchCmd.Flags().StringVar(&fetchCity, "city", "", "city name (default: dashboard.default_city)")
	fetchCmd.Flags().StringVar(&fetchUnit, "unit", "", "temperature unit: fahrenheit or celsius (default: dashboard.default_unit)")
	fetchCmd.Flags().BoolVarP(&fetchQuiet, "quiet", "q", false, "suppress service logs")
}

func runFetch(cmd *cobra.Command, args []string) error {
	registry, err := weather.NewRegistry(cfg.Weather.CityList())
	if err != nil {
		return err
	}

	name := fetchCity
	if name == "" {
		name = cfg.Dashboard.DefaultCity
	}
	city, err := registry.Lookup(name)
	if err != nil {
		return err
	}

	unitName := fetchUnit
	if unitName == "" {
		unitName = cfg.Dashboard.DefaultUnit
	}
	unit, err := units.ParseTemperatureUnit(unitName)
	if err != nil {
		return err
	}

	svcLogger := log
	if fetchQuiet {
		svcLogger = logger.NewNop()
	}
	svc, err := service.NewOpenMeteoServiceWithConfig(cfg.Weather, svcLogger.Logger, tele)
	if err != nil {
		return err
	}

	history := svc.FetchHistory(cmd.Context(), city, unit)
	forecast := svc.FetchForecast(cmd.Context(), city, unit)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: last 7 days (%s)\n", city.Name, unit.Label())
	writeObservationTable(out, history)
	fmt.Fprintf(out, "\n%s: next 7 days (%s)\n", city.Name, unit.Label())
	writeForecastTable(out, forecast)
	return nil
}

func writeObservationTable(w io.Writer, t weather.ObservationTable) {
	if t.Empty() {
		fmt.Fprintln(w, "Data unavailable")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns())
	table.SetAutoFormatHeaders(false)
	for _, r := range t.Rows() {
		table.Append([]string{
			r.Date.String(),
			cell(r.TempMax),
			cell(r.TempMin),
			cell(r.Precipitation),
			cell(r.WindSpeed),
			strconv.Itoa(r.Humidity),
		})
	}
	table.Render()
}

func writeForecastTable(w io.Writer, t weather.ForecastTable) {
	if t.Empty() {
		fmt.Fprintln(w, "Error loading data")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(t.Columns())
	table.SetAutoFormatHeaders(false)
	for _, r := range t.Rows() {
		table.Append([]string{
			r.Date.String(),
			cell(r.TempMax),
			cell(r.TempMin),
			cell(r.Precipitation),
		})
	}
	table.Render()
}

func cell(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
