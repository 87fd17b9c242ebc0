package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.Equal(t, 32.0, CelsiusToFahrenheit(0))
	assert.Equal(t, 212.0, CelsiusToFahrenheit(100))
	assert.Equal(t, 68.0, CelsiusToFahrenheit(20))
	assert.Equal(t, -40.0, CelsiusToFahrenheit(-40))
	assert.Equal(t, 73.6, CelsiusToFahrenheit(23.1))
}

func TestWindAndPrecipitationConversions(t *testing.T) {
	assert.Equal(t, 6.2, KilometersPerHourToMilesPerHour(10))
	assert.Equal(t, 0.0, KilometersPerHourToMilesPerHour(0))
	assert.Equal(t, 1.0, MillimetersToInches(25.4))
	assert.Equal(t, 0.2, MillimetersToInches(5))
	assert.Equal(t, 1.25, MillimetersToCentimeters(12.5))
}

func TestIdentityUnits(t *testing.T) {
	assert.Equal(t, 21.37, Temperature(21.37, Celsius))
	assert.Equal(t, 13.3, Wind(13.3, KilometersPerHour))
	assert.Equal(t, 4.17, Precipitation(4.17, Millimeters))
}

func TestRoundHalfToEven(t *testing.T) {
	assert.Equal(t, 4.0, Round(4.5, 0))
	assert.Equal(t, 6.0, Round(5.5, 0))
	assert.Equal(t, 5.0, Round(5.3, 0))
}

func TestParseUnits(t *testing.T) {
	u, err := ParseTemperatureUnit("celsius")
	require.NoError(t, err)
	assert.Equal(t, Celsius, u)
	assert.Equal(t, "°C", u.Label())

	_, err = ParseTemperatureUnit("kelvin")
	assert.Error(t, err)

	w, err := ParseWindUnit("mph")
	require.NoError(t, err)
	assert.Equal(t, 50.0, w.GaugeMax())
	assert.Equal(t, 80.0, KilometersPerHour.GaugeMax())

	_, err = ParseWindUnit("knots")
	assert.Error(t, err)

	p, err := ParsePrecipitationUnit("in")
	require.NoError(t, err)
	assert.Equal(t, "inches", p.Label())
	assert.Equal(t, "in", p.Short())

	_, err = ParsePrecipitationUnit("ft")
	assert.Error(t, err)
}
