package units

import (
	"fmt"
	"math"
)

type TemperatureUnit string

const (
	Fahrenheit TemperatureUnit = "fahrenheit"
	Celsius    TemperatureUnit = "celsius"
)

type WindUnit string

const (
	MilesPerHour      WindUnit = "mph"
	KilometersPerHour WindUnit = "kmh"
)

type PrecipitationUnit string

const (
	Inches      PrecipitationUnit = "in"
	Centimeters PrecipitationUnit = "cm"
	Millimeters PrecipitationUnit = "mm"
)

func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	switch u := TemperatureUnit(s); u {
	case Fahrenheit, Celsius:
		return u, nil
	}
	return "", fmt.Errorf("unknown temperature unit %q", s)
}

func ParseWindUnit(s string) (WindUnit, error) {
	switch u := WindUnit(s); u {
	case MilesPerHour, KilometersPerHour:
		return u, nil
	}
	return "", fmt.Errorf("unknown wind unit %q", s)
}

func ParsePrecipitationUnit(s string) (PrecipitationUnit, error) {
	switch u := PrecipitationUnit(s); u {
	case Inches, Centimeters, Millimeters:
		return u, nil
	}
	return "", fmt.Errorf("unknown precipitation unit %q", s)
}

func (u TemperatureUnit) Label() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

func (u WindUnit) Label() string {
	if u == MilesPerHour {
		return "mph"
	}
	return "km/h"
}

// GaugeMax is the upper bound of the wind gauge scale.
func (u WindUnit) GaugeMax() float64 {
	if u == MilesPerHour {
		return 50
	}
	return 80
}

func (u PrecipitationUnit) Label() string {
	switch u {
	case Inches:
		return "inches"
	case Centimeters:
		return "cm"
	default:
		return "mm"
	}
}

// Short is the label used next to a number, as in "0.35 in".
func (u PrecipitationUnit) Short() string {
	return string(u)
}

// Round rounds x to the given number of decimals, half to even.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*p) / p
}

func CelsiusToFahrenheit(c float64) float64 {
	return Round(c*9/5+32, 1)
}

func KilometersPerHourToMilesPerHour(kmh float64) float64 {
	return Round(kmh*0.621371, 1)
}

func MillimetersToInches(mm float64) float64 {
	return Round(mm/25.4, 2)
}

func MillimetersToCentimeters(mm float64) float64 {
	return Round(mm/10, 2)
}

// Temperature converts a raw Celsius reading to u.
func Temperature(c float64, u TemperatureUnit) float64 {
	if u == Fahrenheit {
		return CelsiusToFahrenheit(c)
	}
	return c
}

// Wind converts a raw km/h reading to u.
func Wind(kmh float64, u WindUnit) float64 {
	if u == MilesPerHour {
		return KilometersPerHourToMilesPerHour(kmh)
	}
	return kmh
}

// Precipitation converts a raw millimeter reading to u.
func Precipitation(mm float64, u PrecipitationUnit) float64 {
	switch u {
	case Inches:
		return MillimetersToInches(mm)
	case Centimeters:
		return MillimetersToCentimeters(mm)
	default:
		return mm
	}
}
