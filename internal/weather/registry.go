package weather

import (
	"errors"
	"fmt"
)

var ErrUnknownCity = errors.New("unknown city")

// DefaultCities is the reference registry.
var DefaultCities = []City{
	{Name: "Louisville, KY", Latitude: 38.2527, Longitude: -85.7585},
	{Name: "Lexington, KY", Latitude: 38.0406, Longitude: -84.5037},
	{Name: "Bowling Green, KY", Latitude: 36.9685, Longitude: -86.4808},
}

// Registry is a read-only, ordered set of cities keyed by name.
type Registry struct {
	cities []City
	byName map[string]City
}

func NewRegistry(cities []City) (*Registry, error) {
	if len(cities) == 0 {
		return nil, errors.New("city registry is empty")
	}

	r := &Registry{
		cities: make([]City, 0, len(cities)),
		byName: make(map[string]City, len(cities)),
	}
	for _, c := range cities {
		if c.Name == "" {
			return nil, errors.New("city name is required")
		}
		if _, dup := r.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate city %q", c.Name)
		}
		r.cities = append(r.cities, c)
		r.byName[c.Name] = c
	}
	return r, nil
}

func (r *Registry) Lookup(name string) (City, error) {
	c, ok := r.byName[name]
	if !ok {
		return City{}, fmt.Errorf("%w: %q", ErrUnknownCity, name)
	}
	return c, nil
}

// Cities returns the registry in declaration order.
func (r *Registry) Cities() []City {
	return append([]City{}, r.cities...)
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.cities))
	for i, c := range r.cities {
		names[i] = c.Name
	}
	return names
}
