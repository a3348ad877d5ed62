// Package geocode resolves city names into coordinates for weather lookups.
package geocode

import (
	"fmt"
	"strconv"

	"github.com/kelvins/geocoder"

	"github.com/agrichat/agrichat-api/internal/weather"
)

// Resolver turns a city name into a weather.Location via the Google geocoding
// API. It is disabled (every Resolve fails) when no API key is configured, in
// which case callers should fall back to their default coordinates.
type Resolver struct {
	enabled bool
}

// New configures the package-level geocoder API key and returns a Resolver.
func New(apiKey string) *Resolver {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &Resolver{enabled: apiKey != ""}
}

// Enabled reports whether city resolution is available.
func (r *Resolver) Enabled() bool {
	return r.enabled
}

// Resolve geocodes the city and returns its coordinates formatted the same
// way explicit lat/lon query values are, so cache keys stay consistent.
func (r *Resolver) Resolve(city string) (weather.Location, error) {
	if !r.enabled {
		return weather.Location{}, fmt.Errorf("geocoding is not configured")
	}
	if city == "" {
		return weather.Location{}, fmt.Errorf("city is empty")
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return weather.Location{}, fmt.Errorf("geocode %q: %w", city, err)
	}

	return weather.Location{
		Lat: strconv.FormatFloat(loc.Latitude, 'f', 4, 64),
		Lon: strconv.FormatFloat(loc.Longitude, 'f', 4, 64),
	}, nil
}
