package weather

import "time"

// Location identifies the coordinates a weather request is for. Lat and Lon
// are kept as the raw query-string values so the cache key matches what the
// client asked for.
type Location struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Key returns the canonical cache key for this location.
func (l Location) Key() string {
	return l.Lat + "," + l.Lon
}

// Data is the normalized weather view returned to the client.
type Data struct {
	Temperature   int     `json:"temperature"`
	Condition     string  `json:"condition"`
	Humidity      int     `json:"humidity"`
	WindSpeed     int     `json:"windSpeed"`
	WindDirection string  `json:"windDirection"`
	Precipitation float64 `json:"precipitation"`
	Icon          string  `json:"icon"`
}

// Fallback is served when the provider is unreachable or returns garbage,
// so the client always has something to render.
var Fallback = Data{
	Temperature:   78,
	Condition:     "Partly Cloudy",
	Humidity:      65,
	WindSpeed:     5,
	WindDirection: "NE",
	Precipitation: 10,
	Icon:          "fa-cloud-sun",
}

// CacheEntry is a memoized provider response keyed by location.
type CacheEntry struct {
	ID        int       `json:"id"`
	Location  string    `json:"location"`
	Data      Data      `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// CacheStore is the persistence contract the gateway depends on. At most one
// entry lives per location key; SaveWeatherCache upserts.
type CacheStore interface {
	WeatherCache(location string) (CacheEntry, bool)
	SaveWeatherCache(location string, data Data) CacheEntry
}

// Observation is a single raw reading from the upstream provider, before
// normalization.
type Observation struct {
	TemperatureF  float64
	Condition     string
	ConditionCode int
	Humidity      int
	WindSpeedMPH  float64
	WindDeg       float64
	RainOneHourMM float64
}
