// Package providers holds clients for external weather data sources.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/agrichat/agrichat-api/internal/upstream"
	"github.com/agrichat/agrichat-api/internal/weather"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherProvider fetches current conditions from OpenWeatherMap in
// imperial units.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg upstream.ClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider using the shared HTTP client.
// baseURL is overridable for tests; empty means the public API.
func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: upstream.ClientConfig{
			Client:  client,
			Backoff: upstream.DefaultBackoff,
		},
		circuit: upstream.NewBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Fetch requests current weather for the coordinates and returns the raw
// observation. Normalization is the gateway's job.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", loc.Lat)
		values.Set("lon", loc.Lon)
		values.Set("appid", p.apiKey)
		values.Set("units", "imperial")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := upstream.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Rain struct {
			OneH float64 `json:"1h"`
		} `json:"rain"`
		Weather []struct {
			ID   int    `json:"id"`
			Main string `json:"main"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("decode openweather response: %w", err)
	}

	if len(payload.Weather) == 0 {
		return weather.Observation{}, fmt.Errorf("openweather response has no conditions")
	}

	return weather.Observation{
		TemperatureF:  payload.Main.Temp,
		Condition:     payload.Weather[0].Main,
		ConditionCode: payload.Weather[0].ID,
		Humidity:      payload.Main.Humidity,
		WindSpeedMPH:  payload.Wind.Speed,
		WindDeg:       payload.Wind.Deg,
		RainOneHourMM: payload.Rain.OneH,
	}, nil
}
