package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds everything read from the environment.
type AppConfig struct {
	Port     string
	LogLevel string

	// LLM upstream.
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	UseMockLLM    bool
	LLMTimeout    time.Duration

	// Weather upstream.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	GeocoderAPIKey     string
	WeatherCacheTTL    time.Duration

	// Default coordinates used when the client supplies none (New York City).
	DefaultLat string
	DefaultLon string

	// Outbound HTTP client timeout.
	HTTPTimeout time.Duration

	// Background weather refresh for the default location.
	RefreshEnabled bool
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:     getenvDefault("PORT", "8080"),
		LogLevel: getenvDefault("LOG_LEVEL", "info"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getenvDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		UseMockLLM:    getenvBool("USE_MOCK_LLM", false),

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: os.Getenv("OPENWEATHER_BASE_URL"),
		GeocoderAPIKey:     os.Getenv("GEOCODER_API_KEY"),

		DefaultLat: getenvDefault("DEFAULT_LAT", "40.7128"),
		DefaultLon: getenvDefault("DEFAULT_LON", "-74.0060"),

		RefreshEnabled: getenvBool("REFRESH_ENABLED", false),
	}

	var err error
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.LLMTimeout, err = getenvDuration("LLM_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	// Without an API key the real LLM client can only fail; fall back to the
	// mock so local development works out of the box.
	if cfg.OpenAIAPIKey == "" {
		cfg.UseMockLLM = true
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

func getenvDuration(key, def string) (time.Duration, error) {
	s := getenvDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
