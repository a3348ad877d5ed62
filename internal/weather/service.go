package weather

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Provider abstracts the external weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Observation, error)
}

// Service is the weather gateway: it answers from the cache while an entry is
// fresh and refetches through the provider otherwise. A provider failure
// degrades to the Fallback value rather than an empty response.
type Service struct {
	store    CacheStore
	provider Provider
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates the gateway. ttl is the cache validity window.
func NewService(store CacheStore, provider Provider, ttl time.Duration, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
		log:      log.With().Str("component", "weather").Logger(),
	}
}

// Current returns weather for the location, cache-first. On provider failure
// it returns (Fallback, err): the non-nil error is how callers tell a degraded
// answer from a real one.
func (s *Service) Current(ctx context.Context, loc Location) (Data, error) {
	key := loc.Key()

	if entry, ok := s.store.WeatherCache(key); ok {
		if s.now().Sub(entry.Timestamp) < s.ttl {
			s.log.Debug().Str("location", key).Msg("weather cache hit")
			return entry.Data, nil
		}
	}

	obs, err := s.provider.Fetch(ctx, loc)
	if err != nil {
		s.log.Error().Err(err).
			Str("provider", s.provider.Name()).
			Str("location", key).
			Msg("provider fetch failed; serving fallback")
		return Fallback, err
	}

	data := Normalize(obs)
	s.store.SaveWeatherCache(key, data)
	s.log.Info().Str("location", key).Msg("weather cache refreshed")

	return data, nil
}
