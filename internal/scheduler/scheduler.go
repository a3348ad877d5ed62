// Package scheduler keeps the default location's weather cache warm so the
// common request path is a cache hit.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/agrichat/agrichat-api/internal/weather"
)

// Refresher periodically refetches weather for one location.
type Refresher struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	location  weather.Location
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a Refresher for the given location.
func New(loc weather.Location, interval time.Duration, service *weather.Service, log zerolog.Logger) *Refresher {
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		location:  loc,
		interval:  interval,
		log:       log.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
func (r *Refresher) Start() error {
	minutes := int(r.interval.Minutes())
	if minutes <= 0 {
		minutes = 30
	}

	_, err := r.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := r.service.Current(ctx, r.location); err != nil {
			r.log.Warn().Err(err).
				Str("location", r.location.Key()).
				Msg("scheduled weather refresh failed")
			return
		}
		r.log.Debug().Str("location", r.location.Key()).Msg("scheduled weather refresh completed")
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
