// Package scheduler keeps the snapshot history of pinned cities fresh.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	defaultInterval = 15 * time.Minute
	jobTimeout      = 30 * time.Second
)

// WeatherGetter is the part of weather.Service the scheduler needs.
type WeatherGetter interface {
	GetWeather(ctx context.Context, req weather.Request) weather.NormalizedWeather
}

// Scheduler periodically refreshes weather for a fixed list of cities. The
// service records every result, so each run adds one snapshot per city.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   WeatherGetter
	cities    []string
	interval  time.Duration
	log       logger.Logger
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, service WeatherGetter, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cities:    cities,
		interval:  interval,
		log:       log.WithField("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.log.Infof("no cities configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = int(defaultInterval.Minutes())
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infof("refreshing %d cities every %d minutes", len(s.cities), minutes)
	return nil
}

// RunOnce refreshes every city once and returns how many got live data.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.log.Debugf("running weather refresh job")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		live int
	)
	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, jobTimeout)
			defer cancel()

			w := s.service.GetWeather(ctx, weather.Request{City: city, Units: weather.UnitsMetric})
			if w.Source != weather.SourceLive {
				s.log.Warnf("refresh for %s served %s data", city, w.Source)
				return
			}
			mu.Lock()
			live++
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.log.Debugf("completed weather refresh job: %d/%d live", live, len(s.cities))
	return live
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
