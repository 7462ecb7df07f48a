package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-records/internal/weather"
)

// defaultInterval replaces intervals too short to schedule. config.Load already
// rejects them, so this only applies to callers building a Scheduler directly.
const defaultInterval = 15 * time.Minute

// Looker performs a quick lookup; *weather.Service satisfies it.
type Looker interface {
	QuickLookup(ctx context.Context, city string) (weather.Reading, weather.Record, error)
}

// Scheduler periodically records a quick lookup for each tracked city.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	service    Looker
	cities     []string
	interval   time.Duration
	jobTimeout time.Duration
}

// New creates a new Scheduler. jobTimeout bounds each city's lookup.
func New(cities []string, interval, jobTimeout time.Duration, service Looker) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler:  s,
		service:    service,
		cities:     cities,
		interval:   interval,
		jobTimeout: jobTimeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		log.Println("scheduler: no tracked cities configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.effectiveInterval()).Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) effectiveInterval() time.Duration {
	if s.interval < time.Minute {
		log.Printf("WARN: scheduler: refresh interval %v is below 1m; using %v", s.interval, defaultInterval)
		return defaultInterval
	}
	return s.interval
}

// RunOnce looks up every tracked city concurrently and waits for all of them.
func (s *Scheduler) RunOnce() {
	log.Println("scheduler: running tracked city refresh")

	var wg sync.WaitGroup
	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
			defer cancel()

			if _, _, err := s.service.QuickLookup(ctx, city); err != nil {
				log.Printf("scheduler: lookup failed for %s: %v", city, err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed tracked city refresh")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
