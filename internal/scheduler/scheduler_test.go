package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/weather-records/internal/weather"
)

type recordingLooker struct {
	mu     sync.Mutex
	cities []string
	fail   map[string]bool
}

func (l *recordingLooker) QuickLookup(ctx context.Context, city string) (weather.Reading, weather.Record, error) {
	if _, ok := ctx.Deadline(); !ok {
		return weather.Reading{}, weather.Record{}, errors.New("expected a bounded context")
	}
	l.mu.Lock()
	l.cities = append(l.cities, city)
	l.mu.Unlock()
	if l.fail[city] {
		return weather.Reading{}, weather.Record{}, weather.ErrCityNotFound
	}
	return weather.Reading{City: city}, weather.Record{Location: city}, nil
}

func TestRunOnceLooksUpEveryCity(t *testing.T) {
	looker := &recordingLooker{fail: map[string]bool{"Atlantis": true}}
	s := New([]string{"Paris", "Atlantis", "Oslo"}, time.Hour, time.Second, looker)

	s.RunOnce()

	sort.Strings(looker.cities)
	want := []string{"Atlantis", "Oslo", "Paris"}
	if len(looker.cities) != len(want) {
		t.Fatalf("expected %v, got %v", want, looker.cities)
	}
	for i := range want {
		if looker.cities[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, looker.cities)
		}
	}
}

func TestStartWithoutCitiesIsNoop(t *testing.T) {
	s := New(nil, time.Minute, time.Second, &recordingLooker{})
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}

func TestShortIntervalFallsBackToDefault(t *testing.T) {
	cases := map[time.Duration]time.Duration{
		0:                defaultInterval,
		30 * time.Second: defaultInterval,
		time.Minute:      time.Minute,
		time.Hour:        time.Hour,
	}

	for in, want := range cases {
		s := New([]string{"Paris"}, in, time.Second, &recordingLooker{})
		if got := s.effectiveInterval(); got != want {
			t.Fatalf("interval %v: expected %v, got %v", in, want, got)
		}
	}
}
