package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-records/internal/metrics"
)

// Service composes a weather provider and a record store into the
// quick-lookup, manual-entry, list and delete operations.
type Service struct {
	store    Store
	provider Provider
	now      func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, provider Provider) *Service {
	return &Service{
		store:    store,
		provider: provider,
		now:      time.Now,
	}
}

// QuickLookup fetches the current weather for city and records it with
// today's date as both start and end. Nothing is stored when the lookup fails.
func (s *Service) QuickLookup(ctx context.Context, city string) (Reading, Record, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Reading{}, Record{}, fmt.Errorf("%w: city", ErrMissingField)
	}

	reading, err := s.lookup(ctx, city)
	if err != nil {
		return Reading{}, Record{}, err
	}

	today := NewDate(s.now())
	rec, err := s.store.Create(ctx, newRecordFromReading(city, today, today, reading))
	if err != nil {
		return Reading{}, Record{}, fmt.Errorf("store record: %w", err)
	}
	metrics.RecordCreated("quick")
	return reading, rec, nil
}

// ManualEntry validates a caller-chosen date range, looks the location up and
// stores the result with that range.
func (s *Service) ManualEntry(ctx context.Context, location, start, end string) (Record, error) {
	location = strings.TrimSpace(location)
	start = strings.TrimSpace(start)
	end = strings.TrimSpace(end)
	if location == "" || start == "" || end == "" {
		return Record{}, ErrMissingField
	}

	startDate, err := ParseDate(start)
	if err != nil {
		return Record{}, err
	}
	endDate, err := ParseDate(end)
	if err != nil {
		return Record{}, err
	}
	if endDate.Before(startDate.Time) {
		return Record{}, fmt.Errorf("%w: %s is before %s", ErrInvalidDateRange, endDate, startDate)
	}

	reading, err := s.lookup(ctx, location)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}

	rec, err := s.store.Create(ctx, newRecordFromReading(location, startDate, endDate, reading))
	if err != nil {
		return Record{}, fmt.Errorf("store record: %w", err)
	}
	metrics.RecordCreated("manual")
	return rec, nil
}

// ListRecords returns every record, newest first.
func (s *Service) ListRecords(ctx context.Context) ([]Record, error) {
	return s.store.List(ctx)
}

// DeleteRecord removes the record with the given id.
func (s *Service) DeleteRecord(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	metrics.RecordDeleted()
	return nil
}

func (s *Service) lookup(ctx context.Context, city string) (Reading, error) {
	if s.provider == nil {
		log.Printf("ERROR: no weather provider configured to look up %q", city)
		return Reading{}, fmt.Errorf("%w: no provider configured", ErrLookupFailed)
	}

	started := time.Now()
	reading, err := s.provider.Lookup(ctx, city)
	metrics.ObserveLookup(lookupResult(err), time.Since(started))
	if err != nil {
		log.Printf("provider %s lookup failed for %q: %v", s.provider.Name(), city, err)
		return Reading{}, err
	}
	return reading, nil
}

func lookupResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrCityNotFound):
		return "not_found"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}

func newRecordFromReading(location string, start, end Date, r Reading) NewRecord {
	// Shortest decimal form, so a whole degree is stored as "5", not "5.0".
	temp := strconv.FormatFloat(r.Temperature, 'f', -1, 64)
	return NewRecord{
		Location:    location,
		StartDate:   start,
		EndDate:     end,
		Temperature: &temp,
		Description: r.Description,
	}
}
