package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-records/internal/weather"
)

var (
	// ErrNotFound is returned when no record exists for a given id.
	ErrNotFound = errors.New("weather record not found")
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: record id
	data   map[int64]weather.Record
	nextID int64

	// max number of records kept; the oldest are dropped first
	maxHistory int
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		data:       make(map[int64]weather.Record),
		maxHistory: maxHistory,
	}
}

// Create assigns the next id and creation time, stores the record and
// enforces retention.
func (s *MemoryStore) Create(_ context.Context, rec weather.NewRecord) (weather.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := weather.Record{
		ID:          s.nextID,
		Location:    rec.Location,
		StartDate:   rec.StartDate,
		EndDate:     rec.EndDate,
		Temperature: copyString(rec.Temperature),
		Description: rec.Description,
		CreatedAt:   time.Now().UTC(),
	}
	s.data[stored.ID] = stored

	// Enforce retention by count. Ids are monotonic, so the smallest is the oldest.
	for s.maxHistory > 0 && len(s.data) > s.maxHistory {
		oldest := stored.ID
		for id := range s.data {
			if id < oldest {
				oldest = id
			}
		}
		delete(s.data, oldest)
	}

	return cloneRecord(stored), nil
}

// List returns all records, newest first.
func (s *MemoryStore) List(_ context.Context) ([]weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.Record, 0, len(s.data))
	for _, rec := range s.data {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Delete removes the record with the given id.
func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func cloneRecord(r weather.Record) weather.Record {
	r.Temperature = copyString(r.Temperature)
	return r
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
