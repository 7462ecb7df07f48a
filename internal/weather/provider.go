package weather

import (
	"context"
	"errors"
)

var (
	// Lookup failures reported by providers.
	ErrCityNotFound      = errors.New("city not found")
	ErrLookupFailed      = errors.New("weather lookup failed")
	ErrTimeout           = errors.New("weather provider timed out")
	ErrMalformedResponse = errors.New("malformed provider response")

	// Validation failures for manual entries.
	ErrMissingField      = errors.New("missing data")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrInvalidLocation   = errors.New("invalid location")
)

// Provider abstracts a weather data source such as OpenWeatherMap.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, city string) (Reading, error)
}

// Store is the contract both the SQL store and the in-memory store satisfy.
type Store interface {
	Create(ctx context.Context, rec NewRecord) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, id int64) error
}
