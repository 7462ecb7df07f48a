package weather

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted from callers and used in exports.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time of day.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Reading is the normalized result of a single provider lookup.
type Reading struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"` // Celsius
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// NewRecord holds the caller-supplied fields of a record. The store assigns
// the ID and creation time.
type NewRecord struct {
	Location    string
	StartDate   Date
	EndDate     Date
	Temperature *string
	Description string
}

// Record is one persisted weather lookup with its date range.
type Record struct {
	ID          int64     `json:"id"`
	Location    string    `json:"location"`
	StartDate   Date      `json:"start_date"`
	EndDate     Date      `json:"end_date"`
	Temperature *string   `json:"temperature"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"` // always UTC
}
