package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/weather-records/internal/weather"
)

func TestWeatherAPILookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/current.json" || r.URL.Query().Get("key") != "wk" {
			t.Errorf("unexpected request %s", r.URL)
		}
		switch r.URL.Query().Get("q") {
		case "Lisbon":
			_, _ = w.Write([]byte(`{"current":{"temp_c":18.4,"condition":{"text":"Partly cloudy","icon":"//cdn.weatherapi.com/116.png"}}}`))
		case "Nowhere":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":1006,"message":"No matching location found."}}`))
		case "Broken":
			_, _ = w.Write([]byte(`{"current":{"condition":{"text":"Sunny"}}}`))
		default:
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":2008,"message":"API key disabled."}}`))
		}
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "wk", srv.URL, Resilience{})
	ctx := context.Background()

	reading, err := p.Lookup(ctx, "Lisbon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reading.City != "Lisbon" || reading.Temperature != 18.4 || reading.Description != "partly cloudy" {
		t.Fatalf("unexpected reading: %+v", reading)
	}

	if _, err := p.Lookup(ctx, "Nowhere"); !errors.Is(err, weather.ErrCityNotFound) {
		t.Fatalf("expected ErrCityNotFound, got %v", err)
	}
	if _, err := p.Lookup(ctx, "Broken"); !errors.Is(err, weather.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if _, err := p.Lookup(ctx, "Elsewhere"); !errors.Is(err, weather.ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
}
