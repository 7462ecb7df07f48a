package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "abc")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("TRACKED_CITIES", "")
	t.Setenv("WEATHER_PROVIDER", "")
	t.Setenv("PROVIDER_CIRCUIT_BREAKER", "")
	t.Setenv("REFRESH_INTERVAL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WeatherAPIKey != "abc" {
		t.Fatalf("expected api key to be read, got %q", cfg.WeatherAPIKey)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("expected default timeout of 5s, got %v", cfg.HTTPTimeout)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.DatabasePath == "" {
		t.Fatalf("expected sqlite defaults, got %q %q", cfg.StoreDriver, cfg.DatabasePath)
	}
	if cfg.WeatherProvider != ProviderOpenWeather {
		t.Fatalf("expected openweathermap by default, got %q", cfg.WeatherProvider)
	}
	if cfg.ProviderMaxRetries != 0 {
		t.Fatalf("expected no retries by default, got %d", cfg.ProviderMaxRetries)
	}
	if cfg.ProviderCircuitBreaker {
		t.Fatalf("expected the circuit breaker to be off by default")
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Fatalf("expected default refresh interval of 15m, got %v", cfg.RefreshInterval)
	}
	if len(cfg.TrackedCities) != 0 {
		t.Fatalf("expected no tracked cities, got %v", cfg.TrackedCities)
	}
}

func TestLoadFallbackKeyAndCities(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "legacy")
	t.Setenv("TRACKED_CITIES", " Paris, ,Oslo ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WeatherAPIKey != "legacy" {
		t.Fatalf("expected fallback key, got %q", cfg.WeatherAPIKey)
	}
	if len(cfg.TrackedCities) != 2 || cfg.TrackedCities[0] != "Paris" || cfg.TrackedCities[1] != "Oslo" {
		t.Fatalf("unexpected tracked cities %v", cfg.TrackedCities)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad timeout":         {"HTTP_TIMEOUT", "soon"},
		"zero timeout":        {"HTTP_TIMEOUT", "0s"},
		"unknown driver":      {"STORE_DRIVER", "mongo"},
		"postgres sans dsn":   {"STORE_DRIVER", "postgres"},
		"bad interval":        {"REFRESH_INTERVAL", "daily"},
		"sub-minute interval": {"REFRESH_INTERVAL", "30s"},
		"bad breaker flag":    {"PROVIDER_CIRCUIT_BREAKER", "sometimes"},
		"unknown provider":    {"WEATHER_PROVIDER", "darksky"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%s", kv[0], kv[1])
			}
		})
	}
}

func TestLoadCircuitBreakerAndMinimumInterval(t *testing.T) {
	t.Setenv("PROVIDER_CIRCUIT_BREAKER", "true")
	t.Setenv("REFRESH_INTERVAL", "1m")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.ProviderCircuitBreaker {
		t.Fatalf("expected the circuit breaker to be enabled")
	}
	if cfg.RefreshInterval != MinRefreshInterval {
		t.Fatalf("expected the minimum interval to be accepted, got %v", cfg.RefreshInterval)
	}
}
