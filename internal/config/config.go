package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-records/internal/common"
)

// Providers accepted in WEATHER_PROVIDER.
const (
	ProviderOpenWeather = "openweathermap"
	ProviderWeatherAPI  = "weatherapi"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// MinRefreshInterval is the shortest REFRESH_INTERVAL Load accepts.
const MinRefreshInterval = time.Minute

type AppConfig struct {
	WeatherProvider   string
	WeatherAPIKey     string
	WeatherAPIBaseURL string

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout        time.Duration
	ProviderMaxRetries int
	// ProviderCircuitBreaker lets repeated provider failures short-circuit
	// further lookups for a while. Off by default.
	ProviderCircuitBreaker bool

	StoreDriver     string
	DatabasePath    string // sqlite file
	DatabaseURL     string // postgres DSN
	StoreMaxHistory int    // memory driver only (0 = unlimited)

	// Cities looked up on RefreshInterval by the scheduler.
	TrackedCities   []string
	RefreshInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherProvider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderOpenWeather))
	if cfg.WeatherProvider != ProviderOpenWeather && cfg.WeatherProvider != ProviderWeatherAPI {
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q", cfg.WeatherProvider)
	}

	cfg.WeatherAPIKey = os.Getenv("WEATHER_API_KEY")
	if cfg.WeatherAPIKey == "" {
		cfg.WeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	}
	if cfg.WeatherAPIKey == "" {
		log.Printf("INFO: WEATHER_API_KEY is not set; every lookup will fail")
	}
	cfg.WeatherAPIBaseURL = os.Getenv("WEATHER_API_BASE_URL")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}
	cfg.HTTPTimeout = timeout
	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 0)
	breaker, err := getenvBool("PROVIDER_CIRCUIT_BREAKER", false)
	if err != nil {
		return nil, fmt.Errorf("invalid PROVIDER_CIRCUIT_BREAKER: %w", err)
	}
	cfg.ProviderCircuitBreaker = breaker

	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", DriverSQLite))
	switch cfg.StoreDriver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if os.Getenv("DATABASE_URL") == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q", cfg.StoreDriver)
	}
	cfg.DatabasePath = getenvDefault("DATABASE_PATH", "weather.db")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 0)

	cfg.TrackedCities = common.SplitList(os.Getenv("TRACKED_CITIES"))
	interval, err := time.ParseDuration(getenvDefault("REFRESH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	if interval < MinRefreshInterval {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %v is below the %v minimum", interval, MinRefreshInterval)
	}
	cfg.RefreshInterval = interval

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseBool(v)
}
