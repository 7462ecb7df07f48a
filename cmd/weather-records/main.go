package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	httpapi "github.com/i474232898/weather-records/internal/api/http"
	"github.com/i474232898/weather-records/internal/config"
	"github.com/i474232898/weather-records/internal/metrics"
	"github.com/i474232898/weather-records/internal/scheduler"
	"github.com/i474232898/weather-records/internal/store"
	"github.com/i474232898/weather-records/internal/weather"
	"github.com/i474232898/weather-records/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	metrics.Init(nil)

	recordStore, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	resilience := providers.Resilience{
		MaxRetries:     cfg.ProviderMaxRetries,
		CircuitBreaker: cfg.ProviderCircuitBreaker,
	}
	var provider weather.Provider
	switch cfg.WeatherProvider {
	case config.ProviderWeatherAPI:
		provider = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL, resilience)
	default:
		provider = providers.NewOpenWeatherProvider(httpClient, cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL, resilience)
	}

	service := weather.NewService(recordStore, provider)

	// Scheduler that periodically records lookups for tracked cities.
	sched := scheduler.New(cfg.TrackedCities, cfg.RefreshInterval, cfg.HTTPTimeout, service)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-records",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-records",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Printf("INFO: listening on :%s (store=%s)", cfg.Port, cfg.StoreDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func openStore(cfg *config.AppConfig) (weather.Store, func(), error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemoryStore(cfg.StoreMaxHistory), func() {}, nil
	case config.DriverPostgres:
		db, err = store.OpenPostgres(cfg.DatabaseURL)
	default:
		db, err = store.OpenSQLite(cfg.DatabasePath)
	}
	if err != nil {
		return nil, nil, err
	}

	sqlStore, err := store.NewSQLStore(db)
	if err != nil {
		return nil, nil, err
	}
	return sqlStore, func() {
		if err := sqlStore.Close(); err != nil {
			log.Printf("warning: error closing store: %v", err)
		}
	}, nil
}
