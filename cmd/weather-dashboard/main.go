package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/progress"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg := logger.New(cfg.LogLevel, cfg.Env)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	retry := providers.RetryConfig{
		MaxRetries: cfg.FetchMaxRetries,
		BaseDelay:  cfg.FetchRetryDelay,
	}

	var provider weather.Provider
	switch cfg.Provider {
	case "openmeteo":
		provider = providers.NewOpenMeteoProvider(httpClient, cfg.APIBaseURL, retry)
	default:
		provider = providers.NewTomorrowProvider(httpClient, cfg.APIKey, cfg.APIBaseURL, retry)
	}
	if !provider.Configured() {
		logg.Warnf("%s is not configured; the dashboard will serve synthesized weather", provider.Name())
	}

	opts := []weather.Option{
		weather.WithLogger(logg.WithField("component", "weather")),
		weather.WithForecastDays(cfg.ForecastDays),
		weather.WithGeolocationTimeout(cfg.GeolocationTimeout),
	}

	switch cfg.Geocoder {
	case "google":
		opts = append(opts, weather.WithGeocoder(geo.NewGoogle(cfg.GoogleGeocoderAPIKey)))
	case "nominatim":
		opts = append(opts, weather.WithGeocoder(geo.NewNominatim(cfg.NominatimBaseURL, "")))
	}

	device, _ := cfg.DeviceCoordinates() // validated by config.Load
	opts = append(opts, weather.WithLocator(geo.NewStaticLocator(device)))

	tz, _ := cfg.Location()
	opts = append(opts, weather.WithTimeZone(tz))

	// In-memory snapshot history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	opts = append(opts, weather.WithStore(memStore))

	service := weather.NewService(provider, opts...)

	// Scheduler that keeps pinned cities fresh.
	sched := scheduler.New(cfg.Cities(), cfg.RefreshInterval, service, logg)
	if err := sched.Start(); err != nil {
		logg.Errorf("failed to start scheduler: %v", err)
		return
	}
	defer sched.Stop()

	// User progress lives in SQLite when a path is configured.
	var storage progress.Storage = progress.NewMemoryStorage()
	if cfg.ProgressDBPath != "" {
		sqlite, err := progress.NewSQLiteStorage(cfg.ProgressDBPath)
		if err != nil {
			logg.Errorf("failed to open progress database: %v", err)
			return
		}
		defer sqlite.Close()
		storage = sqlite
	}
	keeper := progress.NewKeeper(progress.NewRepository(storage, logg.WithField("component", "progress")))

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          60 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":     "ok",
			"service":    "weather-dashboard",
			"provider":   provider.Name(),
			"configured": provider.Configured(),
		})
	})

	httpapi.RegisterRoutes(app, service, keeper, logg.WithField("component", "http"))

	go func() {
		logg.Infof("listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logg.Errorf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Errorf("error during shutdown: %v", err)
	}
}
