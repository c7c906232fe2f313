package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type AppConfig struct {
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Port     string `mapstructure:"port" validate:"required,numeric"`

	// Weather provider: "tomorrow" needs WEATHER_API_KEY, "openmeteo" is keyless.
	Provider   string `mapstructure:"weather_provider" validate:"oneof=tomorrow openmeteo"`
	APIKey     string `mapstructure:"weather_api_key"`
	APIBaseURL string `mapstructure:"weather_api_base_url" validate:"omitempty,url"`

	Geocoder             string `mapstructure:"geocoder" validate:"oneof=nominatim google none"`
	GoogleGeocoderAPIKey string `mapstructure:"google_geocoder_api_key"`
	NominatimBaseURL     string `mapstructure:"nominatim_base_url" validate:"omitempty,url"`

	HTTPTimeout     time.Duration `mapstructure:"http_timeout" validate:"gt=0"`
	FetchMaxRetries int           `mapstructure:"fetch_max_retries" validate:"gte=0,lte=10"`
	FetchRetryDelay time.Duration `mapstructure:"fetch_retry_delay" validate:"gte=0"`

	GeolocationTimeout time.Duration `mapstructure:"geolocation_timeout" validate:"gt=0"`
	DeviceLatitude     string        `mapstructure:"device_latitude"`
	DeviceLongitude    string        `mapstructure:"device_longitude"`

	ForecastDays int    `mapstructure:"forecast_days" validate:"gte=1,lte=14"`
	TimeZone     string `mapstructure:"time_zone"`

	// RefreshCities is a comma separated list of cities the scheduler keeps fresh.
	RefreshCities   string        `mapstructure:"refresh_cities"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval" validate:"gte=0"`

	// In-memory store retention.
	StoreMaxHistory int           `mapstructure:"store_max_history" validate:"gte=0"` // 0 = unlimited
	StoreMaxAge     time.Duration `mapstructure:"store_max_age" validate:"gte=0"`     // 0 = unlimited

	// ProgressDBPath is the SQLite file for user progress; empty keeps it in memory.
	ProgressDBPath string `mapstructure:"progress_db_path"`
}

var defaults = map[string]interface{}{
	"app_env":                 "development",
	"log_level":               "info",
	"port":                    "8080",
	"weather_provider":        "tomorrow",
	"weather_api_key":         "",
	"weather_api_base_url":    "",
	"geocoder":                "nominatim",
	"google_geocoder_api_key": "",
	"nominatim_base_url":      "",
	"http_timeout":            "10s",
	"fetch_max_retries":       2,
	"fetch_retry_delay":       "1s",
	"geolocation_timeout":     "10s",
	"device_latitude":         "",
	"device_longitude":        "",
	"forecast_days":           weather.DefaultForecastDays,
	"time_zone":               "",
	"refresh_cities":          "",
	"refresh_interval":        "15m",
	"store_max_history":       96, // roughly 24h at 15-minute intervals
	"store_max_age":           "24h",
	"progress_db_path":        "progress.db",
}

var validate = validator.New()

// Load reads configuration from .env, an optional config.yaml and the
// environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.Geocoder = strings.ToLower(strings.TrimSpace(cfg.Geocoder))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and the values that need parsing.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Geocoder == "google" && c.GoogleGeocoderAPIKey == "" {
		return fmt.Errorf("invalid config: GEOCODER=google requires GOOGLE_GEOCODER_API_KEY")
	}
	if _, err := c.DeviceCoordinates(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Cities returns the trimmed, non-empty entries of RefreshCities.
func (c *AppConfig) Cities() []string {
	var out []string
	for _, city := range strings.Split(c.RefreshCities, ",") {
		if city = strings.TrimSpace(city); city != "" {
			out = append(out, city)
		}
	}
	return out
}

// DeviceCoordinates returns the configured device position, or nil when
// none is set. Setting only one of the two values is an error.
func (c *AppConfig) DeviceCoordinates() (*weather.Coordinates, error) {
	lat, lon := strings.TrimSpace(c.DeviceLatitude), strings.TrimSpace(c.DeviceLongitude)
	if lat == "" && lon == "" {
		return nil, nil
	}
	if lat == "" || lon == "" {
		return nil, fmt.Errorf("DEVICE_LATITUDE and DEVICE_LONGITUDE must be set together")
	}

	la, err := strconv.ParseFloat(lat, 64)
	if err != nil || la < -90 || la > 90 {
		return nil, fmt.Errorf("invalid DEVICE_LATITUDE %q", lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil || lo < -180 || lo > 180 {
		return nil, fmt.Errorf("invalid DEVICE_LONGITUDE %q", lon)
	}
	return &weather.Coordinates{Lat: la, Lon: lo}, nil
}

// Location returns the display time zone; empty means the host's zone.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}
