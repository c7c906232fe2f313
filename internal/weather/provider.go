package weather

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMalformedPayload is returned by providers when a response does not
	// carry the fields normalization depends on.
	ErrMalformedPayload = errors.New("malformed provider payload")

	// ErrNotConfigured marks a provider whose credential is absent or unusable.
	ErrNotConfigured = errors.New("weather provider not configured")

	// ErrLocationUnavailable is returned when no coordinates could be resolved.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrNoProvider is returned when the service has no provider at all.
	ErrNoProvider = errors.New("no weather provider configured")
)

// CurrentReading is a provider's schema-checked current observation, metric.
type CurrentReading struct {
	ObservedAt               time.Time
	Temperature              float64
	FeelsLike                float64
	Humidity                 float64
	WindSpeedKmh             float64
	UVIndex                  float64
	PrecipitationProbability *float64
	PrecipitationIntensity   *float64
	VisibilityKm             *float64
	PressureHpa              *float64
	WeatherCode              int
}

// DailyReading is a provider's schema-checked forecast day, metric.
type DailyReading struct {
	Date                     time.Time
	TempAvg                  float64
	TempMax                  float64
	TempMin                  float64
	WeatherCode              int
	PrecipitationProbability *float64
	Sunrise                  time.Time
	Sunset                   time.Time
}

// Provider abstracts a weather data source (e.g. Tomorrow.io, Open-Meteo).
// Weather codes are reported in the Tomorrow.io code space.
type Provider interface {
	Name() string
	// Configured reports whether the provider holds a usable credential.
	Configured() bool
	Current(ctx context.Context, c Coordinates) (CurrentReading, error)
	Forecast(ctx context.Context, c Coordinates, days int) ([]DailyReading, error)
}

// Geocoder resolves free-text places to coordinates and back.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (ResolvedLocation, error)
	ReverseGeocode(ctx context.Context, c Coordinates) (string, error)
}

// Locator reports the device position. Implementations should honour ctx.
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

// Store is the contract the snapshot history store must satisfy.
type Store interface {
	SaveSnapshot(key string, snapshot Snapshot)
	GetLatest(key string) (Snapshot, error)
	GetRange(key string, from, to time.Time) ([]Snapshot, error)
}
