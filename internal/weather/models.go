package weather

import (
	"fmt"
	"strings"
	"time"
)

// Units selects the measurement system used when presenting weather.
// Provider calls and normalization always run in metric.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Source tells whether a result came from the provider or was synthesized.
type Source string

const (
	SourceLive Source = "live"
	SourceMock Source = "mock"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String formats coordinates the way they are shown when no place name is known.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.2f, %.2f", c.Lat, c.Lon)
}

// ResolvedLocation is the outcome of resolving user input to a place.
type ResolvedLocation struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}

// Coordinates returns the location's coordinate pair.
func (l ResolvedLocation) Coordinates() Coordinates {
	return Coordinates{Lat: l.Latitude, Lon: l.Longitude}
}

// CurrentConditions holds display-ready current values, rounded to integers.
type CurrentConditions struct {
	Temperature              int      `json:"temperature"`
	FeelsLike                int      `json:"feelsLike"`
	Humidity                 int      `json:"humidity"`
	WindSpeed                int      `json:"windSpeed"`
	UVIndex                  int      `json:"uvIndex"`
	PrecipitationProbability *int     `json:"precipitationProbability,omitempty"`
	PrecipitationIntensity   *float64 `json:"precipitationIntensity,omitempty"`
	Visibility               *int     `json:"visibility,omitempty"`
	Pressure                 *int     `json:"pressure,omitempty"`
	IsDay                    bool     `json:"isDay"`
	Condition                string   `json:"condition"`
	WeatherCode              int      `json:"weatherCode"`
	LastUpdated              string   `json:"lastUpdated"`
}

// ForecastDay is one entry of the daily forecast.
type ForecastDay struct {
	Day                      string `json:"day"`
	Date                     string `json:"date"`
	Temperature              int    `json:"temperature"`
	High                     int    `json:"high"`
	Low                      int    `json:"low"`
	Condition                string `json:"condition"`
	WeatherCode              *int   `json:"weatherCode,omitempty"`
	PrecipitationProbability *int   `json:"precipitationProbability,omitempty"`
}

// NormalizedWeather is the uniform shape handed to the dashboard.
type NormalizedWeather struct {
	Location    string            `json:"location"`
	Current     CurrentConditions `json:"current"`
	Forecast    []ForecastDay     `json:"forecast"`
	Coordinates *Coordinates      `json:"coordinates,omitempty"`
	Units       Units             `json:"units"`
	Source      Source            `json:"source"`
	FetchedAt   time.Time         `json:"fetchedAt"`
}

// Request describes what the caller wants weather for. Coordinates win over
// City; with neither set the device location is used.
type Request struct {
	Coordinates *Coordinates
	City        string
	Units       Units
}

// Snapshot is a recorded NormalizedWeather result.
type Snapshot struct {
	Timestamp time.Time         `json:"timestamp"` // always UTC
	Weather   NormalizedWeather `json:"weather"`
}

// LocationKey returns the canonical key for indexing a location name in stores.
func LocationKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
