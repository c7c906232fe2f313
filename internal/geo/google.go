package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Google resolves places through the Google Maps Geocoding API.
// The geocoder library keeps its key in a package variable, so a process
// should hold at most one Google instance.
type Google struct {
	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogle sets the library API key and returns the adapter.
func NewGoogle(apiKey string) *Google {
	geocoder.ApiKey = apiKey
	return &Google{
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

// Geocode resolves query. The library call is not cancellable; ctx is only
// checked before and after it.
func (g *Google) Geocode(ctx context.Context, query string) (weather.ResolvedLocation, error) {
	if err := ctx.Err(); err != nil {
		return weather.ResolvedLocation{}, err
	}

	loc, err := g.geocode(geocoder.Address{City: query})
	if err != nil {
		return weather.ResolvedLocation{}, fmt.Errorf("google geocoding %q: %w", query, err)
	}
	if err := ctx.Err(); err != nil {
		return weather.ResolvedLocation{}, err
	}

	return weather.ResolvedLocation{
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		DisplayName: strings.TrimSpace(query),
	}, nil
}

// ReverseGeocode returns "City, State" for the first address found.
func (g *Google) ReverseGeocode(ctx context.Context, c weather.Coordinates) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	addrs, err := g.reverse(geocoder.Location{Latitude: c.Lat, Longitude: c.Lon})
	if err != nil {
		return "", fmt.Errorf("google reverse geocoding: %w", err)
	}
	for _, a := range addrs {
		if a.City != "" && a.State != "" {
			return a.City + ", " + a.State, nil
		}
		if a.City != "" {
			return a.City, nil
		}
	}
	if len(addrs) > 0 && addrs[0].FormattedAddress != "" {
		return addrs[0].FormattedAddress, nil
	}
	return "", fmt.Errorf("location not found")
}
