package geo

import (
	"context"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// StaticLocator reports a fixed device position, or none at all.
type StaticLocator struct {
	coords *weather.Coordinates
}

// NewStaticLocator returns a locator for coords; nil means no device position.
func NewStaticLocator(coords *weather.Coordinates) *StaticLocator {
	return &StaticLocator{coords: coords}
}

func (l *StaticLocator) Locate(ctx context.Context) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}
	if l == nil || l.coords == nil {
		return weather.Coordinates{}, weather.ErrLocationUnavailable
	}
	return *l.coords, nil
}
