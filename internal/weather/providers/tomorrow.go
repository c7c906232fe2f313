package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultTomorrowBaseURL is the Tomorrow.io v4 API root.
const DefaultTomorrowBaseURL = "https://api.tomorrow.io/v4"

// TomorrowProvider implements weather.Provider for Tomorrow.io.
type TomorrowProvider struct {
	name    string
	apiKey  string
	baseURL string
	fetcher *Fetcher
}

// NewTomorrowProvider builds the provider. An empty baseURL selects
// DefaultTomorrowBaseURL.
func NewTomorrowProvider(client *http.Client, apiKey, baseURL string, retry RetryConfig) *TomorrowProvider {
	if baseURL == "" {
		baseURL = DefaultTomorrowBaseURL
	}
	return &TomorrowProvider{
		name:    "tomorrow.io",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: NewFetcher("tomorrow.io", client, retry),
	}
}

func (p *TomorrowProvider) Name() string {
	return p.name
}

// Configured reports whether the API key is usable.
func (p *TomorrowProvider) Configured() bool {
	return weather.UsableAPIKey(p.apiKey)
}

type tomorrowValues struct {
	Temperature              *float64 `json:"temperature" validate:"required"`
	TemperatureApparent      *float64 `json:"temperatureApparent" validate:"required"`
	Humidity                 *float64 `json:"humidity" validate:"required"`
	WindSpeed                *float64 `json:"windSpeed" validate:"required"`
	WeatherCode              *int     `json:"weatherCode" validate:"required"`
	UVIndex                  *float64 `json:"uvIndex"`
	PrecipitationProbability *float64 `json:"precipitationProbability"`
	PrecipitationIntensity   *float64 `json:"precipitationIntensity"`
	Visibility               *float64 `json:"visibility"`
	PressureSurfaceLevel     *float64 `json:"pressureSurfaceLevel"`
}

type tomorrowRealtimeData struct {
	Time   string          `json:"time" validate:"required"`
	Values *tomorrowValues `json:"values" validate:"required"`
}

type tomorrowRealtime struct {
	Data *tomorrowRealtimeData `json:"data" validate:"required"`
}

type tomorrowDailyValues struct {
	TemperatureAvg              *float64 `json:"temperatureAvg" validate:"required"`
	TemperatureMax              *float64 `json:"temperatureMax" validate:"required"`
	TemperatureMin              *float64 `json:"temperatureMin" validate:"required"`
	WeatherCodeMax              *int     `json:"weatherCodeMax" validate:"required"`
	PrecipitationProbabilityAvg *float64 `json:"precipitationProbabilityAvg"`
	SunriseTime                 string   `json:"sunriseTime"`
	SunsetTime                  string   `json:"sunsetTime"`
}

type tomorrowDaily struct {
	Time   string               `json:"time" validate:"required"`
	Values *tomorrowDailyValues `json:"values" validate:"required"`
}

type tomorrowTimelines struct {
	Daily []tomorrowDaily `json:"daily" validate:"required,min=1,dive"`
}

type tomorrowForecast struct {
	Timelines *tomorrowTimelines `json:"timelines" validate:"required"`
}

func (p *TomorrowProvider) endpoint(path string, c weather.Coordinates, extra url.Values) string {
	values := url.Values{}
	values.Set("location", fmt.Sprintf("%f,%f", c.Lat, c.Lon))
	values.Set("units", string(weather.UnitsMetric))
	values.Set("apikey", p.apiKey)
	for k, v := range extra {
		values[k] = v
	}
	return fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
}

// Current fetches /weather/realtime.
func (p *TomorrowProvider) Current(ctx context.Context, c weather.Coordinates) (weather.CurrentReading, error) {
	if !p.Configured() {
		return weather.CurrentReading{}, weather.ErrNotConfigured
	}

	resp, err := p.fetcher.Get(ctx, p.endpoint("/weather/realtime", c, nil))
	if err != nil {
		return weather.CurrentReading{}, err
	}

	var payload tomorrowRealtime
	if err := decodePayload(p.name, resp, &payload); err != nil {
		return weather.CurrentReading{}, err
	}

	observed, err := parseTime(p.name, "time", payload.Data.Time, time.RFC3339)
	if err != nil {
		return weather.CurrentReading{}, err
	}

	v := payload.Data.Values
	reading := weather.CurrentReading{
		ObservedAt:               observed.UTC(),
		Temperature:              *v.Temperature,
		FeelsLike:                *v.TemperatureApparent,
		Humidity:                 *v.Humidity,
		WindSpeedKmh:             *v.WindSpeed * 3.6, // m/s in metric units
		WeatherCode:              *v.WeatherCode,
		PrecipitationProbability: v.PrecipitationProbability,
		PrecipitationIntensity:   v.PrecipitationIntensity,
		VisibilityKm:             v.Visibility,
		PressureHpa:              v.PressureSurfaceLevel,
	}
	if v.UVIndex != nil {
		reading.UVIndex = *v.UVIndex
	}
	return reading, nil
}

// Forecast fetches /weather/forecast with daily timesteps. The first day
// must carry sunrise and sunset times.
func (p *TomorrowProvider) Forecast(ctx context.Context, c weather.Coordinates, days int) ([]weather.DailyReading, error) {
	if !p.Configured() {
		return nil, weather.ErrNotConfigured
	}

	extra := url.Values{}
	extra.Set("timesteps", "1d")
	resp, err := p.fetcher.Get(ctx, p.endpoint("/weather/forecast", c, extra))
	if err != nil {
		return nil, err
	}

	var payload tomorrowForecast
	if err := decodePayload(p.name, resp, &payload); err != nil {
		return nil, err
	}

	daily := payload.Timelines.Daily
	if days > 0 && len(daily) > days {
		daily = daily[:days]
	}

	out := make([]weather.DailyReading, 0, len(daily))
	for i, d := range daily {
		date, err := parseTime(p.name, "daily["+strconv.Itoa(i)+"].time", d.Time, time.RFC3339)
		if err != nil {
			return nil, err
		}

		r := weather.DailyReading{
			Date:                     date,
			TempAvg:                  *d.Values.TemperatureAvg,
			TempMax:                  *d.Values.TemperatureMax,
			TempMin:                  *d.Values.TemperatureMin,
			WeatherCode:              *d.Values.WeatherCodeMax,
			PrecipitationProbability: d.Values.PrecipitationProbabilityAvg,
		}

		if d.Values.SunriseTime != "" && d.Values.SunsetTime != "" {
			if r.Sunrise, err = parseTime(p.name, "sunriseTime", d.Values.SunriseTime, time.RFC3339); err != nil {
				return nil, err
			}
			if r.Sunset, err = parseTime(p.name, "sunsetTime", d.Values.SunsetTime, time.RFC3339); err != nil {
				return nil, err
			}
		} else if i == 0 {
			return nil, fmt.Errorf("%w: %s: missing sunrise/sunset", weather.ErrMalformedPayload, p.name)
		}

		out = append(out, r)
	}
	return out, nil
}
