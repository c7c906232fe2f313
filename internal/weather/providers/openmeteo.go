package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultOpenMeteoBaseURL is the Open-Meteo forecast endpoint.
const DefaultOpenMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no
// credential and reports WMO codes translated into the Tomorrow.io code space.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	fetcher *Fetcher
}

func NewOpenMeteoProvider(client *http.Client, baseURL string, retry RetryConfig) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: NewFetcher("openmeteo", client, retry),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Configured is always true; Open-Meteo is keyless.
func (p *OpenMeteoProvider) Configured() bool {
	return true
}

type openMeteoCurrent struct {
	Time                string   `json:"time" validate:"required"`
	Temperature         *float64 `json:"temperature_2m" validate:"required"`
	ApparentTemperature *float64 `json:"apparent_temperature" validate:"required"`
	RelativeHumidity    *float64 `json:"relative_humidity_2m" validate:"required"`
	WindSpeed           *float64 `json:"wind_speed_10m" validate:"required"`
	WeatherCode         *int     `json:"weather_code" validate:"required"`
	UVIndex             *float64 `json:"uv_index"`
	Precipitation       *float64 `json:"precipitation"`
	SurfacePressure     *float64 `json:"surface_pressure"`
	Visibility          *float64 `json:"visibility"` // metres
}

type openMeteoCurrentPayload struct {
	UTCOffsetSeconds int               `json:"utc_offset_seconds"`
	Current          *openMeteoCurrent `json:"current" validate:"required"`
}

type openMeteoDaily struct {
	Time                        []string   `json:"time" validate:"required,min=1"`
	WeatherCode                 []int      `json:"weather_code" validate:"required,min=1"`
	TemperatureMax              []float64  `json:"temperature_2m_max" validate:"required,min=1"`
	TemperatureMin              []float64  `json:"temperature_2m_min" validate:"required,min=1"`
	PrecipitationProbabilityMax []*float64 `json:"precipitation_probability_max"`
	Sunrise                     []string   `json:"sunrise" validate:"required,min=1"`
	Sunset                      []string   `json:"sunset" validate:"required,min=1"`
}

type openMeteoDailyPayload struct {
	UTCOffsetSeconds int             `json:"utc_offset_seconds"`
	Daily            *openMeteoDaily `json:"daily" validate:"required"`
}

const openMeteoLocalLayout = "2006-01-02T15:04"

func (p *OpenMeteoProvider) endpoint(c weather.Coordinates, extra url.Values) string {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", c.Lat))
	values.Set("longitude", fmt.Sprintf("%f", c.Lon))
	values.Set("timezone", "auto")
	values.Set("wind_speed_unit", "kmh")
	for k, v := range extra {
		values[k] = v
	}
	return fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
}

func (p *OpenMeteoProvider) Current(ctx context.Context, c weather.Coordinates) (weather.CurrentReading, error) {
	extra := url.Values{}
	extra.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,weather_code,uv_index,precipitation,surface_pressure,visibility")

	resp, err := p.fetcher.Get(ctx, p.endpoint(c, extra))
	if err != nil {
		return weather.CurrentReading{}, err
	}

	var payload openMeteoCurrentPayload
	if err := decodePayload(p.name, resp, &payload); err != nil {
		return weather.CurrentReading{}, err
	}

	zone := time.FixedZone("", payload.UTCOffsetSeconds)
	cur := payload.Current
	observed, err := parseTimeIn(p.name, "current.time", cur.Time, zone, openMeteoLocalLayout, time.RFC3339)
	if err != nil {
		return weather.CurrentReading{}, err
	}

	reading := weather.CurrentReading{
		ObservedAt:             observed.UTC(),
		Temperature:            *cur.Temperature,
		FeelsLike:              *cur.ApparentTemperature,
		Humidity:               *cur.RelativeHumidity,
		WindSpeedKmh:           *cur.WindSpeed,
		WeatherCode:            TranslateWMOCode(*cur.WeatherCode),
		PrecipitationIntensity: cur.Precipitation,
		PressureHpa:            cur.SurfacePressure,
	}
	if cur.UVIndex != nil {
		reading.UVIndex = *cur.UVIndex
	}
	if cur.Visibility != nil {
		reading.VisibilityKm = floatPtr(*cur.Visibility / 1000)
	}
	return reading, nil
}

func (p *OpenMeteoProvider) Forecast(ctx context.Context, c weather.Coordinates, days int) ([]weather.DailyReading, error) {
	if days <= 0 {
		days = 7
	}
	extra := url.Values{}
	extra.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,sunrise,sunset")
	extra.Set("forecast_days", fmt.Sprintf("%d", days))

	resp, err := p.fetcher.Get(ctx, p.endpoint(c, extra))
	if err != nil {
		return nil, err
	}

	var payload openMeteoDailyPayload
	if err := decodePayload(p.name, resp, &payload); err != nil {
		return nil, err
	}

	d := payload.Daily
	n := len(d.Time)
	if len(d.WeatherCode) != n || len(d.TemperatureMax) != n || len(d.TemperatureMin) != n ||
		len(d.Sunrise) != n || len(d.Sunset) != n {
		return nil, fmt.Errorf("%w: %s: daily arrays differ in length", weather.ErrMalformedPayload, p.name)
	}
	if n > days {
		n = days
	}

	zone := time.FixedZone("", payload.UTCOffsetSeconds)
	out := make([]weather.DailyReading, 0, n)
	for i := 0; i < n; i++ {
		date, err := parseTimeIn(p.name, "daily.time", d.Time[i], zone, "2006-01-02")
		if err != nil {
			return nil, err
		}
		sunrise, err := parseTimeIn(p.name, "daily.sunrise", d.Sunrise[i], zone, openMeteoLocalLayout)
		if err != nil {
			return nil, err
		}
		sunset, err := parseTimeIn(p.name, "daily.sunset", d.Sunset[i], zone, openMeteoLocalLayout)
		if err != nil {
			return nil, err
		}

		r := weather.DailyReading{
			Date:        date,
			TempMax:     d.TemperatureMax[i],
			TempMin:     d.TemperatureMin[i],
			TempAvg:     (d.TemperatureMax[i] + d.TemperatureMin[i]) / 2,
			WeatherCode: TranslateWMOCode(d.WeatherCode[i]),
			Sunrise:     sunrise,
			Sunset:      sunset,
		}
		if i < len(d.PrecipitationProbabilityMax) {
			r.PrecipitationProbability = d.PrecipitationProbabilityMax[i]
		}
		out = append(out, r)
	}
	return out, nil
}

// TranslateWMOCode maps an Open-Meteo (WMO 4677) code to the Tomorrow.io
// code space used by the condition mapper. Unknown codes become CodeUnknown.
func TranslateWMOCode(code int) int {
	switch code {
	case 0:
		return weather.CodeClear
	case 1:
		return weather.CodeMostlyClear
	case 2:
		return weather.CodePartlyCloudy
	case 3:
		return weather.CodeCloudy
	case 45, 48:
		return weather.CodeFog
	case 51, 53, 55:
		return weather.CodeDrizzle
	case 56, 57:
		return weather.CodeFreezingDrizzle
	case 61, 80:
		return weather.CodeLightRain
	case 63, 81:
		return weather.CodeRain
	case 65, 82:
		return weather.CodeHeavyRain
	case 66:
		return weather.CodeLightFreezingRain
	case 67:
		return weather.CodeHeavyFreezingRain
	case 71, 85:
		return weather.CodeLightSnow
	case 73:
		return weather.CodeSnow
	case 75, 86:
		return weather.CodeHeavySnow
	case 77:
		return weather.CodeFlurries
	case 95, 96, 99:
		return weather.CodeThunderstorm
	default:
		return weather.CodeUnknown
	}
}
