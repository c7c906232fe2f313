package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestTranslateWMOCode(t *testing.T) {
	cases := map[int]int{
		0:  weather.CodeClear,
		1:  weather.CodeMostlyClear,
		2:  weather.CodePartlyCloudy,
		3:  weather.CodeCloudy,
		45: weather.CodeFog,
		53: weather.CodeDrizzle,
		57: weather.CodeFreezingDrizzle,
		63: weather.CodeRain,
		67: weather.CodeHeavyFreezingRain,
		73: weather.CodeSnow,
		82: weather.CodeHeavyRain,
		99: weather.CodeThunderstorm,
		42: weather.CodeUnknown,
	}
	for in, want := range cases {
		assert.Equal(t, want, TranslateWMOCode(in), "wmo %d", in)
	}
}

func TestOpenMeteoCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "kmh", r.URL.Query().Get("wind_speed_unit"))
		assert.NotEmpty(t, r.URL.Query().Get("current"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"utc_offset_seconds": 28800,
			"current": {
				"time": "2024-01-01T12:00",
				"temperature_2m": 31.5,
				"apparent_temperature": 36.0,
				"relative_humidity_2m": 70,
				"wind_speed_10m": 12.4,
				"weather_code": 2,
				"visibility": 24140
			}
		}`))
	}))
	defer server.Close()

	p := NewOpenMeteoProvider(server.Client(), server.URL, fastRetry)
	assert.True(t, p.Configured())

	got, err := p.Current(context.Background(), singapore)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC), got.ObservedAt)
	assert.Equal(t, weather.CodePartlyCloudy, got.WeatherCode)
	assert.Equal(t, 12.4, got.WindSpeedKmh)
	require.NotNil(t, got.VisibilityKm)
	assert.InDelta(t, 24.14, *got.VisibilityKm, 0.001)
}

func TestOpenMeteoForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("forecast_days"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"utc_offset_seconds": 0,
			"daily": {
				"time": ["2024-01-01", "2024-01-02", "2024-01-03"],
				"weather_code": [61, 0, 95],
				"temperature_2m_max": [10, 12, 9],
				"temperature_2m_min": [4, 6, 3],
				"precipitation_probability_max": [80, null, 60],
				"sunrise": ["2024-01-01T08:06", "2024-01-02T08:06", "2024-01-03T08:06"],
				"sunset": ["2024-01-01T16:02", "2024-01-02T16:03", "2024-01-03T16:04"]
			}
		}`))
	}))
	defer server.Close()

	p := NewOpenMeteoProvider(server.Client(), server.URL, fastRetry)
	got, err := p.Forecast(context.Background(), singapore, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, weather.CodeLightRain, got[0].WeatherCode)
	assert.Equal(t, 7.0, got[0].TempAvg)
	require.NotNil(t, got[0].PrecipitationProbability)
	assert.Equal(t, 80.0, *got[0].PrecipitationProbability)
	assert.Nil(t, got[1].PrecipitationProbability)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 6, 0, 0, time.UTC), got[0].Sunrise.UTC())
}

func TestOpenMeteoForecastMismatchedArrays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"daily": {
				"time": ["2024-01-01", "2024-01-02"],
				"weather_code": [61],
				"temperature_2m_max": [10, 12],
				"temperature_2m_min": [4, 6],
				"sunrise": ["2024-01-01T08:06", "2024-01-02T08:06"],
				"sunset": ["2024-01-01T16:02", "2024-01-02T16:03"]
			}
		}`))
	}))
	defer server.Close()

	p := NewOpenMeteoProvider(server.Client(), server.URL, fastRetry)
	_, err := p.Forecast(context.Background(), singapore, 7)
	assert.ErrorIs(t, err, weather.ErrMalformedPayload)
}
