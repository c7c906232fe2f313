package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const testTomorrowKey = "abcdefghijklmnopqrstuvwxyz012345"

func tomorrowServer(t *testing.T, realtime, forecast interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testTomorrowKey, r.URL.Query().Get("apikey"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "1.352100,103.819800", r.URL.Query().Get("location"))

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/weather/realtime"):
			_ = json.NewEncoder(w).Encode(realtime)
		case strings.HasSuffix(r.URL.Path, "/weather/forecast"):
			assert.Equal(t, "1d", r.URL.Query().Get("timesteps"))
			_ = json.NewEncoder(w).Encode(forecast)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

var singapore = weather.Coordinates{Lat: 1.3521, Lon: 103.8198}

func TestTomorrowCurrent(t *testing.T) {
	realtime := map[string]interface{}{
		"data": map[string]interface{}{
			"time": "2024-01-01T04:00:00Z",
			"values": map[string]interface{}{
				"temperature":              30.4,
				"temperatureApparent":      35.1,
				"humidity":                 78,
				"windSpeed":                5.0,
				"weatherCode":              1100,
				"uvIndex":                  7,
				"precipitationProbability": 10,
				"visibility":               16,
				"pressureSurfaceLevel":     1008.2,
			},
		},
	}
	server := tomorrowServer(t, realtime, nil)
	defer server.Close()

	p := NewTomorrowProvider(server.Client(), testTomorrowKey, server.URL+"/v4", fastRetry)
	got, err := p.Current(context.Background(), singapore)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 4, 0, 0, 0, time.UTC), got.ObservedAt)
	assert.Equal(t, 30.4, got.Temperature)
	assert.Equal(t, 35.1, got.FeelsLike)
	assert.InDelta(t, 18.0, got.WindSpeedKmh, 0.001)
	assert.Equal(t, 1100, got.WeatherCode)
	assert.Equal(t, 7.0, got.UVIndex)
	require.NotNil(t, got.PressureHpa)
	assert.Equal(t, 1008.2, *got.PressureHpa)
	assert.Nil(t, got.PrecipitationIntensity)
}

func TestTomorrowCurrentMissingField(t *testing.T) {
	realtime := map[string]interface{}{
		"data": map[string]interface{}{
			"time": "2024-01-01T04:00:00Z",
			"values": map[string]interface{}{
				"temperature": 30.4,
				// humidity, windSpeed, weatherCode missing
				"temperatureApparent": 35.1,
			},
		},
	}
	server := tomorrowServer(t, realtime, nil)
	defer server.Close()

	p := NewTomorrowProvider(server.Client(), testTomorrowKey, server.URL+"/v4", fastRetry)
	_, err := p.Current(context.Background(), singapore)
	assert.ErrorIs(t, err, weather.ErrMalformedPayload)
}

func TestTomorrowForecast(t *testing.T) {
	day := func(date string, code int, withSun bool) map[string]interface{} {
		values := map[string]interface{}{
			"temperatureAvg":              28.6,
			"temperatureMax":              31.2,
			"temperatureMin":              25.0,
			"weatherCodeMax":              code,
			"precipitationProbabilityAvg": 40,
		}
		if withSun {
			values["sunriseTime"] = date + "T23:05:00Z"
			values["sunsetTime"] = date + "T11:10:00Z"
		}
		return map[string]interface{}{"time": date + "T00:00:00Z", "values": values}
	}
	forecast := map[string]interface{}{
		"timelines": map[string]interface{}{
			"daily": []interface{}{
				day("2024-01-01", 4001, true),
				day("2024-01-02", 1000, false),
				day("2024-01-03", 8000, true),
			},
		},
	}
	server := tomorrowServer(t, nil, forecast)
	defer server.Close()

	p := NewTomorrowProvider(server.Client(), testTomorrowKey, server.URL+"/v4", fastRetry)
	got, err := p.Forecast(context.Background(), singapore, 2)
	require.NoError(t, err)
	require.Len(t, got, 2, "truncated to the requested window")

	assert.Equal(t, 4001, got[0].WeatherCode)
	assert.Equal(t, 31.2, got[0].TempMax)
	assert.False(t, got[0].Sunrise.IsZero())
	assert.True(t, got[1].Sunrise.IsZero(), "later days may omit sun times")
}

func TestTomorrowForecastRequiresSunTimesForToday(t *testing.T) {
	forecast := map[string]interface{}{
		"timelines": map[string]interface{}{
			"daily": []interface{}{
				map[string]interface{}{
					"time": "2024-01-01T00:00:00Z",
					"values": map[string]interface{}{
						"temperatureAvg": 1.0, "temperatureMax": 2.0, "temperatureMin": 0.0, "weatherCodeMax": 5000,
					},
				},
			},
		},
	}
	server := tomorrowServer(t, nil, forecast)
	defer server.Close()

	p := NewTomorrowProvider(server.Client(), testTomorrowKey, server.URL+"/v4", fastRetry)
	_, err := p.Forecast(context.Background(), singapore, 7)
	assert.ErrorIs(t, err, weather.ErrMalformedPayload)
}

func TestTomorrowForecastEmptyTimeline(t *testing.T) {
	forecast := map[string]interface{}{"timelines": map[string]interface{}{"daily": []interface{}{}}}
	server := tomorrowServer(t, nil, forecast)
	defer server.Close()

	p := NewTomorrowProvider(server.Client(), testTomorrowKey, server.URL+"/v4", fastRetry)
	_, err := p.Forecast(context.Background(), singapore, 7)
	assert.ErrorIs(t, err, weather.ErrMalformedPayload)
}

func TestTomorrowNonSuccessStatus(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer server.Close()

	p := NewTomorrowProvider(server.Client(), testTomorrowKey, server.URL, fastRetry)
	_, err := p.Current(context.Background(), singapore)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestTomorrowUnconfiguredMakesNoCalls(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	for _, key := range []string{"", "short", "your_api_key_here"} {
		p := NewTomorrowProvider(server.Client(), key, server.URL, fastRetry)
		assert.False(t, p.Configured(), "key %q", key)
		_, err := p.Current(context.Background(), singapore)
		assert.ErrorIs(t, err, weather.ErrNotConfigured)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}
