package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestTemperatureConversion(t *testing.T) {
	assert.Equal(t, 212.0, CelsiusToFahrenheit(100))
	assert.Equal(t, 32.0, CelsiusToFahrenheit(0))
	assert.InDelta(t, -40.0, FahrenheitToCelsius(-40), 1e-9)
}

func TestConvertUnitsToImperial(t *testing.T) {
	w := NormalizedWeather{
		Units: UnitsMetric,
		Current: CurrentConditions{
			Temperature: 30,
			FeelsLike:   35,
			WindSpeed:   16,
			Visibility:  intPtr(10),
		},
		Forecast: []ForecastDay{{Temperature: 20, High: 25, Low: 15}},
	}

	got := ConvertUnits(w, UnitsImperial)

	assert.Equal(t, UnitsImperial, got.Units)
	assert.Equal(t, 86, got.Current.Temperature)
	assert.Equal(t, 95, got.Current.FeelsLike)
	assert.Equal(t, 10, got.Current.WindSpeed)
	require.NotNil(t, got.Current.Visibility)
	assert.Equal(t, 6, *got.Current.Visibility)
	assert.Equal(t, ForecastDay{Temperature: 68, High: 77, Low: 59}, got.Forecast[0])

	// input untouched
	assert.Equal(t, 30, w.Current.Temperature)
	assert.Equal(t, 10, *w.Current.Visibility)
	assert.Equal(t, 20, w.Forecast[0].Temperature)
}

func TestConvertUnitsPrecipitationIntensity(t *testing.T) {
	mm := 12.7
	w := NormalizedWeather{Units: UnitsMetric, Current: CurrentConditions{PrecipitationIntensity: &mm}}

	got := ConvertUnits(w, UnitsImperial)
	require.NotNil(t, got.Current.PrecipitationIntensity)
	assert.Equal(t, 0.5, *got.Current.PrecipitationIntensity)
	assert.Equal(t, 12.7, mm, "input untouched")

	back := ConvertUnits(got, UnitsMetric)
	assert.Equal(t, 12.7, *back.Current.PrecipitationIntensity)

	assert.Nil(t, ConvertUnits(NormalizedWeather{Units: UnitsMetric}, UnitsImperial).Current.PrecipitationIntensity)
}

func TestConvertUnitsNoop(t *testing.T) {
	w := NormalizedWeather{Units: UnitsMetric, Current: CurrentConditions{Temperature: 21}}
	assert.Equal(t, w, ConvertUnits(w, UnitsMetric))
	assert.Equal(t, w, ConvertUnits(w, ""))
	assert.Equal(t, w, ConvertUnits(w, Units("kelvin")))
}

func TestConvertUnitsRoundTrip(t *testing.T) {
	w := NormalizedWeather{Units: UnitsMetric, Current: CurrentConditions{Temperature: 25}}
	back := ConvertUnits(ConvertUnits(w, UnitsImperial), UnitsMetric)
	assert.Equal(t, UnitsMetric, back.Units)
	assert.Equal(t, 25, back.Current.Temperature)
}

func TestUsableAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"abc", false},
		{"your_api_key_here", false},
		{"YOUR_TOMORROW_API_KEY", false},
		{"0123456789abcdef", true},
		{"k3Jd8sPq0Zx7Lm2Nv5Rt", true},
		{"                ", false},
		{"   abc12345      ", false},
		{"  your_api_key_here  ", false},
		{" 0123456789abcdef\n", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UsableAPIKey(tt.key), "key %q", tt.key)
	}
}
