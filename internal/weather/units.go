package weather

import (
	"math"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// CelsiusToFahrenheit converts a temperature.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts a temperature.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

const (
	kmPerMile = 1.609344
	mmPerInch = 25.4
)

// ConvertUnits returns a copy of w expressed in the requested units.
// Temperatures become °F, wind speed mph, visibility miles and
// precipitation intensity in/h (two decimals) for imperial.
// Converting to the units w already uses is a no-op.
func ConvertUnits(w NormalizedWeather, to Units) NormalizedWeather {
	if to == "" || w.Units == to {
		return w
	}

	var temp func(int) int
	var dist func(int) int
	var rate func(float64) float64
	switch to {
	case UnitsImperial:
		temp = func(c int) int { return common.RoundInt(CelsiusToFahrenheit(float64(c))) }
		dist = func(km int) int { return common.RoundInt(float64(km) / kmPerMile) }
		rate = func(mm float64) float64 { return math.Round(mm/mmPerInch*100) / 100 }
	case UnitsMetric:
		temp = func(f int) int { return common.RoundInt(FahrenheitToCelsius(float64(f))) }
		dist = func(mi int) int { return common.RoundInt(float64(mi) * kmPerMile) }
		rate = func(in float64) float64 { return math.Round(in*mmPerInch*100) / 100 }
	default:
		return w
	}

	out := w
	out.Units = to
	out.Current.Temperature = temp(w.Current.Temperature)
	out.Current.FeelsLike = temp(w.Current.FeelsLike)
	out.Current.WindSpeed = dist(w.Current.WindSpeed)
	if w.Current.Visibility != nil {
		v := dist(*w.Current.Visibility)
		out.Current.Visibility = &v
	}
	if w.Current.PrecipitationIntensity != nil {
		p := rate(*w.Current.PrecipitationIntensity)
		out.Current.PrecipitationIntensity = &p
	}

	out.Forecast = make([]ForecastDay, len(w.Forecast))
	for i, d := range w.Forecast {
		d.Temperature = temp(d.Temperature)
		d.High = temp(d.High)
		d.Low = temp(d.Low)
		out.Forecast[i] = d
	}
	return out
}
