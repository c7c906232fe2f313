package weather

import (
	"math"
	"math/rand"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/common"
)

// climate is a plausible regional baseline for synthesized weather.
type climate struct {
	name     string
	temp     float64
	humidity float64
	wind     float64
	uv       float64
	codes    []int
}

var (
	tropical = climate{
		name: "tropical", temp: 30, humidity: 78, wind: 10, uv: 9,
		codes: []int{CodeClear, CodeMostlyClear, CodePartlyCloudy, CodeDrizzle, CodeRain, CodeThunderstorm},
	}
	subtropical = climate{
		name: "subtropical", temp: 24, humidity: 60, wind: 12, uv: 7,
		codes: []int{CodeClear, CodeMostlyClear, CodePartlyCloudy, CodeCloudy, CodeDrizzle},
	}
	temperate = climate{
		name: "temperate", temp: 15, humidity: 65, wind: 15, uv: 4,
		codes: []int{CodeMostlyClear, CodePartlyCloudy, CodeMostlyCloudy, CodeCloudy, CodeLightRain, CodeLightFog, CodeLightWind},
	}
	polar = climate{
		name: "polar", temp: -5, humidity: 75, wind: 20, uv: 1,
		codes: []int{CodeSnow, CodeLightSnow, CodeFlurries, CodeCloudy, CodeMostlyCloudy, CodeWind},
	}
)

// climateFor picks the baseline by absolute latitude; unknown positions get
// the temperate one.
func climateFor(c *Coordinates) climate {
	if c == nil {
		return temperate
	}
	lat := math.Abs(c.Lat)
	switch {
	case lat < 23.5:
		return tropical
	case lat < 35:
		return subtropical
	case lat < 60:
		return temperate
	default:
		return polar
	}
}

// jitter returns a value uniformly drawn from [-band, band].
func jitter(rng *rand.Rand, band float64) float64 {
	return (rng.Float64()*2 - 1) * band
}

func wet(code int) bool {
	switch CategoryOf(code) {
	case CategoryRain, CategorySnow, CategoryFreezingRain, CategorySleet, CategoryThunderstorm:
		return true
	}
	return false
}

// fallbackLocation works out what is known about the place without any
// network call.
func (s *Service) fallbackLocation(rs *requestScope) (string, *Coordinates) {
	if rs.resolved {
		c := rs.location.Coordinates()
		return rs.location.DisplayName, &c
	}
	if rs.req.Coordinates != nil && validCoordinates(*rs.req.Coordinates) {
		c := *rs.req.Coordinates
		return c.String(), &c
	}
	if city := strings.TrimSpace(rs.req.City); city != "" {
		if found, ok := cities.FindByName(city); ok {
			return found.DisplayName(), &Coordinates{Lat: found.Latitude, Lon: found.Longitude}
		}
		return city, nil
	}
	return "Current Location", nil
}

// synthesize builds a complete NormalizedWeather from regional baselines.
func (s *Service) synthesize(rs *requestScope) NormalizedWeather {
	name, coords := s.fallbackLocation(rs)
	cl := climateFor(coords)
	rng := rs.rng
	local := rs.now.In(s.tz)
	isDay := daylightHour(local.Hour())

	code := cl.codes[rng.Intn(len(cl.codes))]
	temp := cl.temp + jitter(rng, 3)

	precip := common.RoundInt(rng.Float64() * 20)
	if wet(code) {
		precip = 60 + common.RoundInt(rng.Float64()*30)
	}
	visibility := common.RoundInt(common.Clamp(10+jitter(rng, 5), 1, 16))
	if CategoryOf(code) == CategoryFog {
		visibility = 1
	}
	pressure := common.RoundInt(1013 + jitter(rng, 8))

	uv := 0
	if isDay {
		uv = common.RoundInt(common.Clamp(cl.uv+jitter(rng, 1.5), 0, 11))
	}

	current := CurrentConditions{
		Temperature:              common.RoundInt(temp),
		FeelsLike:                common.RoundInt(temp + jitter(rng, 2)),
		Humidity:                 common.RoundInt(common.Clamp(cl.humidity+jitter(rng, 10), 0, 100)),
		WindSpeed:                common.RoundInt(math.Max(0, cl.wind+jitter(rng, 5))),
		UVIndex:                  uv,
		PrecipitationProbability: &precip,
		Visibility:               &visibility,
		Pressure:                 &pressure,
		IsDay:                    isDay,
		Condition:                MapCondition(code, isDay),
		WeatherCode:              code,
		LastUpdated:              local.Format(lastUpdatedLayout),
	}

	forecast := make([]ForecastDay, 0, s.days)
	for i := 0; i < s.days; i++ {
		date := local.AddDate(0, 0, i)
		dc := cl.codes[rng.Intn(len(cl.codes))]
		avg := cl.temp + jitter(rng, 4)
		pp := common.RoundInt(rng.Float64() * 20)
		if wet(dc) {
			pp = 50 + common.RoundInt(rng.Float64()*40)
		}
		forecast = append(forecast, ForecastDay{
			Day:                      dayLabel(i, date),
			Date:                     date.Format(forecastDateLayout),
			Temperature:              common.RoundInt(avg),
			High:                     common.RoundInt(avg + 2 + rng.Float64()*3),
			Low:                      common.RoundInt(avg - 2 - rng.Float64()*3),
			Condition:                MapCondition(dc, true),
			WeatherCode:              &dc,
			PrecipitationProbability: &pp,
		})
	}

	rs.log.Debugf("synthesized %s weather for %q", cl.name, name)
	return NormalizedWeather{
		Location:    name,
		Current:     current,
		Forecast:    forecast,
		Coordinates: coords,
		Units:       UnitsMetric,
		Source:      SourceMock,
		FetchedAt:   rs.now.UTC(),
	}
}
