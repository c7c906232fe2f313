package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/logger"
)

// State is a step of the GetWeather lifecycle.
type State string

const (
	StateResolveLocation State = "resolve_location"
	StateFetchCurrent    State = "fetch_current"
	StateFetchForecast   State = "fetch_forecast"
	StateNormalize       State = "normalize"
	StateErrorFallback   State = "error_fallback"
	StateDone            State = "done"
)

const (
	DefaultForecastDays       = 7
	DefaultGeolocationTimeout = 10 * time.Second

	lastUpdatedLayout  = "3:04 PM"
	forecastDateLayout = "2006-01-02"
)

// ErrInvalidCoordinates is returned for coordinates outside the valid range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Service resolves a location, fetches current conditions and a forecast from
// its provider and normalizes them. Every failure degrades to synthesized data.
type Service struct {
	provider   Provider
	geocoder   Geocoder
	locator    Locator
	store      Store
	log        logger.Logger
	now        func() time.Time
	newRand    func() *rand.Rand
	days       int
	geoTimeout time.Duration
	tz         *time.Location
}

// Option configures a Service.
type Option func(*Service)

func WithGeocoder(g Geocoder) Option { return func(s *Service) { s.geocoder = g } }

func WithLocator(l Locator) Option { return func(s *Service) { s.locator = l } }

// WithStore records every result into st.
func WithStore(st Store) Option { return func(s *Service) { s.store = st } }

func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithRand sets the factory for the per-request random source used by the
// fallback path.
func WithRand(f func() *rand.Rand) Option { return func(s *Service) { s.newRand = f } }

// WithForecastDays sets the forecast window. Values below 1 are ignored.
func WithForecastDays(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.days = n
		}
	}
}

func WithGeolocationTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.geoTimeout = d
		}
	}
}

// WithTimeZone sets the zone used for "last updated" strings and the
// wall-clock day/night guess of synthesized data.
func WithTimeZone(tz *time.Location) Option {
	return func(s *Service) {
		if tz != nil {
			s.tz = tz
		}
	}
}

// NewService creates a Service around provider. A nil provider is allowed;
// every request then falls back to synthesized data.
func NewService(provider Provider, opts ...Option) *Service {
	s := &Service{
		provider:   provider,
		log:        logger.Discard(),
		now:        time.Now,
		newRand:    func() *rand.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) },
		days:       DefaultForecastDays,
		geoTimeout: DefaultGeolocationTimeout,
		tz:         time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForecastDays returns the configured forecast window.
func (s *Service) ForecastDays() int { return s.days }

// requestScope carries everything mutable about one GetWeather call.
type requestScope struct {
	id       string
	state    State
	req      Request
	location ResolvedLocation
	resolved bool
	current  CurrentReading
	daily    []DailyReading
	now      time.Time
	rng      *rand.Rand
	err      error
	log      logger.Logger
}

func (rs *requestScope) to(next State) {
	rs.log.Debugf("weather request %s: %s -> %s", rs.id, rs.state, next)
	rs.state = next
}

func (rs *requestScope) fail(err error) {
	rs.err = err
	rs.to(StateErrorFallback)
}

// GetWeather returns weather for req. It never fails: when the location
// cannot be resolved or the provider cannot be used, the result is
// synthesized and marked with SourceMock.
func (s *Service) GetWeather(ctx context.Context, req Request) NormalizedWeather {
	id := uuid.NewString()
	rs := &requestScope{
		id:    id,
		state: StateResolveLocation,
		req:   req,
		now:   s.now(),
		rng:   s.newRand(),
		log:   s.log.WithField("request_id", id),
	}

	switch {
	case s.provider == nil:
		rs.log.Warnf("%v; serving synthesized weather", ErrNoProvider)
		rs.fail(ErrNoProvider)
	case !s.provider.Configured():
		rs.log.Warnf("%s API key is missing or a placeholder; serving synthesized weather", s.provider.Name())
		rs.fail(fmt.Errorf("%s: %w", s.provider.Name(), ErrNotConfigured))
	}

	var out NormalizedWeather
	for rs.state != StateDone {
		switch rs.state {
		case StateResolveLocation:
			s.resolveLocation(ctx, rs)
		case StateFetchCurrent:
			s.fetchCurrent(ctx, rs)
		case StateFetchForecast:
			s.fetchForecast(ctx, rs)
		case StateNormalize:
			out = s.normalize(rs)
			rs.to(StateDone)
		case StateErrorFallback:
			if !errors.Is(rs.err, ErrNotConfigured) && !errors.Is(rs.err, ErrNoProvider) {
				rs.log.Warnf("weather acquisition failed: %v; serving synthesized weather", rs.err)
			}
			out = s.synthesize(rs)
			rs.to(StateDone)
		default:
			rs.fail(fmt.Errorf("unexpected state %q", rs.state))
		}
	}

	s.record(rs, out)
	return ConvertUnits(out, req.Units)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(location string) (Snapshot, error) {
	if s.store == nil {
		return Snapshot{}, errors.New("no snapshot store configured")
	}
	return s.store.GetLatest(LocationKey(location))
}

// GetRange delegates to the underlying store.
func (s *Service) GetRange(location string, from, to time.Time) ([]Snapshot, error) {
	if s.store == nil {
		return nil, errors.New("no snapshot store configured")
	}
	return s.store.GetRange(LocationKey(location), from, to)
}

func (s *Service) record(rs *requestScope, w NormalizedWeather) {
	if s.store == nil || w.Location == "" {
		return
	}
	s.store.SaveSnapshot(LocationKey(w.Location), Snapshot{Timestamp: rs.now.UTC(), Weather: w})
}

func validCoordinates(c Coordinates) bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

func (s *Service) resolveLocation(ctx context.Context, rs *requestScope) {
	city := strings.TrimSpace(rs.req.City)

	switch {
	case rs.req.Coordinates != nil:
		c := *rs.req.Coordinates
		if !validCoordinates(c) {
			rs.fail(fmt.Errorf("%w: %v", ErrInvalidCoordinates, c))
			return
		}
		rs.location = ResolvedLocation{Latitude: c.Lat, Longitude: c.Lon}

	case city != "":
		if c, ok := cities.FindByName(city); ok {
			rs.location = ResolvedLocation{Latitude: c.Latitude, Longitude: c.Longitude, DisplayName: c.DisplayName()}
			break
		}
		if s.geocoder == nil {
			rs.fail(fmt.Errorf("%w: %q is not in the directory", ErrLocationUnavailable, city))
			return
		}
		loc, err := s.geocoder.Geocode(ctx, city)
		if err != nil {
			rs.fail(fmt.Errorf("geocoding %q: %w", city, err))
			return
		}
		rs.location = loc

	default:
		if s.locator == nil {
			rs.fail(fmt.Errorf("%w: no device location", ErrLocationUnavailable))
			return
		}
		lctx, cancel := context.WithTimeout(ctx, s.geoTimeout)
		c, err := s.locator.Locate(lctx)
		cancel()
		if err != nil {
			rs.fail(fmt.Errorf("%w: %v", ErrLocationUnavailable, err))
			return
		}
		if !validCoordinates(c) {
			rs.fail(fmt.Errorf("%w: %v", ErrInvalidCoordinates, c))
			return
		}
		rs.location = ResolvedLocation{Latitude: c.Lat, Longitude: c.Lon}
	}

	rs.resolved = true
	if rs.location.DisplayName == "" {
		rs.location.DisplayName = s.displayName(ctx, rs)
	}
	rs.to(StateFetchCurrent)
}

// displayName reverse geocodes the resolved coordinates, falling back to the
// formatted pair.
func (s *Service) displayName(ctx context.Context, rs *requestScope) string {
	c := rs.location.Coordinates()
	if s.geocoder == nil {
		return c.String()
	}
	name, err := s.geocoder.ReverseGeocode(ctx, c)
	if err != nil || strings.TrimSpace(name) == "" {
		rs.log.Debugf("reverse geocoding %s failed: %v", c, err)
		return c.String()
	}
	return name
}

func (s *Service) fetchCurrent(ctx context.Context, rs *requestScope) {
	cur, err := s.provider.Current(ctx, rs.location.Coordinates())
	if err != nil {
		rs.fail(fmt.Errorf("%s current conditions: %w", s.provider.Name(), err))
		return
	}
	rs.current = cur
	rs.to(StateFetchForecast)
}

func (s *Service) fetchForecast(ctx context.Context, rs *requestScope) {
	days, err := s.provider.Forecast(ctx, rs.location.Coordinates(), s.days)
	if err != nil {
		rs.fail(fmt.Errorf("%s forecast: %w", s.provider.Name(), err))
		return
	}
	if len(days) == 0 {
		rs.fail(fmt.Errorf("%s forecast: %w: no days", s.provider.Name(), ErrMalformedPayload))
		return
	}
	rs.daily = days
	rs.to(StateNormalize)
}

func (s *Service) normalize(rs *requestScope) NormalizedWeather {
	today := rs.daily[0]
	isDay := isDaytime(rs.now, today.Sunrise, today.Sunset, s.tz)
	c := rs.current

	current := CurrentConditions{
		Temperature:              common.RoundInt(c.Temperature),
		FeelsLike:                common.RoundInt(c.FeelsLike),
		Humidity:                 common.RoundInt(common.Clamp(c.Humidity, 0, 100)),
		WindSpeed:                common.RoundInt(c.WindSpeedKmh),
		UVIndex:                  common.RoundInt(c.UVIndex),
		PrecipitationProbability: roundPtr(c.PrecipitationProbability),
		PrecipitationIntensity:   c.PrecipitationIntensity,
		Visibility:               roundPtr(c.VisibilityKm),
		Pressure:                 roundPtr(c.PressureHpa),
		IsDay:                    isDay,
		Condition:                MapCondition(c.WeatherCode, isDay),
		WeatherCode:              c.WeatherCode,
		LastUpdated:              rs.now.In(s.tz).Format(lastUpdatedLayout),
	}

	n := len(rs.daily)
	if n > s.days {
		n = s.days
	}
	forecast := make([]ForecastDay, 0, n)
	for i, d := range rs.daily[:n] {
		code := d.WeatherCode
		forecast = append(forecast, ForecastDay{
			Day:                      dayLabel(i, d.Date),
			Date:                     d.Date.Format(forecastDateLayout),
			Temperature:              common.RoundInt(d.TempAvg),
			High:                     common.RoundInt(d.TempMax),
			Low:                      common.RoundInt(d.TempMin),
			Condition:                MapCondition(code, true),
			WeatherCode:              &code,
			PrecipitationProbability: roundPtr(d.PrecipitationProbability),
		})
	}

	coords := rs.location.Coordinates()
	return NormalizedWeather{
		Location:    rs.location.DisplayName,
		Current:     current,
		Forecast:    forecast,
		Coordinates: &coords,
		Units:       UnitsMetric,
		Source:      SourceLive,
		FetchedAt:   rs.now.UTC(),
	}
}

func dayLabel(i int, date time.Time) string {
	if i == 0 {
		return "Today"
	}
	return date.Format("Mon")
}

func roundPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	r := common.RoundInt(*v)
	return &r
}

// isDaytime compares now with sunrise and sunset by time of day, so a daily
// window that starts at UTC midnight still works for places whose sunset
// falls before their sunrise in UTC. Without sun times the wall-clock hour
// in tz decides.
func isDaytime(now, sunrise, sunset time.Time, tz *time.Location) bool {
	if sunrise.IsZero() || sunset.IsZero() {
		return daylightHour(now.In(tz).Hour())
	}

	r, s, n := minuteOfDay(sunrise), minuteOfDay(sunset), minuteOfDay(now)
	if r < s {
		return n >= r && n < s
	}
	return n >= r || n < s
}

func minuteOfDay(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

func daylightHour(h int) bool {
	return h >= 6 && h < 18
}
