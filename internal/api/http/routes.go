package httpapi

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/cities"
	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/progress"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// WeatherService is what the weather routes need from weather.Service.
type WeatherService interface {
	GetWeather(ctx context.Context, req weather.Request) weather.NormalizedWeather
	GetRange(location string, from, to time.Time) ([]weather.Snapshot, error)
}

// ProgressKeeper is what the progress routes need from progress.Keeper.
type ProgressKeeper interface {
	Progress() progress.UserProgress
	Check(obs progress.Observation) (progress.UserProgress, []progress.Achievement, error)
	SetTempUnit(unit progress.TempUnit) (progress.UserProgress, error)
	Reset() (progress.UserProgress, error)
}

type handlers struct {
	weather  WeatherService
	progress ProgressKeeper
	log      logger.Logger
	now      func() time.Time
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService, keeper ProgressKeeper, log logger.Logger) {
	if log == nil {
		log = logger.Discard()
	}
	h := &handlers{weather: service, progress: keeper, log: log, now: time.Now}

	v1 := app.Group("/api/v1")

	v1.Get("/weather", h.getWeather)
	v1.Get("/weather/history", h.getHistory)
	v1.Get("/cities", h.getCities)
	v1.Get("/conditions/:code", h.getCondition)

	v1.Get("/progress", h.getProgress)
	v1.Post("/progress/checks", h.postCheck)
	v1.Put("/progress/unit", h.putUnit)
	v1.Delete("/progress", h.deleteProgress)
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

// weatherQuery holds the query parameters of GET /weather.
type weatherQuery struct {
	Lat   *float64 `validate:"required_with=Lon,omitempty,gte=-90,lte=90"`
	Lon   *float64 `validate:"required_with=Lat,omitempty,gte=-180,lte=180"`
	City  string   `validate:"max=100"`
	Units string   `validate:"omitempty,oneof=metric imperial"`
}

func (q *weatherQuery) bind(c *fiber.Ctx) error {
	q.City = strings.TrimSpace(c.Query("city"))
	q.Units = strings.ToLower(c.Query("units"))

	var err error
	if q.Lat, err = optionalFloat(c, "lat"); err != nil {
		return err
	}
	if q.Lon, err = optionalFloat(c, "lon"); err != nil {
		return err
	}
	return validate.Struct(q)
}

func optionalFloat(c *fiber.Ctx, key string) (*float64, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New(key + " must be a number")
	}
	return &v, nil
}

func (h *handlers) getWeather(c *fiber.Ctx) error {
	var q weatherQuery
	if err := q.bind(c); err != nil {
		return badRequest(err)
	}

	req := weather.Request{City: q.City, Units: weather.Units(q.Units)}
	if q.Lat != nil && q.Lon != nil {
		req.Coordinates = &weather.Coordinates{Lat: *q.Lat, Lon: *q.Lon}
	}

	return c.JSON(h.weather.GetWeather(c.UserContext(), req))
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	City  string    `validate:"required,max=100"`
	From  time.Time `validate:"required"`
	To    time.Time `validate:"required,gtefield=From"`
	Units string    `validate:"omitempty,oneof=metric imperial"`
}

func (q *historyQuery) bind(c *fiber.Ctx) error {
	q.City = strings.TrimSpace(c.Query("city"))
	q.Units = strings.ToLower(c.Query("units"))

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	q.From = from
	q.To = to
	return validate.Struct(q)
}

func (h *handlers) getHistory(c *fiber.Ctx) error {
	var q historyQuery
	if err := q.bind(c); err != nil {
		return badRequest(err)
	}

	location := q.City
	snapshots, err := h.weather.GetRange(location, q.From, q.To)
	if errors.Is(err, store.ErrNotFound) {
		// history is keyed by display name; "Tokyo" is stored as "Tokyo, Japan"
		if city, ok := cities.FindByName(q.City); ok {
			location = city.DisplayName()
			snapshots, err = h.weather.GetRange(location, q.From, q.To)
		}
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
		}
		h.log.Errorf("history for %q: %v", q.City, err)
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
	}

	if q.Units != "" {
		for i := range snapshots {
			snapshots[i].Weather = weather.ConvertUnits(snapshots[i].Weather, weather.Units(q.Units))
		}
	}

	return c.JSON(fiber.Map{
		"location":  location,
		"from":      q.From,
		"to":        q.To,
		"snapshots": snapshots,
	})
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}

func (h *handlers) getCities(c *fiber.Ctx) error {
	q := c.Query("q")
	return c.JSON(fiber.Map{
		"query":  q,
		"cities": cities.Filter(q),
	})
}

func (h *handlers) getCondition(c *fiber.Ctx) error {
	code, err := strconv.Atoi(c.Params("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "code must be an integer")
	}
	night := c.QueryBool("night", false)

	return c.JSON(fiber.Map{
		"code":       code,
		"known":      weather.KnownCode(code),
		"condition":  weather.MapCondition(code, !night),
		"category":   weather.CategoryOf(code),
		"attributes": weather.MapAttributes(code),
	})
}

func (h *handlers) getProgress(c *fiber.Ctx) error {
	return c.JSON(h.progress.Progress())
}

// checkBody is a "check weather" event as posted by the dashboard.
type checkBody struct {
	Location    string     `json:"location" validate:"required,max=200"`
	Temperature *int       `json:"temperature" validate:"required"`
	WindSpeed   int        `json:"windSpeed" validate:"gte=0"`
	WeatherCode int        `json:"weatherCode" validate:"gte=0"`
	Condition   string     `json:"condition" validate:"max=100"`
	Units       string     `json:"units" validate:"omitempty,oneof=metric imperial"`
	CheckedAt   *time.Time `json:"checkedAt"`
}

func (b checkBody) observation(now time.Time) progress.Observation {
	units := weather.UnitsMetric
	if b.Units != "" {
		units = weather.Units(b.Units)
	}
	at := now
	if b.CheckedAt != nil {
		at = *b.CheckedAt
	}

	return progress.ObservationFrom(weather.NormalizedWeather{
		Location: b.Location,
		Units:    units,
		Current: weather.CurrentConditions{
			Temperature: *b.Temperature,
			WindSpeed:   b.WindSpeed,
			WeatherCode: b.WeatherCode,
			Condition:   b.Condition,
		},
	}, at)
}

func (h *handlers) postCheck(c *fiber.Ctx) error {
	var body checkBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if err := validate.Struct(body); err != nil {
		return badRequest(err)
	}

	p, unlocked, err := h.progress.Check(body.observation(h.now()))
	if err != nil {
		h.log.Warnf("progress: saving check failed: %v", err)
	}
	if unlocked == nil {
		unlocked = []progress.Achievement{}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"progress": p,
		"unlocked": unlocked,
	})
}

type unitBody struct {
	Unit string `json:"unit" validate:"required,oneof=C F c f"`
}

func (h *handlers) putUnit(c *fiber.Ctx) error {
	var body unitBody
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if err := validate.Struct(body); err != nil {
		return badRequest(err)
	}

	p, err := h.progress.SetTempUnit(progress.TempUnit(body.Unit))
	if errors.Is(err, progress.ErrInvalidTempUnit) {
		return badRequest(err)
	}
	if err != nil {
		h.log.Warnf("progress: saving unit failed: %v", err)
	}
	return c.JSON(p)
}

func (h *handlers) deleteProgress(c *fiber.Ctx) error {
	p, err := h.progress.Reset()
	if err != nil {
		h.log.Warnf("progress: reset failed: %v", err)
	}
	return c.JSON(p)
}
