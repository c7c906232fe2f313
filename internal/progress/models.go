// Package progress tracks daily weather checks, streaks, points and
// achievements for the single dashboard user.
package progress

import (
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// TempUnit is the preferred temperature display unit.
type TempUnit string

const (
	Celsius    TempUnit = "C"
	Fahrenheit TempUnit = "F"
)

// SchemaVersion tags persisted progress blobs.
const SchemaVersion = 1

const dateLayout = "2006-01-02"

// Temperature sentinels: the first real observation always replaces them.
const (
	NoHighestTemp = -999
	NoLowestTemp  = 999
)

// UserProgress is the persisted state of the user's check-in history.
type UserProgress struct {
	Version       int           `json:"version" validate:"gte=0"`
	Streak        int           `json:"streak" validate:"gte=0"`
	BestStreak    int           `json:"bestStreak" validate:"gte=0"`
	Points        int           `json:"points" validate:"gte=0"`
	TempUnit      TempUnit      `json:"tempUnit" validate:"oneof=C F"`
	Stats         WeatherStats  `json:"stats"`
	Achievements  []Achievement `json:"achievements" validate:"dive"`
	LastCheckDate string        `json:"lastCheckDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// WeatherStats are the counters behind achievements. Category counters
// count days, not checks.
type WeatherStats struct {
	DaysChecked   int        `json:"daysChecked" validate:"gte=0"`
	RainyDays     int        `json:"rainyDays" validate:"gte=0"`
	SunnyDays     int        `json:"sunnyDays" validate:"gte=0"`
	WindyDays     int        `json:"windyDays" validate:"gte=0"`
	SnowyDays     int        `json:"snowyDays" validate:"gte=0"`
	StormyDays    int        `json:"stormyDays" validate:"gte=0"`
	HighestTemp   int        `json:"highestTemp"`
	LowestTemp    int        `json:"lowestTemp"`
	LastLocation  string     `json:"lastLocation,omitempty"`
	LastCheckTime *time.Time `json:"lastCheckTime,omitempty"`
	CitiesChecked []string   `json:"citiesChecked"`

	// CreditedCategories lists the categories already counted for LastCheckDate.
	CreditedCategories []Category `json:"creditedCategories,omitempty"`
}

// Achievement is one entry of the achievement catalog with its state.
type Achievement struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon,omitempty"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlockedAt,omitempty"`
	Progress    int        `json:"progress" validate:"gte=0"`
	Goal        int        `json:"goal" validate:"gt=0"`
}

// Observation is one "check weather" event.
type Observation struct {
	CheckedAt time.Time
	Location  string
	// Temperature and WindSpeedKmh are metric.
	Temperature  int
	WindSpeedKmh int
	// WeatherCode is a provider code; 0 means unknown.
	WeatherCode int
	Condition   string
}

// ObservationFrom builds an Observation from a dashboard result.
func ObservationFrom(w weather.NormalizedWeather, at time.Time) Observation {
	m := weather.ConvertUnits(w, weather.UnitsMetric)
	return Observation{
		CheckedAt:    at,
		Location:     strings.TrimSpace(m.Location),
		Temperature:  m.Current.Temperature,
		WindSpeedKmh: m.Current.WindSpeed,
		WeatherCode:  m.Current.WeatherCode,
		Condition:    m.Current.Condition,
	}
}

// Clone returns a deep copy of p.
func (p UserProgress) Clone() UserProgress {
	out := p
	out.Stats.CitiesChecked = append([]string(nil), p.Stats.CitiesChecked...)
	out.Stats.CreditedCategories = append([]Category(nil), p.Stats.CreditedCategories...)
	if p.Stats.LastCheckTime != nil {
		t := *p.Stats.LastCheckTime
		out.Stats.LastCheckTime = &t
	}
	if p.Achievements != nil {
		out.Achievements = make([]Achievement, len(p.Achievements))
		for i, a := range p.Achievements {
			if a.UnlockedAt != nil {
				t := *a.UnlockedAt
				a.UnlockedAt = &t
			}
			out.Achievements[i] = a
		}
	}
	return out
}
