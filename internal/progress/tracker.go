package progress

import (
	"errors"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Point awards.
const (
	DailyCheckPoints       = 10
	StreakBonusPoints      = 5
	AchievementBonusPoints = 50
)

// WindyThresholdKmh is the wind speed from which a check counts as windy
// whatever its weather code.
const WindyThresholdKmh = 30

// Category is an achievement weather category.
type Category string

const (
	CategoryRain  Category = "rain"
	CategorySunny Category = "sunny"
	CategoryWindy Category = "windy"
	CategorySnow  Category = "snow"
	CategoryStorm Category = "storm"
)

// ErrInvalidTempUnit is returned by SetTempUnit for anything but C or F.
var ErrInvalidTempUnit = errors.New("temperature unit must be C or F")

// DefaultProgress returns the zero state used on first run.
func DefaultProgress() UserProgress {
	return UserProgress{
		Version:  SchemaVersion,
		TempUnit: Celsius,
		Stats: WeatherStats{
			HighestTemp:   NoHighestTemp,
			LowestTemp:    NoLowestTemp,
			CitiesChecked: []string{},
		},
		Achievements: Catalog(),
	}
}

// SetTempUnit returns a copy of p with the given display unit.
func SetTempUnit(p UserProgress, unit TempUnit) (UserProgress, error) {
	switch TempUnit(strings.ToUpper(string(unit))) {
	case Celsius:
		unit = Celsius
	case Fahrenheit:
		unit = Fahrenheit
	default:
		return p, ErrInvalidTempUnit
	}
	out := p.Clone()
	out.TempUnit = unit
	return out, nil
}

// Categorize returns the achievement categories obs counts toward. Weather
// code bands decide; freezing rain counts as both rain and snow. Without a
// known code the condition text is matched instead. Strong wind makes any
// check windy.
func Categorize(obs Observation) []Category {
	var out []Category
	add := func(c Category) {
		for _, have := range out {
			if have == c {
				return
			}
		}
		out = append(out, c)
	}

	if weather.KnownCode(obs.WeatherCode) {
		switch weather.CategoryOf(obs.WeatherCode) {
		case weather.CategoryClear:
			add(CategorySunny)
		case weather.CategoryWind:
			add(CategoryWindy)
		case weather.CategoryRain:
			add(CategoryRain)
		case weather.CategoryFreezingRain:
			add(CategoryRain)
			add(CategorySnow)
		case weather.CategorySnow, weather.CategorySleet:
			add(CategorySnow)
		case weather.CategoryThunderstorm:
			add(CategoryStorm)
		}
	} else {
		cond := obs.Condition
		if common.HasAnyFold(cond, "rain", "drizzle", "shower") {
			add(CategoryRain)
		}
		if common.HasAnyFold(cond, "snow", "flurr", "sleet", "ice", "freezing") {
			add(CategorySnow)
		}
		if common.HasAnyFold(cond, "thunder", "storm") {
			add(CategoryStorm)
		}
		if common.HasAnyFold(cond, "sunny", "clear") {
			add(CategorySunny)
		}
		if common.HasAnyFold(cond, "wind") {
			add(CategoryWindy)
		}
	}

	if obs.WindSpeedKmh >= WindyThresholdKmh {
		add(CategoryWindy)
	}
	return out
}

// ApplyObservation records one weather check. It does not modify p; it
// returns the new progress and the achievements unlocked by this check.
func ApplyObservation(p UserProgress, obs Observation) (UserProgress, []Achievement) {
	next := p.Clone()
	next.Version = SchemaVersion
	next.Achievements = mergeCatalog(next.Achievements)
	if next.TempUnit == "" {
		next.TempUnit = Celsius
	}
	if next.Stats.CitiesChecked == nil {
		next.Stats.CitiesChecked = []string{}
	}

	before := make(map[string]bool, len(next.Achievements))
	for _, a := range next.Achievements {
		before[a.ID] = a.Unlocked
	}

	recordDate(&next, obs.CheckedAt)
	creditCategories(&next, Categorize(obs))

	st := &next.Stats
	if obs.Temperature > st.HighestTemp {
		st.HighestTemp = obs.Temperature
	}
	if obs.Temperature < st.LowestTemp {
		st.LowestTemp = obs.Temperature
	}

	if name := strings.TrimSpace(obs.Location); name != "" {
		st.LastLocation = name
		if !containsFold(st.CitiesChecked, name) {
			st.CitiesChecked = append(st.CitiesChecked, name)
		}
	}
	at := obs.CheckedAt
	st.LastCheckTime = &at

	evaluate(&next, obs.CheckedAt)

	var unlocked []Achievement
	for _, a := range next.Achievements {
		if a.Unlocked && !before[a.ID] {
			unlocked = append(unlocked, a)
		}
	}
	return next, unlocked
}

// recordDate does the per-calendar-day bookkeeping. Checks on an already
// recorded date, or an earlier one, leave streak and day counters alone.
func recordDate(p *UserProgress, at time.Time) {
	y, m, d := at.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	last, err := time.Parse(dateLayout, p.LastCheckDate)
	hasLast := p.LastCheckDate != "" && err == nil
	if hasLast && !today.After(last) {
		return
	}

	if hasLast && today.Sub(last) == 24*time.Hour {
		p.Streak++
		p.Points += StreakBonusPoints
	} else {
		p.Streak = 1
	}
	if p.Streak > p.BestStreak {
		p.BestStreak = p.Streak
	}

	p.Points += DailyCheckPoints
	p.Stats.DaysChecked++
	p.LastCheckDate = today.Format(dateLayout)
	p.Stats.CreditedCategories = nil
}

// creditCategories counts each category at most once per calendar date.
func creditCategories(p *UserProgress, cats []Category) {
	st := &p.Stats
	for _, c := range cats {
		credited := false
		for _, have := range st.CreditedCategories {
			if have == c {
				credited = true
				break
			}
		}
		if credited {
			continue
		}

		switch c {
		case CategoryRain:
			st.RainyDays++
		case CategorySunny:
			st.SunnyDays++
		case CategoryWindy:
			st.WindyDays++
		case CategorySnow:
			st.SnowyDays++
		case CategoryStorm:
			st.StormyDays++
		default:
			continue
		}
		st.CreditedCategories = append(st.CreditedCategories, c)
	}
}

// evaluate refreshes achievement progress and unlocks the ones whose goal
// is met. Unlocking is permanent.
func evaluate(p *UserProgress, at time.Time) {
	for i := range p.Achievements {
		a := &p.Achievements[i]
		def, ok := catalogIndex[a.ID]
		if !ok {
			continue
		}

		v := p.Stats.value(def.metric, *p)
		a.Progress = v
		if a.Progress > a.Goal {
			a.Progress = a.Goal
		}
		if a.Progress < 0 {
			a.Progress = 0
		}

		if !a.Unlocked && v >= a.Goal {
			a.Unlocked = true
			t := at
			a.UnlockedAt = &t
			p.Points += AchievementBonusPoints
		}
	}
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
