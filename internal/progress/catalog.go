package progress

// metric selects the counter an achievement is measured against.
type metric int

const (
	metricDaysChecked metric = iota
	metricStreak
	metricCities
	metricRainyDays
	metricSunnyDays
	metricWindyDays
	metricSnowyDays
	metricStormyDays
	metricPoints
)

type definition struct {
	Achievement
	metric metric
}

// catalog is ordered for display; points achievements come last so they see
// the bonuses granted by the others in the same evaluation.
var catalog = []definition{
	{Achievement{ID: "first_check", Title: "First Forecast", Description: "Check the weather for the first time", Icon: "🌤️", Goal: 1}, metricDaysChecked},
	{Achievement{ID: "streak_3", Title: "3 Day Streak", Description: "Check the weather 3 days in a row", Icon: "🔥", Goal: 3}, metricStreak},
	{Achievement{ID: "streak_7", Title: "Week Warrior", Description: "Check the weather 7 days in a row", Icon: "📅", Goal: 7}, metricStreak},
	{Achievement{ID: "streak_30", Title: "Monthly Meteorologist", Description: "Check the weather 30 days in a row", Icon: "🏆", Goal: 30}, metricStreak},
	{Achievement{ID: "explorer", Title: "Explorer", Description: "Check the weather in 5 different cities", Icon: "🧭", Goal: 5}, metricCities},
	{Achievement{ID: "globetrotter", Title: "Globetrotter", Description: "Check the weather in 15 different cities", Icon: "🌍", Goal: 15}, metricCities},
	{Achievement{ID: "rain_lover", Title: "Rain Dancer", Description: "Check the weather on 5 rainy days", Icon: "🌧️", Goal: 5}, metricRainyDays},
	{Achievement{ID: "sun_seeker", Title: "Sun Seeker", Description: "Check the weather on 5 sunny days", Icon: "☀️", Goal: 5}, metricSunnyDays},
	{Achievement{ID: "wind_rider", Title: "Wind Rider", Description: "Check the weather on 3 windy days", Icon: "💨", Goal: 3}, metricWindyDays},
	{Achievement{ID: "snow_day", Title: "Snow Day", Description: "Check the weather on 3 snowy days", Icon: "❄️", Goal: 3}, metricSnowyDays},
	{Achievement{ID: "storm_chaser", Title: "Storm Chaser", Description: "Check the weather on 3 stormy days", Icon: "⛈️", Goal: 3}, metricStormyDays},
	{Achievement{ID: "dedicated", Title: "Dedicated Forecaster", Description: "Check the weather on 50 days", Icon: "🎯", Goal: 50}, metricDaysChecked},
	{Achievement{ID: "point_collector", Title: "Point Collector", Description: "Earn 500 points", Icon: "💎", Goal: 500}, metricPoints},
}

var catalogIndex = func() map[string]definition {
	m := make(map[string]definition, len(catalog))
	for _, d := range catalog {
		m[d.ID] = d
	}
	return m
}()

// Catalog returns every achievement in its initial locked state.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	for i, d := range catalog {
		out[i] = d.Achievement
	}
	return out
}

// mergeCatalog appends catalog entries missing from have, keeping the
// state of the ones present. Titles and goals follow the catalog.
func mergeCatalog(have []Achievement) []Achievement {
	seen := make(map[string]int, len(have))
	for i, a := range have {
		seen[a.ID] = i
	}

	out := make([]Achievement, 0, len(catalog))
	for _, d := range catalog {
		a := d.Achievement
		if i, ok := seen[d.ID]; ok {
			a.Unlocked = have[i].Unlocked
			a.UnlockedAt = have[i].UnlockedAt
			a.Progress = have[i].Progress
		}
		out = append(out, a)
	}
	return out
}

func (s WeatherStats) value(m metric, p UserProgress) int {
	switch m {
	case metricDaysChecked:
		return s.DaysChecked
	case metricStreak:
		return p.Streak
	case metricCities:
		return len(s.CitiesChecked)
	case metricRainyDays:
		return s.RainyDays
	case metricSunnyDays:
		return s.SunnyDays
	case metricWindyDays:
		return s.WindyDays
	case metricSnowyDays:
		return s.SnowyDays
	case metricStormyDays:
		return s.StormyDays
	case metricPoints:
		return p.Points
	}
	return 0
}
