package weather

// Category is the band a provider weather code belongs to. The thousands
// digit of a code selects its band; the 1xxx codes split into clear and cloud.
type Category string

const (
	CategoryUnknown      Category = "unknown"
	CategoryClear        Category = "clear"
	CategoryCloud        Category = "cloud"
	CategoryFog          Category = "fog"
	CategoryWind         Category = "wind"
	CategoryRain         Category = "rain"
	CategorySnow         Category = "snow"
	CategoryFreezingRain Category = "freezing_rain"
	CategorySleet        Category = "sleet"
	CategoryThunderstorm Category = "thunderstorm"
)

// Provider weather codes (Tomorrow.io code space).
const (
	CodeUnknown           = 0
	CodeClear             = 1000
	CodeCloudy            = 1001
	CodeMostlyClear       = 1100
	CodePartlyCloudy      = 1101
	CodeMostlyCloudy      = 1102
	CodeFog               = 2000
	CodeLightFog          = 2100
	CodeLightWind         = 3000
	CodeWind              = 3001
	CodeStrongWind        = 3002
	CodeDrizzle           = 4000
	CodeRain              = 4001
	CodeLightRain         = 4200
	CodeHeavyRain         = 4201
	CodeSnow              = 5000
	CodeFlurries          = 5001
	CodeLightSnow         = 5100
	CodeHeavySnow         = 5101
	CodeFreezingDrizzle   = 6000
	CodeFreezingRain      = 6001
	CodeLightFreezingRain = 6200
	CodeHeavyFreezingRain = 6201
	CodeIcePellets        = 7000
	CodeHeavyIcePellets   = 7101
	CodeLightIcePellets   = 7102
	CodeThunderstorm      = 8000
)

// UnknownCondition is returned for codes outside the table.
const UnknownCondition = "Unknown"

// Attributes are the display attributes of a weather code.
type Attributes struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
	NightIcon   string `json:"nightIcon,omitempty"`
	Color       string `json:"color"`
	TextColor   string `json:"textColor"`
}

type codeEntry struct {
	day      string
	night    string
	category Category
	attrs    Attributes
}

var unknownEntry = codeEntry{
	day:      UnknownCondition,
	night:    UnknownCondition,
	category: CategoryUnknown,
	attrs: Attributes{
		Description: UnknownCondition,
		Icon:        "wi-na",
		Color:       "#9CA3AF",
		TextColor:   "#111827",
	},
}

var codeTable = map[int]codeEntry{
	CodeClear: {"Sunny", "Clear Night", CategoryClear,
		Attributes{"Clear, Sunny", "wi-day-sunny", "wi-night-clear", "#FDB813", "#1F2937"}},
	CodeMostlyClear: {"Mostly Clear", "Mostly Clear Night", CategoryClear,
		Attributes{"Mostly Clear", "wi-day-sunny-overcast", "wi-night-alt-partly-cloudy", "#FCD34D", "#1F2937"}},
	CodePartlyCloudy: {"Partly Cloudy", "Partly Cloudy Night", CategoryCloud,
		Attributes{"Partly Cloudy", "wi-day-cloudy", "wi-night-alt-cloudy", "#CBD5E1", "#1F2937"}},
	CodeMostlyCloudy: {"Mostly Cloudy", "Mostly Cloudy", CategoryCloud,
		Attributes{"Mostly Cloudy", "wi-cloudy", "", "#94A3B8", "#F8FAFC"}},
	CodeCloudy: {"Cloudy", "Cloudy", CategoryCloud,
		Attributes{"Cloudy", "wi-cloud", "", "#64748B", "#F8FAFC"}},
	CodeFog: {"Fog", "Fog", CategoryFog,
		Attributes{"Fog", "wi-fog", "", "#A8A29E", "#1C1917"}},
	CodeLightFog: {"Light Fog", "Light Fog", CategoryFog,
		Attributes{"Light Fog", "wi-day-fog", "wi-night-fog", "#D6D3D1", "#1C1917"}},
	CodeLightWind: {"Light Wind", "Light Wind", CategoryWind,
		Attributes{"Light Wind", "wi-windy", "", "#BAE6FD", "#0C4A6E"}},
	CodeWind: {"Windy", "Windy", CategoryWind,
		Attributes{"Wind", "wi-strong-wind", "", "#7DD3FC", "#0C4A6E"}},
	CodeStrongWind: {"Strong Wind", "Strong Wind", CategoryWind,
		Attributes{"Strong Wind", "wi-gale-warning", "", "#38BDF8", "#F0F9FF"}},
	CodeDrizzle: {"Drizzle", "Drizzle", CategoryRain,
		Attributes{"Drizzle", "wi-sprinkle", "", "#93C5FD", "#1E3A8A"}},
	CodeRain: {"Rain", "Rain", CategoryRain,
		Attributes{"Rain", "wi-rain", "", "#3B82F6", "#EFF6FF"}},
	CodeLightRain: {"Light Rain", "Light Rain", CategoryRain,
		Attributes{"Light Rain", "wi-showers", "", "#60A5FA", "#1E3A8A"}},
	CodeHeavyRain: {"Heavy Rain", "Heavy Rain", CategoryRain,
		Attributes{"Heavy Rain", "wi-rain-wind", "", "#1D4ED8", "#EFF6FF"}},
	CodeSnow: {"Snow", "Snow", CategorySnow,
		Attributes{"Snow", "wi-snow", "", "#E0F2FE", "#0F172A"}},
	CodeFlurries: {"Flurries", "Flurries", CategorySnow,
		Attributes{"Flurries", "wi-snowflake-cold", "", "#F0F9FF", "#0F172A"}},
	CodeLightSnow: {"Light Snow", "Light Snow", CategorySnow,
		Attributes{"Light Snow", "wi-day-snow", "wi-night-alt-snow", "#F1F5F9", "#0F172A"}},
	CodeHeavySnow: {"Heavy Snow", "Heavy Snow", CategorySnow,
		Attributes{"Heavy Snow", "wi-snow-wind", "", "#CBD5E1", "#0F172A"}},
	CodeFreezingDrizzle: {"Freezing Drizzle", "Freezing Drizzle", CategoryFreezingRain,
		Attributes{"Freezing Drizzle", "wi-rain-mix", "", "#A5B4FC", "#1E1B4B"}},
	CodeFreezingRain: {"Freezing Rain", "Freezing Rain", CategoryFreezingRain,
		Attributes{"Freezing Rain", "wi-rain-mix", "", "#818CF8", "#EEF2FF"}},
	CodeLightFreezingRain: {"Light Freezing Rain", "Light Freezing Rain", CategoryFreezingRain,
		Attributes{"Light Freezing Rain", "wi-rain-mix", "", "#C7D2FE", "#1E1B4B"}},
	CodeHeavyFreezingRain: {"Heavy Freezing Rain", "Heavy Freezing Rain", CategoryFreezingRain,
		Attributes{"Heavy Freezing Rain", "wi-rain-mix", "", "#6366F1", "#EEF2FF"}},
	CodeIcePellets: {"Ice Pellets", "Ice Pellets", CategorySleet,
		Attributes{"Ice Pellets", "wi-sleet", "", "#A5F3FC", "#164E63"}},
	CodeHeavyIcePellets: {"Heavy Ice Pellets", "Heavy Ice Pellets", CategorySleet,
		Attributes{"Heavy Ice Pellets", "wi-sleet", "", "#67E8F9", "#164E63"}},
	CodeLightIcePellets: {"Light Ice Pellets", "Light Ice Pellets", CategorySleet,
		Attributes{"Light Ice Pellets", "wi-sleet", "", "#CFFAFE", "#164E63"}},
	CodeThunderstorm: {"Thunderstorm", "Thunderstorm", CategoryThunderstorm,
		Attributes{"Thunderstorm", "wi-thunderstorm", "", "#4C1D95", "#F5F3FF"}},
}

func lookup(code int) codeEntry {
	if e, ok := codeTable[code]; ok {
		return e
	}
	return unknownEntry
}

// MapCondition returns the human-readable condition for code. Clear and
// partly cloudy codes have distinct night wording.
func MapCondition(code int, isDay bool) string {
	e := lookup(code)
	if isDay {
		return e.day
	}
	return e.night
}

// MapAttributes returns the display attributes for code.
func MapAttributes(code int) Attributes {
	return lookup(code).attrs
}

// CategoryOf returns the band code belongs to.
func CategoryOf(code int) Category {
	return lookup(code).category
}

// KnownCode reports whether code is in the mapping table.
func KnownCode(code int) bool {
	_, ok := codeTable[code]
	return ok
}

// KnownCodes lists every mapped code. Order is unspecified.
func KnownCodes() []int {
	codes := make([]int, 0, len(codeTable))
	for c := range codeTable {
		codes = append(codes, c)
	}
	return codes
}
