// Package cities holds the static directory of named locations used for
// city lookup and autocomplete.
package cities

import "strings"

// City is a named location with coordinates.
type City struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DisplayName is "Name, Country".
func (c City) DisplayName() string {
	return c.Name + ", " + c.Country
}

// MaxSuggestions caps the number of Filter results.
const MaxSuggestions = 6

// minQueryLength is the shortest trimmed query Filter will match.
const minQueryLength = 2

var directory = []City{
	{"Singapore", "Singapore", 1.3521, 103.8198},
	{"Kuala Lumpur", "Malaysia", 3.1390, 101.6869},
	{"Jakarta", "Indonesia", -6.2088, 106.8456},
	{"Bangkok", "Thailand", 13.7563, 100.5018},
	{"Manila", "Philippines", 14.5995, 120.9842},
	{"Ho Chi Minh City", "Vietnam", 10.8231, 106.6297},
	{"Hanoi", "Vietnam", 21.0278, 105.8342},
	{"Hong Kong", "China", 22.3193, 114.1694},
	{"Shanghai", "China", 31.2304, 121.4737},
	{"Beijing", "China", 39.9042, 116.4074},
	{"Tokyo", "Japan", 35.6762, 139.6503},
	{"Seoul", "South Korea", 37.5665, 126.9780},
	{"Taipei", "Taiwan", 25.0330, 121.5654},
	{"Mumbai", "India", 19.0760, 72.8777},
	{"New Delhi", "India", 28.6139, 77.2090},
	{"Dubai", "United Arab Emirates", 25.2048, 55.2708},
	{"Istanbul", "Turkey", 41.0082, 28.9784},
	{"Moscow", "Russia", 55.7558, 37.6173},
	{"London", "United Kingdom", 51.5074, -0.1278},
	{"Paris", "France", 48.8566, 2.3522},
	{"Berlin", "Germany", 52.5200, 13.4050},
	{"Madrid", "Spain", 40.4168, -3.7038},
	{"Rome", "Italy", 41.9028, 12.4964},
	{"Amsterdam", "Netherlands", 52.3676, 4.9041},
	{"Stockholm", "Sweden", 59.3293, 18.0686},
	{"Reykjavik", "Iceland", 64.1466, -21.9426},
	{"Cairo", "Egypt", 30.0444, 31.2357},
	{"Lagos", "Nigeria", 6.5244, 3.3792},
	{"Nairobi", "Kenya", -1.2921, 36.8219},
	{"Cape Town", "South Africa", -33.9249, 18.4241},
	{"New York", "United States", 40.7128, -74.0060},
	{"Los Angeles", "United States", 34.0522, -118.2437},
	{"Chicago", "United States", 41.8781, -87.6298},
	{"San Francisco", "United States", 37.7749, -122.4194},
	{"Toronto", "Canada", 43.6532, -79.3832},
	{"Vancouver", "Canada", 49.2827, -123.1207},
	{"Mexico City", "Mexico", 19.4326, -99.1332},
	{"São Paulo", "Brazil", -23.5505, -46.6333},
	{"Buenos Aires", "Argentina", -34.6037, -58.3816},
	{"Sydney", "Australia", -33.8688, 151.2093},
	{"Melbourne", "Australia", -37.8136, 144.9631},
	{"Auckland", "New Zealand", -36.8485, 174.7633},
}

// FindByName looks up a city case-insensitively. An exact name match wins;
// otherwise the first entry whose name contains the query, in directory order.
func FindByName(name string) (City, bool) {
	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return City{}, false
	}

	for _, c := range directory {
		if strings.ToLower(c.Name) == q {
			return c, true
		}
	}
	for _, c := range directory {
		if strings.Contains(strings.ToLower(c.Name), q) {
			return c, true
		}
	}
	return City{}, false
}

// Filter returns up to MaxSuggestions cities whose name contains query.
// Queries shorter than two characters after trimming match nothing.
func Filter(query string) []City {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < minQueryLength {
		return []City{}
	}

	out := make([]City, 0, MaxSuggestions)
	for _, c := range directory {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}

// All returns a copy of the directory.
func All() []City {
	out := make([]City, len(directory))
	copy(out, directory)
	return out
}
