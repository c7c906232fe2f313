package weather

import "strings"

// MinAPIKeyLength is the shortest credential treated as real.
const MinAPIKeyLength = 16

var placeholderKeys = map[string]struct{}{
	"your_api_key_here":     {},
	"your-api-key-here":     {},
	"your_tomorrow_api_key": {},
	"your_weather_api_key":  {},
	"replace_with_your_key": {},
	"insert_your_key_here":  {},
}

// UsableAPIKey reports whether key looks like a real credential once
// surrounding whitespace is dropped: not empty, not a known placeholder, and
// at least MinAPIKeyLength long.
func UsableAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" || len(key) < MinAPIKeyLength {
		return false
	}
	_, placeholder := placeholderKeys[strings.ToLower(key)]
	return !placeholder
}
