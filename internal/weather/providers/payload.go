package providers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 4 << 20

// decodePayload checks the status of resp, decodes its JSON body into v and
// validates v's struct tags. Any shape problem is reported as
// weather.ErrMalformedPayload.
func decodePayload(provider string, resp *http.Response, v interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", provider, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("%w: %s: decode: %v", weather.ErrMalformedPayload, provider, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s: %v", weather.ErrMalformedPayload, provider, err)
	}
	return nil
}

func parseTime(provider, field, value string, layouts ...string) (time.Time, error) {
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s: bad %s %q", weather.ErrMalformedPayload, provider, field, value)
}

func parseTimeIn(provider, field, value string, loc *time.Location, layouts ...string) (time.Time, error) {
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s: bad %s %q", weather.ErrMalformedPayload, provider, field, value)
}

func floatPtr(v float64) *float64 {
	return &v
}
