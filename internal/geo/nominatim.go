// Package geo resolves place names to coordinates and back, and stands in
// for device geolocation.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// Nominatim handles OpenStreetMap Nominatim lookups. Requests are limited
// to one per second, the public instance's usage policy.
type Nominatim struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
}

// NewNominatim creates a client. Empty arguments select defaults.
func NewNominatim(baseURL, userAgent string) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if userAgent == "" {
		userAgent = "weather-dashboard/1.0"
	}
	return &Nominatim{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// searchResult is one entry of the /search response.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// reverseResponse represents the /reverse response.
type reverseResponse struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
		County  string `json:"county"`
		Country string `json:"country"`
	} `json:"address"`
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if n.Limiter != nil {
		if err := n.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim error: %d %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// Geocode returns the best match for a free-text place name.
func (n *Nominatim) Geocode(ctx context.Context, query string) (weather.ResolvedLocation, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	data, err := n.get(ctx, "/search", params)
	if err != nil {
		return weather.ResolvedLocation{}, err
	}

	var results []searchResult
	if err := json.Unmarshal(data, &results); err != nil {
		return weather.ResolvedLocation{}, err
	}
	if len(results) == 0 {
		return weather.ResolvedLocation{}, fmt.Errorf("%w: %q not found", weather.ErrLocationUnavailable, query)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return weather.ResolvedLocation{}, fmt.Errorf("bad latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return weather.ResolvedLocation{}, fmt.Errorf("bad longitude %q: %w", results[0].Lon, err)
	}

	name := results[0].Name
	if name == "" {
		name, _, _ = strings.Cut(results[0].DisplayName, ",")
	}
	if name == "" {
		name = query
	}

	return weather.ResolvedLocation{Latitude: lat, Longitude: lon, DisplayName: name}, nil
}

// ReverseGeocode returns a friendly name such as "Austin, Texas".
func (n *Nominatim) ReverseGeocode(ctx context.Context, c weather.Coordinates) (string, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", fmt.Sprintf("%.6f", c.Lat))
	params.Set("lon", fmt.Sprintf("%.6f", c.Lon))
	params.Set("zoom", "10")
	params.Set("addressdetails", "1")

	data, err := n.get(ctx, "/reverse", params)
	if err != nil {
		return "", err
	}

	var resp reverseResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("nominatim: %s", resp.Error)
	}

	// Prefer city/town/village and append state if available
	place := resp.Address.City
	if place == "" {
		place = resp.Address.Town
	}
	if place == "" {
		place = resp.Address.Village
	}
	if place == "" {
		place = resp.Address.County
	}

	region := resp.Address.State
	if region == "" {
		region = resp.Address.Country
	}

	switch {
	case place != "" && region != "":
		return place + ", " + region, nil
	case place != "":
		return place, nil
	case resp.DisplayName != "":
		return resp.DisplayName, nil
	}
	return "", fmt.Errorf("location not found")
}
