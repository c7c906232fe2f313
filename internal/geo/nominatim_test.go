package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func nominatimServer(t *testing.T, path, body string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, path, r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestNominatimGeocode(t *testing.T) {
	server := nominatimServer(t, "/search",
		`[{"lat":"51.5073219","lon":"-0.1276474","name":"London","display_name":"London, Greater London, England, United Kingdom"}]`,
		http.StatusOK)
	defer server.Close()

	n := NewNominatim(server.URL, "test-agent")
	got, err := n.Geocode(context.Background(), "London")
	require.NoError(t, err)

	assert.InDelta(t, 51.5073, got.Latitude, 0.001)
	assert.InDelta(t, -0.1276, got.Longitude, 0.001)
	assert.Equal(t, "London", got.DisplayName)
}

func TestNominatimGeocodeFallsBackToDisplayName(t *testing.T) {
	server := nominatimServer(t, "/search",
		`[{"lat":"10","lon":"20","display_name":"Somewhere, Region, Country"}]`, http.StatusOK)
	defer server.Close()

	got, err := NewNominatim(server.URL, "").Geocode(context.Background(), "somewhere")
	require.NoError(t, err)
	assert.Equal(t, "Somewhere", got.DisplayName)
}

func TestNominatimGeocodeNoResults(t *testing.T) {
	server := nominatimServer(t, "/search", `[]`, http.StatusOK)
	defer server.Close()

	_, err := NewNominatim(server.URL, "").Geocode(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, weather.ErrLocationUnavailable)
}

func TestNominatimGeocodeBadStatus(t *testing.T) {
	server := nominatimServer(t, "/search", `oops`, http.StatusServiceUnavailable)
	defer server.Close()

	_, err := NewNominatim(server.URL, "").Geocode(context.Background(), "London")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestNominatimReverseGeocode(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "city and state",
			body: `{"display_name":"long","address":{"city":"Austin","state":"Texas","country":"United States"}}`,
			want: "Austin, Texas",
		},
		{
			name: "town without state uses country",
			body: `{"address":{"town":"Hallstatt","country":"Austria"}}`,
			want: "Hallstatt, Austria",
		},
		{
			name: "county only",
			body: `{"address":{"county":"Inyo County"}}`,
			want: "Inyo County",
		},
		{
			name: "display name only",
			body: `{"display_name":"Middle of the Ocean"}`,
			want: "Middle of the Ocean",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := nominatimServer(t, "/reverse", tt.body, http.StatusOK)
			defer server.Close()

			got, err := NewNominatim(server.URL, "").ReverseGeocode(context.Background(), weather.Coordinates{Lat: 30.27, Lon: -97.74})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNominatimReverseGeocodeError(t *testing.T) {
	server := nominatimServer(t, "/reverse", `{"error":"Unable to geocode"}`, http.StatusOK)
	defer server.Close()

	_, err := NewNominatim(server.URL, "").ReverseGeocode(context.Background(), weather.Coordinates{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to geocode")
}

func TestNominatimRateLimitHonorsContext(t *testing.T) {
	server := nominatimServer(t, "/search", `[{"lat":"1","lon":"2","name":"A"}]`, http.StatusOK)
	defer server.Close()

	n := NewNominatim(server.URL, "")
	_, err := n.Geocode(context.Background(), "A")
	require.NoError(t, err)

	// the burst is spent; the next call has to wait about a second
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = n.Geocode(ctx, "A")
	require.Error(t, err)
}
