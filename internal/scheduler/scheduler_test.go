package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/logger"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type countingService struct {
	mu    sync.Mutex
	calls map[string]int
	mock  map[string]bool
}

func (c *countingService) GetWeather(_ context.Context, req weather.Request) weather.NormalizedWeather {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[req.City]++

	src := weather.SourceLive
	if c.mock[req.City] {
		src = weather.SourceMock
	}
	return weather.NormalizedWeather{Location: req.City, Source: src}
}

func (c *countingService) count(city string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[city]
}

func TestRunOnce(t *testing.T) {
	svc := &countingService{mock: map[string]bool{"Oslo": true}}
	s := New([]string{"Tokyo", "Paris", "Oslo"}, time.Minute, svc, logger.Discard())

	live := s.RunOnce(context.Background())

	assert.Equal(t, 2, live)
	for _, c := range []string{"Tokyo", "Paris", "Oslo"} {
		assert.Equal(t, 1, svc.count(c), c)
	}
}

func TestStartRunsImmediately(t *testing.T) {
	svc := &countingService{}
	s := New([]string{"Tokyo"}, time.Minute, svc, nil)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return svc.count("Tokyo") >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestStartWithoutCities(t *testing.T) {
	s := New(nil, time.Minute, &countingService{}, nil)
	assert.NoError(t, s.Start())
	s.Stop()
}
