package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

// RetryConfig controls the linear backoff of Fetcher.
type RetryConfig struct {
	// MaxRetries is the number of additional attempts after the first one.
	MaxRetries int
	// BaseDelay is multiplied by the attempt number before each retry.
	BaseDelay time.Duration
}

// DefaultRetryConfig retries twice, waiting 1s then 2s.
var DefaultRetryConfig = RetryConfig{
	MaxRetries: 2,
	BaseDelay:  time.Second,
}

// CacheBustParam is the query parameter carrying the per-attempt timestamp.
const CacheBustParam = "_t"

var (
	// ErrCircuitOpen is returned when the breaker rejects a call outright.
	ErrCircuitOpen = errors.New("circuit breaker open")

	errNoHTTPClient  = errors.New("http client not configured")
	errInvalidConfig = errors.New("invalid retry configuration")
)

// statusError carries a non-2xx response through the breaker so that it
// counts as a failure while keeping the response for the caller.
type statusError struct {
	resp *http.Response
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.resp.StatusCode)
}

// Fetcher issues GET-style requests with cache-busting, bounded linear
// retries and a circuit breaker.
type Fetcher struct {
	client  *http.Client
	retry   RetryConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

// breakerTripCalls is the number of consecutive failed calls, each with its
// full retry budget spent, that opens the breaker.
const breakerTripCalls = 3

// NewFetcher builds a Fetcher. name labels the circuit breaker.
func NewFetcher(name string, client *http.Client, retry RetryConfig) *Fetcher {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripCalls
		},
		// a caller giving up says nothing about the upstream
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
	})

	return &Fetcher{
		client:  client,
		retry:   retry,
		circuit: cb,
		now:     time.Now,
	}
}

// Get fetches rawURL. See Do.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	return f.Do(ctx, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, rawURL, nil)
	})
}

// Do executes the request produced by build, retrying up to MaxRetries more
// times on transport errors and non-2xx statuses. The wait before attempt n
// is BaseDelay*n.
//
// When every attempt fails, the last non-2xx response is returned with a nil
// error (body unread), or the last transport error is returned.
//
// The breaker sees one outcome per call, so an open breaker rejects a call
// before its first attempt and never in the middle of its retries.
func (f *Fetcher) Do(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	if f.client == nil {
		return nil, errNoHTTPClient
	}
	if f.retry.MaxRetries < 0 || f.retry.BaseDelay < 0 {
		return nil, errInvalidConfig
	}

	result, err := f.circuit.Execute(func() (interface{}, error) {
		resp, err := f.attempts(ctx, build)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &statusError{resp: resp}
		}
		return resp, nil
	})

	if err == nil {
		resp, ok := result.(*http.Response)
		if !ok {
			return nil, fmt.Errorf("unexpected result type from circuit breaker")
		}
		return resp, nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.resp, nil
	}
	return nil, err
}

// attempts runs the bounded retry loop. A returned response may still carry
// a non-2xx status when every attempt failed that way.
func (f *Fetcher) attempts(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt <= f.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := f.wait(ctx, f.retry.BaseDelay*time.Duration(attempt)); err != nil {
				closeBody(lastResp)
				return nil, err
			}
		}
		if ctx.Err() != nil {
			closeBody(lastResp)
			return nil, ctx.Err()
		}

		req, err := build()
		if err != nil {
			closeBody(lastResp)
			return nil, err
		}
		req = withCacheBusting(req.WithContext(ctx), f.now())

		resp, err := f.client.Do(req)
		closeBody(lastResp)
		lastResp, lastErr = nil, err
		if err != nil {
			continue
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		lastResp = resp
	}

	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

func (f *Fetcher) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// withCacheBusting stamps req with no-cache headers and a timestamp parameter.
func withCacheBusting(req *http.Request, now time.Time) *http.Request {
	q := req.URL.Query()
	q.Set(CacheBustParam, strconv.FormatInt(now.UnixMilli(), 10))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	return req
}

func closeBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
