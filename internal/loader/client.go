package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/i474232898/airport-weather/internal/weather"
)

// BackoffConfig controls exponential backoff between attempts.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// delay returns the wait before retry number attempt (0-based).
func (b BackoffConfig) delay(attempt int) time.Duration {
	d := b.InitialInterval
	for i := 0; i < attempt; i++ {
		if b.MaxInterval > 0 && d >= b.MaxInterval {
			break
		}
		d *= 2
	}
	if b.MaxInterval > 0 && d > b.MaxInterval {
		d = b.MaxInterval
	}
	return d
}

// ErrRejected is returned when the server refuses a station with a 4xx status.
var ErrRejected = errors.New("rejected by server")

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errCircuitOpen = errors.New("circuit breaker open")
)

// Client registers stations with the collect surface of a running server.
type Client struct {
	baseURL string
	http    *http.Client
	backoff BackoffConfig
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client talking to baseURL (e.g. http://localhost:9090).
func NewClient(client *http.Client, baseURL string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "collect",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     30 * time.Second,
		// A refused row says nothing about the server's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected)
		},
	})

	return &Client{
		baseURL: baseURL,
		http:    client,
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

// RegisterStation posts st to /collect/airport/:code/:lat/:lon. Rate limits,
// 5xx responses and transport failures are retried with backoff; a 4xx
// answer returns ErrRejected at once.
func (c *Client) RegisterStation(ctx context.Context, st weather.Station) error {
	target := fmt.Sprintf("%s/collect/airport/%s/%s/%s",
		c.baseURL,
		url.PathEscape(st.Code),
		strconv.FormatFloat(st.Latitude, 'f', -1, 64),
		strconv.FormatFloat(st.Longitude, 'f', -1, 64),
	)

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.post(ctx, target)
		switch {
		case err == nil, errors.Is(err, ErrRejected):
			return err
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		case ctx.Err() != nil:
			return ctx.Err()
		case attempt >= c.backoff.MaxRetries:
			return err
		}

		timer := time.NewTimer(c.backoff.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// post makes a single attempt through the circuit breaker and classifies
// the response status.
func (c *Client) post(ctx context.Context, target string) error {
	_, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Request-ID", uuid.NewString())

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, errRateLimited
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		case resp.StatusCode >= 400:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("%w: %d %s", ErrRejected, resp.StatusCode, body)
		}
		return nil, nil
	})
	return err
}
