// Package httpx wraps outbound JSON fetches for the package-proxy
// feature: shared client, response size cap, and a circuit breaker so
// a flapping upstream fails fast instead of tying up request handlers.
package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "memeboard-backend/pkg/errors"

	"github.com/sony/gobreaker"
)

const defaultMaxBodyBytes = 4 << 20 // 4 MiB

// Client fetches JSON documents from upstream services.
type Client struct {
	http         *http.Client
	breaker      *gobreaker.CircuitBreaker
	maxBodyBytes int64
}

// Options configures a Client.
type Options struct {
	Timeout       time.Duration
	MaxBodyBytes  int64
	// BreakerName labels the circuit breaker in state-change logs.
	BreakerName   string
	OnStateChange func(name string, from, to gobreaker.State)
}

// NewClient creates a JSON fetch client.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	maxBody := opts.MaxBodyBytes
	if maxBody == 0 {
		maxBody = defaultMaxBodyBytes
	}
	name := opts.BreakerName
	if name == "" {
		name = "upstream"
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: opts.OnStateChange,
	})

	return &Client{
		http:         &http.Client{Timeout: timeout},
		breaker:      breaker,
		maxBodyBytes: maxBody,
	}
}

// GetJSON fetches url and decodes the response body into v. Non-2xx
// statuses and breaker-open conditions surface as typed external
// errors so the dispatcher maps them to 502.
func (c *Client) GetJSON(ctx context.Context, url string, v interface{}) error {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, url)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return apperrors.NewExternalError("upstream", err)
		}
		if appErr := apperrors.GetAppError(err); appErr != nil {
			return appErr
		}
		return apperrors.NewExternalError("upstream", err)
	}

	if err := json.Unmarshal(body.([]byte), v); err != nil {
		return apperrors.NewExternalError("upstream", fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodyBytes))
		return nil, apperrors.NewExternalError("upstream",
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url))
	}

	return io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes))
}
