package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nhle/notifybell/internal/jsonval"
	"github.com/nhle/notifybell/internal/source"
)

// Client is a thin HTTP client for the notification REST API.
// It handles Bearer token authentication, client-side rate limiting and
// automatic retry with exponential backoff on HTTP 429.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// ClientOptions tunes a Client. Zero values select defaults; a negative
// MaxRetries disables retries.
type ClientOptions struct {
	Timeout    time.Duration
	RatePerSec float64
	MaxRetries int
}

// NewClient creates a new API client. The baseURL is the root URL of the
// service (e.g., https://admin.example.com).
func NewClient(baseURL, token string, opts ClientOptions) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	switch {
	case opts.MaxRetries == 0:
		opts.MaxRetries = 3
	case opts.MaxRetries < 0:
		opts.MaxRetries = 0
	}
	burst := int(opts.RatePerSec)
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSec), burst),
		maxRetries: opts.MaxRetries,
	}
}

// Get performs an HTTP GET request and decodes the response body into an
// untyped JSON value.
func (c *Client) Get(ctx context.Context, path string) (jsonval.Value, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Patch performs an HTTP PATCH request with an optional JSON body.
func (c *Client) Patch(
	ctx context.Context,
	path string,
	body interface{},
) (jsonval.Value, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// do builds the request, waits for the rate limiter, handles auth and
// retries, and decodes the response.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
) (jsonval.Value, error) {
	url := c.baseURL + path

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return jsonval.Null, fmt.Errorf("marshaling request body: %w", err)
		}
		payload = data
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return jsonval.Null, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return jsonval.Null, fmt.Errorf("creating request: %w", err)
		}

		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return jsonval.Null, fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return jsonval.Null, fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on %s %s", method, path)

			select {
			case <-ctx.Done():
				return jsonval.Null, ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return jsonval.Null, &source.AuthError{
				Source:  c.baseURL,
				Message: "session expired or token rejected (401)",
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return jsonval.Null, fmt.Errorf(
				"unexpected status %d on %s %s: %s",
				resp.StatusCode, method, path, strings.TrimSpace(string(respBody)),
			)
		}

		// No content to parse (e.g. 204).
		if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(respBody)) == 0 {
			return jsonval.Null, nil
		}

		v, err := jsonval.Decode(respBody)
		if err != nil {
			return jsonval.Null, fmt.Errorf(
				"parsing response from %s %s: %w", method, path, err,
			)
		}

		return v, nil
	}

	return jsonval.Null, fmt.Errorf(
		"max retries (%d) exceeded: %w", c.maxRetries, lastErr,
	)
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
