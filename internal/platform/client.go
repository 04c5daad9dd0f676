// Package platform talks to the public Chess.com and Lichess APIs:
// account verification at link time and game-history retrieval.
package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

var (
	// ErrAccountNotFound means the platform does not know the handle.
	ErrAccountNotFound = errors.New("platform account not found")
	// ErrUpstream wraps any other non-2xx platform response.
	ErrUpstream = errors.New("platform api error")
)

const defaultUserAgent = "chess-learn-go/1.0"

// Client is the shared HTTP transport for platform calls.
type Client struct {
	http *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
	userAgent      string
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		http:           &fasthttp.Client{ReadTimeout: 15 * time.Second, WriteTimeout: 15 * time.Second, MaxConnsPerHost: 64},
		defaultTimeout: 15 * time.Second,
		retryMax:       3,
		userAgent:      defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON issues a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any, retry bool) error {
	body, status, err := c.get(ctx, url, "application/json", retry)
	if err != nil {
		return err
	}
	if status == fasthttp.StatusNotFound {
		return ErrAccountNotFound
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: status=%d body=%s", ErrUpstream, status, truncate(string(body), 256))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// get performs the request and returns body and status. Transport failures
// and retryable statuses are retried with exponential backoff when retry is
// set; a 404 is returned to the caller, not treated as failure.
func (c *Client) get(ctx context.Context, url, accept string, retry bool) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(url)
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	attempts := 1
	if retry {
		attempts = c.retryMax
		if attempts <= 0 {
			attempts = 1
		}
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		deadline := c.computeDeadline(ctx)
		err := c.http.DoDeadline(req, resp, deadline)
		if err != nil {
			if attempt == attempts || !retry {
				return nil, 0, fmt.Errorf("request failed: %w", err)
			}
			lastErr = err
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, 0, lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if retry && shouldRetryStatus(status) && attempt < attempts {
			lastErr = fmt.Errorf("%w: status=%d", ErrUpstream, status)
			if sleepErr := c.sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, 0, lastErr
			}
			continue
		}

		body := append([]byte(nil), resp.Body()...)
		return body, status, nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, 0, lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		clientDL := time.Now().Add(c.defaultTimeout)
		if dl.Before(clientDL) {
			return dl
		}
		return clientDL
	}
	return time.Now().Add(c.defaultTimeout)
}

func (c *Client) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base // 100ms, 200ms ...
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func trimBase(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}
