package geo

import (
	"context"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPClient is what providers use to talk to the outside world.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// throttledClient sets a User-Agent, bounds every request with a timeout
// and keeps a local request quota so a provider's free tier is not
// exhausted by a burst of form loads.
type throttledClient struct {
	userAgent string
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
}

// NewHTTPClient wraps client. A ratePerMinute of 0 disables the local
// quota.
func NewHTTPClient(client *http.Client, userAgent string, timeout time.Duration, ratePerMinute int) HTTPClient {
	if client == nil {
		client = &http.Client{}
	}

	var limiter *rate.Limiter
	if ratePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), ratePerMinute)
	}

	return &throttledClient{
		userAgent: userAgent,
		client:    client,
		timeout:   timeout,
		limiter:   limiter,
	}
}

// Do never waits for quota: an exhausted quota is answered locally with
// a synthetic 429 so the caller moves on to the next provider.
func (c *throttledClient) Do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		return &http.Response{
			Status:     http.StatusText(http.StatusTooManyRequests),
			StatusCode: http.StatusTooManyRequests,
			Header:     http.Header{},
			Body:       http.NoBody,
			Request:    req,
		}, nil
	}

	if c.timeout > 0 {
		ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
		req = req.WithContext(ctx)
		resp, err := c.do(req)
		if err != nil {
			cancel()
			return nil, err
		}
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}

	return c.do(req)
}

func (c *throttledClient) do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	return c.client.Do(req)
}

// cancelOnClose releases the per-request timeout once the body is done.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
