// Package fetch retrieves page content for price extraction. One GET per
// request, bounded timeout, no retries.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"

	"pricewatch/pkg/model"
)

// DefaultTimeout bounds the page fetch.
const DefaultTimeout = 20 * time.Second

// DefaultUserAgent is sent when no user agent is configured. Product
// pages routinely block the Go default agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Client fetches page bytes over HTTP.
type Client struct {
	userAgent string
	http      *http.Client
}

// NewClient creates a fetch client. Empty userAgent selects the default;
// zero timeout selects DefaultTimeout.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the page at url. Connection errors, timeouts and
// non-2xx statuses all surface as FetchFailure.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, model.WrapError(model.KindFetchFailure, err, "build request for %s", url)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, model.WrapError(model.KindFetchFailure, err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, model.Errorf(model.KindFetchFailure, "fetch %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.WrapError(model.KindFetchFailure, err, "read body of %s", url)
	}
	return body, nil
}
