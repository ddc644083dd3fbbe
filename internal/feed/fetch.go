// Package feed retrieves and parses the per-country aggregated CIDR zone
// feeds. Fetching is a plain GET of a text body; parsing is deliberately
// tolerant of noise.
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBytes = 10 << 20 // 10 MiB safety cap

// FetchError reports a failed feed retrieval together with the URL that
// failed, so a fatal run abort can point the operator at the exact feed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client wraps a timeout-bound HTTP client for feed downloads.
type Client struct {
	http      *http.Client
	userAgent string
}

func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch performs a single GET of the given feed URL and returns the body as
// text. There is no retry and no caching. The HTTP status code is not
// inspected: ipdeny serves an HTML error page for address families it has no
// zone file for, and that body parses to an empty prefix list, which is the
// wanted outcome. Only transport failures and unreadable bodies are errors.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("build request: %w", err)}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("read response: %w", err)}
	}
	return string(body), nil
}
