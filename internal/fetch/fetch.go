// Package fetch retrieves raw HTML over HTTP with a soft-failure
// contract: any transport error, non-200 status, or empty body is
// reported as "not fetched" rather than an error, so the crawl can skip
// the URL and move on.
package fetch

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 20 * time.Second

// DefaultUserAgent is a browser-like identifying header; some hosts
// refuse requests without one.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0 Safari/537.36"

// Fetcher issues GET requests for page bodies.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a Fetcher. A zero timeout falls back to DefaultTimeout and
// an empty userAgent to DefaultUserAgent.
func New(timeout time.Duration, userAgent string) *Fetcher {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: userAgent,
	}
}

// Fetch returns the response body for url and true, or "" and false when
// the request fails, the status is not 200, or the body is empty.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || len(body) == 0 {
		return "", false
	}
	return string(body), true
}
