package source

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const defaultUserAgent = "call4papers/1.0 (+https://github.com/salvacarrion/call4papers)"

// Client wraps HTTP access to the public portals with a defensive
// per-request timeout and bounded retry on transport errors. Non-2xx
// statuses are returned to the caller untouched: the CORE portal signals
// the end of its paging with an error status, so statuses must never be
// retried away.
type Client struct {
	HTTP      *http.Client
	Retries   int
	Backoff   time.Duration
	UserAgent string
}

// NewClient builds a client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		Retries:   2,
		Backoff:   500 * time.Millisecond,
		UserAgent: defaultUserAgent,
	}
}

// Get fetches url, retrying transport errors with exponential backoff.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	var lastErr error
	backoff := c.Backoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	for attempt := 0; attempt <= c.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, eris.Wrap(err, "source: build request")
		}
		req.Header.Set("User-Agent", c.UserAgent)
		resp, err := c.HTTP.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}
	return nil, eris.Wrapf(lastErr, "source: get %s", url)
}

// GetDocument fetches url and parses the body as HTML. The status code is
// always reported; the document is nil unless the status was 200.
func (c *Client) GetDocument(ctx context.Context, url string) (*goquery.Document, int, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "source: parse html")
	}
	return doc, resp.StatusCode, nil
}

// GetBody fetches url and returns the raw body for non-HTML payloads.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, int, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "source: read body")
	}
	return body, resp.StatusCode, nil
}
