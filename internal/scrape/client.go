package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/davidread/jobadscrape/internal/errs"

	"golang.org/x/time/rate"
)

// Client fetches pages from the job site. Requests are paced by a
// shared limiter so a run never hammers the site.
type Client struct {
	base string
	ua   string
	hc   *http.Client
	lim  *rate.Limiter
}

func NewClient(baseURL, userAgent string, reqPerSec float64) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		ua:   userAgent,
		hc:   &http.Client{Timeout: 30 * time.Second},
		lim:  rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", rawURL, err)
	}
	return c.do(req)
}

func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", rawURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	if err := c.lim.Wait(req.Context()); err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.ua)

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", errs.ErrNetwork, req.Method, req.URL, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: %s %s: status %d", errs.ErrNetwork, req.Method, req.URL, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", errs.ErrNetwork, req.URL, err)
	}
	return body, nil
}
