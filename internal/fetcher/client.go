// Package fetcher reads the pizza index JSON endpoints.
package fetcher

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/pizza-watch/internal/model"
)

// Endpoint paths.
const (
	PizzaDataPath = "/api/pizza-data"
	NewsFeedPath  = "/api/news-feed"
	OutletsPath   = "/api/outlets"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
}

// Client fetches full-snapshot arrays from the pizza index. Each call makes
// exactly one request; recovery is left to the caller's next scheduled tick.
type Client struct {
	base      *url.URL
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// New creates a Client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, eris.New("fetcher: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: parse base url")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, eris.Errorf("fetcher: unsupported scheme %q", base.Scheme)
	}

	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "pizzawatch/1.0"
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 6
	}

	return &Client{
		base: base,
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		userAgent: opts.UserAgent,
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// FetchArray GETs path and decodes the body as a JSON array of T.
func FetchArray[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: KindNetwork, Path: path, Err: eris.Wrap(err, "rate limiter wait")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath(path).String(), nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Path: path, Err: eris.Wrap(err, "create request")}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Path: path, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Kind:   KindNetwork,
			Path:   path,
			Status: resp.StatusCode,
			Err:    eris.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	items, err := DecodeArray[T](resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindMalformed, Path: path, Err: err}
	}

	zap.L().Debug("fetcher: snapshot received",
		zap.String("path", path),
		zap.Int("items", len(items)),
	)
	return items, nil
}

// PizzaData fetches the activity watch list.
func (c *Client) PizzaData(ctx context.Context) ([]model.WatchItem, error) {
	return FetchArray[model.WatchItem](ctx, c, PizzaDataPath)
}

// NewsFeed fetches the latest news items.
func (c *Client) NewsFeed(ctx context.Context) ([]model.NewsItem, error) {
	return FetchArray[model.NewsItem](ctx, c, NewsFeedPath)
}

// Outlets fetches every active outlet with its latest reading.
func (c *Client) Outlets(ctx context.Context) ([]model.Outlet, error) {
	return FetchArray[model.Outlet](ctx, c, OutletsPath)
}
