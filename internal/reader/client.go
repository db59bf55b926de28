// Package reader is the client side of the proxy: it rate-limits user
// actions, shapes requests, and validates what comes back.
package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"newsfeed/internal/apperr"
	"newsfeed/internal/clock"
	"newsfeed/internal/ratelimit"
	"newsfeed/internal/services/news"
)

// Limiter keys for the two fetch actions.
const (
	FetchNewsKey = "fetchNews"
	StockNewsKey = "stockNews"
)

const maxBody = 10 << 20

// Params describes one headlines or search action.
type Params struct {
	Category string
	Search   string
	Page     int
	// Domains and SortBy narrow a search; headlines ignore them.
	Domains string
	SortBy  string
}

type Options struct {
	ProxyURL   string
	HTTPClient *http.Client
	Limiter    *ratelimit.Limiter
	Clock      clock.Clock
	PageSize   int
	Country    string
	Timeout    time.Duration
}

// Client calls the proxy. It is safe for concurrent use.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *ratelimit.Limiter
	clock    clock.Clock
	pageSize int
	country  string
}

func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(opts.ProxyURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, apperr.New(apperr.KindConfiguration, fmt.Sprintf("invalid proxy url %q", opts.ProxyURL))
	}

	c := &Client{
		endpoint: strings.TrimRight(opts.ProxyURL, "?"),
		http:     opts.HTTPClient,
		limiter:  opts.Limiter,
		clock:    opts.Clock,
		pageSize: opts.PageSize,
		country:  opts.Country,
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.limiter == nil {
		c.limiter = ratelimit.New(ratelimit.DefaultLimit, ratelimit.DefaultWindow, c.clock)
	}
	if c.pageSize <= 0 {
		c.pageSize = news.DefaultPageSize
	}
	if c.country == "" {
		c.country = news.DefaultCountry
	}
	return c, nil
}

// PageSize is the number of articles requested per page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Request builds the proxy request for p. A non-empty search always uses the
// search endpoint and never carries a category.
func (c *Client) Request(p Params) news.QueryRequest {
	req := news.QueryRequest{Page: p.Page, PageSize: c.pageSize}
	if search := strings.TrimSpace(p.Search); search != "" {
		req.Mode = news.ModeEverything
		req.Query = search
		req.Domains = p.Domains
		req.SortBy = p.SortBy
	} else {
		req.Mode = news.ModeTopHeadlines
		req.Country = c.country
		req.Category = p.Category
	}
	return req.WithDefaults()
}

// FetchNews loads one page of headlines or search results.
func (c *Client) FetchNews(ctx context.Context, p Params) (*news.Response, error) {
	if !c.limiter.Allow(FetchNewsKey) {
		return nil, apperr.New(apperr.KindClientRateLimit, apperr.MsgClientRateLimit)
	}
	return c.Do(ctx, c.Request(p))
}

// Do sends req to the proxy and validates the response.
func (c *Client) Do(ctx context.Context, req news.QueryRequest) (*news.Response, error) {
	target := c.endpoint + "?" + req.Values().Encode()
	requestID := uuid.NewString()

	logger := log.Ctx(ctx).With().
		Str("request_id", requestID).
		Str("endpoint", string(req.Endpoint())).
		Int("page", req.Page).
		Logger()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err, fmt.Sprintf("invalid request: %v", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		logger.Debug().Err(err).Msg("Proxy request failed")
		return nil, apperr.Wrap(apperr.KindNetwork, err, fmt.Sprintf("network request failed: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, err, fmt.Sprintf("network read failed: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Debug().Int("status", resp.StatusCode).Msg("Proxy returned an error")
		return nil, news.DecodeError(resp.StatusCode, body)
	}

	return news.ValidateResponse(body, c.clock.Now())
}

// Dashboard is the landing view: a page of news plus the market panel.
type Dashboard struct {
	News   *news.Response
	Stocks *news.Response
	// StocksErr is set when only the market panel failed.
	StocksErr error
}

// FetchDashboard loads news and stock news concurrently. A stock news
// failure does not fail the dashboard.
func (c *Client) FetchDashboard(ctx context.Context, p Params) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp, err := c.FetchNews(gctx, p)
		if err != nil {
			return err
		}
		d.News = resp
		return nil
	})
	g.Go(func() error {
		d.Stocks, d.StocksErr = c.StockNews(gctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}
