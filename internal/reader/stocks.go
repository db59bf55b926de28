package reader

import (
	"context"
	"strings"

	"newsfeed/internal/apperr"
	"newsfeed/internal/services/news"
)

// StockSource is a financial publisher included in the market panel.
type StockSource struct {
	Domain string
	Name   string
}

var StockSources = []StockSource{
	{Domain: "bloomberg.com", Name: "Bloomberg"},
	{Domain: "ft.com", Name: "Financial Times"},
	{Domain: "wsj.com", Name: "Wall Street Journal"},
	{Domain: "reuters.com", Name: "Reuters"},
	{Domain: "marketwatch.com", Name: "MarketWatch"},
	{Domain: "businessinsider.com", Name: "Business Insider"},
}

const (
	stockQuery    = "(stock OR market OR trading OR investment OR stocks OR shares OR finance)"
	stockPageSize = 9
)

// StockRequest is the market panel query: newest finance stories from
// StockSources.
func StockRequest() news.QueryRequest {
	domains := make([]string, len(StockSources))
	for i, s := range StockSources {
		domains[i] = s.Domain
	}
	return news.QueryRequest{
		Mode:     news.ModeEverything,
		Query:    stockQuery,
		Domains:  strings.Join(domains, ","),
		SortBy:   "publishedAt",
		Page:     1,
		PageSize: stockPageSize,
	}.WithDefaults()
}

// StockNews loads the market panel. It has its own rate limit window.
func (c *Client) StockNews(ctx context.Context) (*news.Response, error) {
	if !c.limiter.Allow(StockNewsKey) {
		return nil, apperr.New(apperr.KindClientRateLimit, apperr.MsgClientRateLimit)
	}
	return c.Do(ctx, StockRequest())
}
