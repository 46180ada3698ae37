package repository

import (
	"context"
	"errors"
	"strings"

	"golang-stock-proxy/internal/entity"
)

var (
	// ErrUpstreamStatus is returned when the provider answers with a non-2xx status.
	ErrUpstreamStatus = errors.New("unexpected upstream status")
	// ErrNoData is returned when the provider answers successfully but without a payload.
	ErrNoData = errors.New("no data returned by upstream")
)

// MarketDataRepository is the akshare-style data provider: every method maps to
// exactly one upstream dataset.
type MarketDataRepository interface {
	// GetDailyHistory returns unadjusted daily bars between start and end (YYYYMMDD), oldest first.
	GetDailyHistory(ctx context.Context, code, start, end string) ([]entity.DailyBar, error)
	// GetFinancialIndicators returns financial reports, most recent first.
	GetFinancialIndicators(ctx context.Context, code string) ([]entity.FinancialReport, error)
	// GetValuations returns the market-wide PE/PB table.
	GetValuations(ctx context.Context) ([]entity.Valuation, error)
	// GetStockNews returns the most recent company news, newest first.
	GetStockNews(ctx context.Context, code string, limit int) ([]entity.NewsArticle, error)
	// GetSpotSnapshot returns the full A-share market snapshot.
	GetSpotSnapshot(ctx context.Context) ([]entity.SpotQuote, error)
}

// NewsFeedRepository reads company news from a syndication feed.
type NewsFeedRepository interface {
	GetFeedNews(ctx context.Context, code string, limit int) ([]entity.NewsArticle, error)
}

// SecID maps a six digit A-share code to the provider's "market.code" id:
// Shanghai listings (6xx, 9xx) live in market 1, everything else in market 0.
func SecID(code string) string {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "9") {
		return "1." + code
	}
	return "0." + code
}
