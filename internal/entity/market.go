package entity

// DailyBar is one row of the provider's daily OHLCV history.
// Nil fields were missing or unparsable upstream.
type DailyBar struct {
	Date   string
	Open   *float64
	Close  *float64
	High   *float64
	Low    *float64
	Volume *float64
}

// FinancialReport holds every indicator published for a single report date,
// keyed by the provider's indicator name.
type FinancialReport struct {
	ReportDate string
	Values     map[string]*float64
}

// Valuation is one row of the market-wide PE/PB table.
type Valuation struct {
	Code string
	PE   *float64
	PB   *float64
}

// SpotQuote is one row of the full market snapshot.
type SpotQuote struct {
	Code  string
	Name  string
	Price *float64
}

// NewsArticle is a company news item as published by the provider.
// Empty strings mean the field was missing.
type NewsArticle struct {
	Title       string
	Content     string
	PublishedAt string
	Source      string
	URL         string
}
