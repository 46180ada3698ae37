package dto

// PriceRecord is one day of price data returned by the price endpoint.
type PriceRecord struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	Close  float64 `json:"close"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Volume int64   `json:"volume"`
}

// FinancialIndicator is a single named fundamental metric.
type FinancialIndicator struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Valuation carries the PE and PB ratios.
type Valuation struct {
	PERatio float64 `json:"pe_ratio"`
	PBRatio float64 `json:"pb_ratio"`
}

// FundamentalResponse is the body of the fundamental endpoint.
type FundamentalResponse struct {
	FinancialIndicators []FinancialIndicator `json:"financial_indicators"`
	Valuation           Valuation            `json:"valuation"`
	Industry            string               `json:"industry"`
	Sector              string               `json:"sector"`
}

// NewsItem is a single news article with its keyword sentiment.
type NewsItem struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Date      string  `json:"date"`
	Source    string  `json:"source"`
	Type      string  `json:"type"`
	Relevance float64 `json:"relevance"`
	Sentiment float64 `json:"sentiment"`
}

// SentimentSummary aggregates the per-item sentiment of a news batch.
type SentimentSummary struct {
	OverallSentiment float64            `json:"overall_sentiment"`
	SentimentTrend   string             `json:"sentiment_trend"`
	ConfidenceScore  float64            `json:"confidence_score"`
	TotalAnalyzed    int                `json:"total_analyzed"`
	SentimentByType  map[string]float64 `json:"sentiment_by_type"`
	NewsDistribution map[string]int     `json:"news_distribution"`
}

// NewsResponse is the body of the news endpoint.
type NewsResponse struct {
	News      []NewsItem       `json:"news"`
	Sentiment SentimentSummary `json:"sentiment"`
}

// NameResponse is the body of the name endpoint.
type NameResponse struct {
	Name string `json:"name"`
}
