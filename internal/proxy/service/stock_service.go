package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang-stock-proxy/internal/entity"
	"golang-stock-proxy/internal/proxy/config"
	"golang-stock-proxy/internal/proxy/dto"
	"golang-stock-proxy/internal/proxy/repository"
	"golang-stock-proxy/pkg/common"
	"golang-stock-proxy/pkg/logger"
	"golang-stock-proxy/pkg/metrics"
	"golang-stock-proxy/pkg/utils"
)

const (
	defaultPERatio = 15.0
	defaultPBRatio = 1.5

	newsRelevance        = 0.8
	newsConfidence       = 0.75
	fallbackConfidence   = 0.5
	fallbackNewsCount    = 10
	fallbackNewsSource   = "新浪财经"
	defaultMaxNewsItems  = 30
	unitPercent          = "%"
	unitMultiple         = "倍"
	fallbackNameTemplate = "%s股票"
)

type indicatorMapping struct {
	key         string
	displayName string
}

// indicatorAllowList is extracted from the most recent report, in this order.
var indicatorAllowList = []indicatorMapping{
	{"净利润率", "净利润率"},
	{"净资产收益率", "净资产收益率"},
	{"总资产收益率", "总资产收益率"},
	{"毛利率", "毛利率"},
	{"资产负债率", "资产负债率"},
	{"流动比率", "流动比率"},
	{"营业收入增长率", "营收同比增长率"},
	{"净利润增长率", "净利润同比增长率"},
}

// StockService defines the operations behind the data proxy endpoints.
type StockService interface {
	GetPriceHistory(ctx context.Context, code string, days int) ([]dto.PriceRecord, error)
	GetFundamental(ctx context.Context, code string) (*dto.FundamentalResponse, error)
	GetNews(ctx context.Context, code string, days int) (*dto.NewsResponse, error)
	GetName(ctx context.Context, code string) *dto.NameResponse
}

// NewStockService creates a new stock service. feedRepo may be nil.
func NewStockService(marketRepo repository.MarketDataRepository, feedRepo repository.NewsFeedRepository, cfg config.News, log *logger.Logger) StockService {
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxNewsItems
	}

	return &stockService{
		marketRepo: marketRepo,
		feedRepo:   feedRepo,
		scorer:     NewKeywordScorer(cfg.PositiveWords, cfg.NegativeWords),
		maxItems:   maxItems,
		logger:     log,
		now:        utils.TimeNowCST,
	}
}

type stockService struct {
	marketRepo repository.MarketDataRepository
	feedRepo   repository.NewsFeedRepository
	scorer     *KeywordScorer
	maxItems   int
	logger     *logger.Logger
	now        func() time.Time
}

// GetPriceHistory returns unadjusted daily bars for the last days calendar days.
func (s *stockService) GetPriceHistory(ctx context.Context, code string, days int) ([]dto.PriceRecord, error) {
	start, end := utils.DateWindow(s.now(), days)

	bars, err := s.marketRepo.GetDailyHistory(ctx, code, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily history for %s: %w", code, err)
	}

	records := make([]dto.PriceRecord, 0, len(bars))
	for _, bar := range bars {
		records = append(records, dto.PriceRecord{
			Date:   bar.Date,
			Open:   orZero(bar.Open),
			Close:  orZero(bar.Close),
			High:   orZero(bar.High),
			Low:    orZero(bar.Low),
			Volume: int64(orZero(bar.Volume)),
		})
	}
	return records, nil
}

// GetFundamental returns the allow-listed indicators of the latest report and the PE/PB valuation.
func (s *stockService) GetFundamental(ctx context.Context, code string) (*dto.FundamentalResponse, error) {
	valuation := s.lookupValuation(ctx, code)

	reports, err := s.marketRepo.GetFinancialIndicators(ctx, code)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get financial indicators, using defaults",
			logger.StringField("code", code),
			logger.ErrorField(err),
		)
		reports = nil
	}

	var indicators []dto.FinancialIndicator
	if len(reports) > 0 {
		indicators = extractIndicators(reports[0])
	}

	if len(indicators) == 0 {
		metrics.Fallbacks.WithLabelValues("fundamental").Inc()
		indicators = defaultIndicators(valuation)
	}

	return &dto.FundamentalResponse{
		FinancialIndicators: indicators,
		Valuation:           valuation,
		Industry:            common.UnknownLabel,
		Sector:              common.UnknownLabel,
	}, nil
}

func (s *stockService) lookupValuation(ctx context.Context, code string) dto.Valuation {
	valuation := dto.Valuation{PERatio: defaultPERatio, PBRatio: defaultPBRatio}

	rows, err := s.marketRepo.GetValuations(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get valuation table, using defaults",
			logger.StringField("code", code),
			logger.ErrorField(err),
		)
		return valuation
	}

	for _, row := range rows {
		if row.Code != code {
			continue
		}
		if v, ok := finite(row.PE); ok {
			valuation.PERatio = v
		}
		if v, ok := finite(row.PB); ok {
			valuation.PBRatio = v
		}
		break
	}
	return valuation
}

func extractIndicators(report entity.FinancialReport) []dto.FinancialIndicator {
	var indicators []dto.FinancialIndicator
	for _, m := range indicatorAllowList {
		v, ok := finite(report.Values[m.key])
		if !ok {
			continue
		}
		indicators = append(indicators, dto.FinancialIndicator{
			Name:  m.displayName,
			Value: v,
			Unit:  InferUnit(m.displayName),
		})
	}
	return indicators
}

func defaultIndicators(valuation dto.Valuation) []dto.FinancialIndicator {
	return []dto.FinancialIndicator{
		{Name: "净利润率", Value: 15.2, Unit: unitPercent},
		{Name: "净资产收益率", Value: 12.5, Unit: unitPercent},
		{Name: "市盈率", Value: valuation.PERatio, Unit: unitMultiple},
		{Name: "市净率", Value: valuation.PBRatio, Unit: unitMultiple},
	}
}

// InferUnit derives an indicator unit from its display name. Any name
// containing "率" is a percentage, 流动比率 included.
func InferUnit(name string) string {
	switch {
	case strings.Contains(name, "率"):
		return unitPercent
	case strings.Contains(name, "比率"):
		return unitMultiple
	default:
		return ""
	}
}

// GetNews returns recent company news with keyword sentiment. days is
// accepted for compatibility and does not filter the result.
func (s *stockService) GetNews(ctx context.Context, code string, days int) (*dto.NewsResponse, error) {
	articles, err := s.marketRepo.GetStockNews(ctx, code, s.maxItems)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to get stock news",
			logger.StringField("code", code),
			logger.ErrorField(err),
		)
	}

	if len(articles) == 0 && s.feedRepo != nil {
		articles, err = s.feedRepo.GetFeedNews(ctx, code, s.maxItems)
		if err != nil {
			s.logger.WarnContext(ctx, "Failed to get feed news", logger.StringField("code", code), logger.ErrorField(err))
		}
	}

	if len(articles) == 0 {
		metrics.Fallbacks.WithLabelValues("news").Inc()
		s.logger.InfoContext(ctx, "No news available, serving placeholder articles", logger.StringField("code", code))
		return s.placeholderNews(code), nil
	}

	if len(articles) > s.maxItems {
		articles = articles[:s.maxItems]
	}

	items := make([]dto.NewsItem, 0, len(articles))
	scores := make([]float64, 0, len(articles))
	for _, a := range articles {
		item := dto.NewsItem{
			Title:     a.Title,
			Content:   a.Content,
			Date:      a.PublishedAt,
			Source:    a.Source,
			Type:      common.NewsTypeCompany,
			Relevance: newsRelevance,
			Sentiment: s.scorer.Score(a.Title),
		}
		if item.Content == "" {
			item.Content = a.Title
		}
		if item.Date == "" {
			item.Date = s.now().Format(utils.DateTimeLayout)
		}
		if item.Source == "" {
			item.Source = common.UnknownLabel
		}

		items = append(items, item)
		scores = append(scores, item.Sentiment)
	}

	overall := Mean(scores)
	return &dto.NewsResponse{
		News:      items,
		Sentiment: summarize(overall, newsConfidence, len(items)),
	}, nil
}

func (s *stockService) placeholderNews(code string) *dto.NewsResponse {
	now := s.now()
	items := make([]dto.NewsItem, 0, fallbackNewsCount)
	for i := 0; i < fallbackNewsCount; i++ {
		items = append(items, dto.NewsItem{
			Title:     fmt.Sprintf("%s相关新闻%d", code, i+1),
			Content:   fmt.Sprintf("这是%s的第%d条新闻内容", code, i+1),
			Date:      now.AddDate(0, 0, -i).Format(utils.DateLayout),
			Source:    fallbackNewsSource,
			Type:      common.NewsTypeCompany,
			Relevance: newsRelevance,
			Sentiment: float64(i%3-1) * 0.3,
		})
	}

	return &dto.NewsResponse{
		News:      items,
		Sentiment: summarize(0, fallbackConfidence, len(items)),
	}
}

func summarize(overall, confidence float64, total int) dto.SentimentSummary {
	return dto.SentimentSummary{
		OverallSentiment: overall,
		SentimentTrend:   common.SentimentNeutral,
		ConfidenceScore:  confidence,
		TotalAnalyzed:    total,
		SentimentByType:  map[string]float64{common.NewsTypeCompany: overall},
		NewsDistribution: map[string]int{common.NewsTypeCompany: total},
	}
}

// GetName looks the code up in the market snapshot. It never fails: misses
// and provider errors both yield "<code>股票".
func (s *stockService) GetName(ctx context.Context, code string) *dto.NameResponse {
	quotes, err := s.marketRepo.GetSpotSnapshot(ctx)
	if err != nil {
		metrics.Fallbacks.WithLabelValues("name").Inc()
		s.logger.WarnContext(ctx, "Failed to get market snapshot", logger.StringField("code", code), logger.ErrorField(err))
		return &dto.NameResponse{Name: fmt.Sprintf(fallbackNameTemplate, code)}
	}

	for _, q := range quotes {
		if q.Code == code && q.Name != "" {
			return &dto.NameResponse{Name: q.Name}
		}
	}

	metrics.Fallbacks.WithLabelValues("name").Inc()
	return &dto.NameResponse{Name: fmt.Sprintf(fallbackNameTemplate, code)}
}

func orZero(v *float64) float64 {
	f, _ := finite(v)
	return f
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}
