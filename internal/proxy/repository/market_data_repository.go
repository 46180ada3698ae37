package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang-stock-proxy/internal/entity"
	"golang-stock-proxy/internal/proxy/config"
	"golang-stock-proxy/pkg/httpclient"
	"golang-stock-proxy/pkg/logger"
	"golang-stock-proxy/pkg/metrics"
	"golang-stock-proxy/pkg/utils"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	sourceKline      = "kline"
	sourceQuoteList  = "quote_list"
	sourceNewsSearch = "news_search"
	sourceFinance    = "finance"

	// A-share boards: SZ main, SZ ChiNext, SH main, SH STAR, BJ.
	aShareFilter = "m:0 t:6,m:0 t:80,m:1 t:2,m:1 t:23,m:0 t:81 s:2048"

	newsCallback    = "jQuery3510875346244069884_1668256937995"
	maxQuoteListPgs = 100
	maxNewsPageSize = 100
)

type marketDataRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *resty.Client
	requestLimiter *rate.Limiter
}

// NewMarketDataRepository creates a MarketDataRepository backed by the provider's public HTTP endpoints.
func NewMarketDataRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	perMinute := cfg.Provider.MaxRequestPerMinute
	if perMinute <= 0 {
		perMinute = 60
	}
	requestLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 5)

	client := resty.New().
		SetTimeout(cfg.Provider.Timeout).
		SetHeaders(map[string]string{
			"Accept":          "application/json, text/plain, */*",
			"Accept-Encoding": "gzip, br",
			"Referer":         "https://quote.eastmoney.com/",
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		})
	client.OnAfterResponse(httpclient.DecompressMiddleware)

	return &marketDataRepository{
		cfg:            cfg,
		log:            log,
		client:         client,
		requestLimiter: requestLimiter,
	}
}

type klineResponse struct {
	RC   int `json:"rc"`
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (r *marketDataRepository) GetDailyHistory(ctx context.Context, code, start, end string) ([]entity.DailyBar, error) {
	resp, err := r.sendRequest(ctx, sourceKline, r.cfg.Provider.KlineBaseURL+"/api/qt/stock/kline/get", map[string]string{
		"fields1": "f1,f2,f3,f4,f5,f6",
		"fields2": "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61,f116",
		"ut":      "7eea3edcaed734bea9cbfc24409ed989",
		"klt":     "101",
		"fqt":     "0",
		"secid":   SecID(code),
		"beg":     start,
		"end":     end,
	})
	if err != nil {
		return nil, err
	}

	var payload klineResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode kline response: %w", err)
	}

	// unknown codes come back with a null data block, same as an empty frame
	if payload.Data == nil {
		return []entity.DailyBar{}, nil
	}

	bars := make([]entity.DailyBar, 0, len(payload.Data.Klines))
	for _, line := range payload.Data.Klines {
		// date,open,close,high,low,volume,amount,...
		parts := strings.Split(line, ",")
		if len(parts) < 6 {
			r.log.WarnContext(ctx, "Skipping malformed kline row", logger.StringField("code", code), logger.StringField("row", line))
			continue
		}
		bars = append(bars, entity.DailyBar{
			Date:   parts[0],
			Open:   parseNumber(parts[1]),
			Close:  parseNumber(parts[2]),
			High:   parseNumber(parts[3]),
			Low:    parseNumber(parts[4]),
			Volume: parseNumber(parts[5]),
		})
	}

	return bars, nil
}

func (r *marketDataRepository) GetFinancialIndicators(ctx context.Context, code string) ([]entity.FinancialReport, error) {
	year := utils.TimeNowCST().Year()

	// early in the year the current page has no columns yet
	for _, y := range []int{year, year - 1} {
		url := fmt.Sprintf("%s/corp/go.php/vFD_FinancialGuideLine/stockid/%s/ctrl/%d/displaytype/4.phtml", r.cfg.Provider.FinanceBaseURL, code, y)
		resp, err := r.sendRequest(ctx, sourceFinance, url, nil)
		if err != nil {
			return nil, err
		}

		reports, err := ParseFinancialGuideline(resp.Body(), resp.Header().Get("Content-Type"))
		if err != nil {
			return nil, err
		}
		if len(reports) > 0 {
			return reports, nil
		}
	}

	return []entity.FinancialReport{}, nil
}

type quoteListResponse struct {
	RC   int `json:"rc"`
	Data *struct {
		Total int                      `json:"total"`
		Diff  []map[string]interface{} `json:"diff"`
	} `json:"data"`
}

func (r *marketDataRepository) GetValuations(ctx context.Context) ([]entity.Valuation, error) {
	// f12 code, f9 dynamic PE, f23 PB
	rows, err := r.fetchQuoteList(ctx, "f12,f9,f23")
	if err != nil {
		return nil, err
	}

	valuations := make([]entity.Valuation, 0, len(rows))
	for _, row := range rows {
		valuations = append(valuations, entity.Valuation{
			Code: valueToString(row["f12"]),
			PE:   valueToFloat(row["f9"]),
			PB:   valueToFloat(row["f23"]),
		})
	}
	return valuations, nil
}

func (r *marketDataRepository) GetSpotSnapshot(ctx context.Context) ([]entity.SpotQuote, error) {
	// f12 code, f14 name, f2 latest price
	rows, err := r.fetchQuoteList(ctx, "f12,f14,f2")
	if err != nil {
		return nil, err
	}

	quotes := make([]entity.SpotQuote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, entity.SpotQuote{
			Code:  valueToString(row["f12"]),
			Name:  valueToString(row["f14"]),
			Price: valueToFloat(row["f2"]),
		})
	}
	return quotes, nil
}

func (r *marketDataRepository) fetchQuoteList(ctx context.Context, fields string) ([]map[string]interface{}, error) {
	pageSize := r.cfg.Provider.SnapshotPageSize
	if pageSize <= 0 {
		pageSize = 100
	}

	var rows []map[string]interface{}
	for page := 1; page <= maxQuoteListPgs; page++ {
		resp, err := r.sendRequest(ctx, sourceQuoteList, r.cfg.Provider.QuoteListBaseURL+"/api/qt/clist/get", map[string]string{
			"pn":     strconv.Itoa(page),
			"pz":     strconv.Itoa(pageSize),
			"po":     "1",
			"np":     "1",
			"ut":     "bd1d9ddb04089700cf9c27f6f7426281",
			"fltt":   "2",
			"invt":   "2",
			"fid":    "f12",
			"fs":     aShareFilter,
			"fields": fields,
		})
		if err != nil {
			return nil, err
		}

		var payload quoteListResponse
		if err := json.Unmarshal(resp.Body(), &payload); err != nil {
			return nil, fmt.Errorf("failed to decode quote list response: %w", err)
		}
		if payload.Data == nil {
			if page == 1 {
				return nil, fmt.Errorf("quote list: %w", ErrNoData)
			}
			break
		}
		if len(payload.Data.Diff) == 0 {
			break
		}

		rows = append(rows, payload.Data.Diff...)
		if len(rows) >= payload.Data.Total {
			break
		}
	}

	r.log.Debug("Fetched quote list", logger.IntField("rows", len(rows)), logger.StringField("fields", fields))
	return rows, nil
}

type newsSearchResponse struct {
	Code   int `json:"code"`
	Result struct {
		Articles []struct {
			Date      string `json:"date"`
			Title     string `json:"title"`
			Content   string `json:"content"`
			MediaName string `json:"mediaName"`
			URL       string `json:"url"`
		} `json:"cmsArticleWebOld"`
	} `json:"result"`
}

func (r *marketDataRepository) GetStockNews(ctx context.Context, code string, limit int) ([]entity.NewsArticle, error) {
	if limit <= 0 || limit > maxNewsPageSize {
		limit = maxNewsPageSize
	}

	param, err := json.Marshal(map[string]interface{}{
		"uid":           "",
		"keyword":       code,
		"type":          []string{"cmsArticleWebOld"},
		"client":        "web",
		"clientType":    "web",
		"clientVersion": "curr",
		"param": map[string]interface{}{
			"cmsArticleWebOld": map[string]interface{}{
				"searchScope": "default",
				"sort":        "default",
				"pageIndex":   1,
				"pageSize":    limit,
				"preTag":      "<em>",
				"postTag":     "</em>",
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal news search param: %w", err)
	}

	resp, err := r.sendRequest(ctx, sourceNewsSearch, r.cfg.Provider.NewsSearchBaseURL+"/search/jsonp", map[string]string{
		"cb":    newsCallback,
		"param": string(param),
	})
	if err != nil {
		return nil, err
	}

	raw, err := unwrapJSONP(resp.Body())
	if err != nil {
		return nil, err
	}

	var payload newsSearchResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode news search response: %w", err)
	}

	articles := make([]entity.NewsArticle, 0, len(payload.Result.Articles))
	for _, a := range payload.Result.Articles {
		articles = append(articles, entity.NewsArticle{
			Title:       StripTags(a.Title),
			Content:     StripTags(a.Content),
			PublishedAt: strings.TrimSpace(a.Date),
			Source:      strings.TrimSpace(a.MediaName),
			URL:         a.URL,
		})
	}
	return articles, nil
}

func (r *marketDataRepository) sendRequest(ctx context.Context, source, url string, query map[string]string) (*resty.Response, error) {
	fields := []zap.Field{
		logger.StringField("source", source),
		logger.StringField("url", url),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	start := time.Now()
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	metrics.UpstreamLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(source, "error").Inc()
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to send request to market data provider", fields...)
		return nil, fmt.Errorf("failed to send %s request: %w", source, err)
	}

	metrics.UpstreamRequests.WithLabelValues(source, strconv.Itoa(resp.StatusCode())).Inc()
	if resp.StatusCode() != http.StatusOK {
		fields = append(fields, logger.IntField("status_code", resp.StatusCode()))
		r.log.ErrorContext(ctx, "Received non-OK response from market data provider", fields...)
		return nil, fmt.Errorf("%s returned %d: %w", source, resp.StatusCode(), ErrUpstreamStatus)
	}

	r.log.DebugContext(ctx, "Market data provider responded", append(fields, logger.DurationField("elapsed", time.Since(start)))...)
	return resp, nil
}

func unwrapJSONP(body []byte) ([]byte, error) {
	s := strings.TrimSpace(string(body))
	open := strings.Index(s, "(")
	end := strings.LastIndex(s, ")")
	if open < 0 || end <= open {
		return nil, fmt.Errorf("malformed jsonp payload: %w", ErrNoData)
	}
	return []byte(s[open+1 : end]), nil
}

// parseNumber returns nil for the provider's placeholders ("-", "--", "")
// and anything that is not a finite number.
func parseNumber(s string) *float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" || s == "--" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func valueToFloat(v interface{}) *float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil
		}
		return &t
	case string:
		return parseNumber(t)
	case json.Number:
		return parseNumber(t.String())
	default:
		return nil
	}
}

func valueToString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
