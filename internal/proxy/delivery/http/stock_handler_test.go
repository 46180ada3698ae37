package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-stock-proxy/internal/proxy/dto"
	"golang-stock-proxy/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockService struct {
	err      error
	lastDays int
}

func (s *stubStockService) GetPriceHistory(ctx context.Context, code string, days int) ([]dto.PriceRecord, error) {
	s.lastDays = days
	if s.err != nil {
		return nil, s.err
	}
	return []dto.PriceRecord{{Date: "2024-03-01", Open: 9.1, Close: 9.2, High: 9.3, Low: 9.0, Volume: 1000}}, nil
}

func (s *stubStockService) GetFundamental(ctx context.Context, code string) (*dto.FundamentalResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.FundamentalResponse{
		FinancialIndicators: []dto.FinancialIndicator{{Name: "净利润率", Value: 15.2, Unit: "%"}},
		Valuation:           dto.Valuation{PERatio: 15, PBRatio: 1.5},
		Industry:            "未知",
		Sector:              "未知",
	}, nil
}

func (s *stubStockService) GetNews(ctx context.Context, code string, days int) (*dto.NewsResponse, error) {
	s.lastDays = days
	if s.err != nil {
		return nil, s.err
	}
	return &dto.NewsResponse{News: []dto.NewsItem{{Title: "t"}}}, nil
}

func (s *stubStockService) GetName(ctx context.Context, code string) *dto.NameResponse {
	return &dto.NameResponse{Name: code + "股票"}
}

func newTestServer(svc *stubStockService) *echo.Echo {
	e := echo.New()
	log := logger.NewNop()
	RegisterMiddleware(e, log)
	NewStockHandler(svc, log).RegisterRoutes(e.Group("/api/stock"))
	NewSystemHandler().RegisterRoutes(e.Group(""))
	return e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(echo.HeaderOrigin, "http://example.com")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetPrice(t *testing.T) {
	svc := &stubStockService{}
	rec := doGet(newTestServer(svc), "/api/stock/000001/price?days=10")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, svc.lastDays)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	var records []dto.PriceRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, int64(1000), records[0].Volume)
}

func TestGetPrice_DefaultDays(t *testing.T) {
	svc := &stubStockService{}
	rec := doGet(newTestServer(svc), "/api/stock/000001/price")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, svc.lastDays)
}

func TestGetPrice_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
	}{
		{name: "non integer days", target: "/api/stock/000001/price?days=abc"},
		{name: "provider failure", target: "/api/stock/000001/price", err: errors.New("upstream returned 502")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(newTestServer(&stubStockService{err: tt.err}), tt.target)

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestGetFundamental(t *testing.T) {
	rec := doGet(newTestServer(&stubStockService{}), "/api/stock/600519/fundamental")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "financial_indicators")
	assert.Equal(t, map[string]interface{}{"pe_ratio": 15.0, "pb_ratio": 1.5}, body["valuation"])
	assert.Equal(t, "未知", body["industry"])
}

func TestGetFundamental_Error(t *testing.T) {
	rec := doGet(newTestServer(&stubStockService{err: errors.New("boom")}), "/api/stock/600519/fundamental")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"boom"}`, rec.Body.String())
}

func TestGetNews(t *testing.T) {
	svc := &stubStockService{}
	rec := doGet(newTestServer(svc), "/api/stock/600519/news")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 15, svc.lastDays)
}

func TestGetName_NeverFails(t *testing.T) {
	rec := doGet(newTestServer(&stubStockService{err: errors.New("down")}), "/api/stock/123456/name")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"123456股票"}`, rec.Body.String())
}

func TestSystemRoutes(t *testing.T) {
	e := newTestServer(&stubStockService{})

	rec := doGet(e, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"akshare-proxy"}`, rec.Body.String())

	rec = doGet(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	var index dto.IndexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &index))
	assert.Equal(t, "akshare-proxy", index.Service)
	assert.Len(t, index.Endpoints, 5)
}
