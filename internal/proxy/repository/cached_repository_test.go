package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-proxy/internal/entity"
	"golang-stock-proxy/pkg/cache"
	"golang-stock-proxy/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRepository struct {
	MarketDataRepository
	snapshotCalls  int
	valuationCalls int
	indicatorCalls int
	historyCalls   int
	failIndicators bool
}

func (r *countingRepository) GetSpotSnapshot(ctx context.Context) ([]entity.SpotQuote, error) {
	r.snapshotCalls++
	price := 9.21
	return []entity.SpotQuote{{Code: "000001", Name: "平安银行", Price: &price}}, nil
}

func (r *countingRepository) GetValuations(ctx context.Context) ([]entity.Valuation, error) {
	r.valuationCalls++
	pe := 4.52
	return []entity.Valuation{{Code: "000001", PE: &pe}}, nil
}

func (r *countingRepository) GetFinancialIndicators(ctx context.Context, code string) ([]entity.FinancialReport, error) {
	r.indicatorCalls++
	if r.failIndicators {
		return nil, errors.New("boom")
	}
	roe := 10.5
	return []entity.FinancialReport{{ReportDate: "2024-09-30", Values: map[string]*float64{"净资产收益率": &roe}}}, nil
}

func (r *countingRepository) GetDailyHistory(ctx context.Context, code, start, end string) ([]entity.DailyBar, error) {
	r.historyCalls++
	return []entity.DailyBar{{Date: "2024-01-02"}}, nil
}

func newCachedRepository(next MarketDataRepository) MarketDataRepository {
	c := cache.NewTieredCache(time.Minute, time.Minute, nil, logger.NewNop())
	return NewCachedMarketDataRepository(next, c, time.Minute, logger.NewNop())
}

func TestCachedRepository_SpotSnapshot(t *testing.T) {
	next := &countingRepository{}
	repo := newCachedRepository(next)
	ctx := context.Background()

	first, err := repo.GetSpotSnapshot(ctx)
	require.NoError(t, err)
	second, err := repo.GetSpotSnapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, next.snapshotCalls)
	assert.Equal(t, first, second)
	require.Len(t, second, 1)
	assert.Equal(t, "平安银行", second[0].Name)
	assert.Equal(t, 9.21, *second[0].Price)
}

func TestCachedRepository_ValuationsAndIndicators(t *testing.T) {
	next := &countingRepository{}
	repo := newCachedRepository(next)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.GetValuations(ctx)
		require.NoError(t, err)
		_, err = repo.GetFinancialIndicators(ctx, "000001")
		require.NoError(t, err)
	}
	_, err := repo.GetFinancialIndicators(ctx, "600519")
	require.NoError(t, err)

	assert.Equal(t, 1, next.valuationCalls)
	assert.Equal(t, 2, next.indicatorCalls)
}

func TestCachedRepository_ErrorsAreNotCached(t *testing.T) {
	next := &countingRepository{failIndicators: true}
	repo := newCachedRepository(next)
	ctx := context.Background()

	_, err := repo.GetFinancialIndicators(ctx, "000001")
	require.Error(t, err)
	_, err = repo.GetFinancialIndicators(ctx, "000001")
	require.Error(t, err)

	assert.Equal(t, 2, next.indicatorCalls)
}

func TestCachedRepository_HistoryPassesThrough(t *testing.T) {
	next := &countingRepository{}
	repo := newCachedRepository(next)
	ctx := context.Background()

	_, _ = repo.GetDailyHistory(ctx, "000001", "20240101", "20240131")
	_, _ = repo.GetDailyHistory(ctx, "000001", "20240101", "20240131")

	assert.Equal(t, 2, next.historyCalls)
}
