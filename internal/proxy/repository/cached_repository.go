package repository

import (
	"context"
	"fmt"
	"time"

	"golang-stock-proxy/internal/entity"
	"golang-stock-proxy/pkg/cache"
	"golang-stock-proxy/pkg/common"
	"golang-stock-proxy/pkg/logger"
)

// cachedMarketDataRepository caches the market-wide tables and the slow
// financial indicator pages. Daily history and news are always fetched live.
type cachedMarketDataRepository struct {
	MarketDataRepository
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedMarketDataRepository wraps next with a read-through cache.
func NewCachedMarketDataRepository(next MarketDataRepository, c cache.Cache, ttl time.Duration, log *logger.Logger) MarketDataRepository {
	return &cachedMarketDataRepository{
		MarketDataRepository: next,
		cache:                c,
		ttl:                  ttl,
		log:                  log,
	}
}

func (r *cachedMarketDataRepository) GetSpotSnapshot(ctx context.Context) ([]entity.SpotQuote, error) {
	var quotes []entity.SpotQuote
	err := r.readThrough(ctx, common.CacheKeySpotSnapshot, &quotes, func() (interface{}, error) {
		return r.MarketDataRepository.GetSpotSnapshot(ctx)
	})
	return quotes, err
}

func (r *cachedMarketDataRepository) GetValuations(ctx context.Context) ([]entity.Valuation, error) {
	var valuations []entity.Valuation
	err := r.readThrough(ctx, common.CacheKeyValuations, &valuations, func() (interface{}, error) {
		return r.MarketDataRepository.GetValuations(ctx)
	})
	return valuations, err
}

func (r *cachedMarketDataRepository) GetFinancialIndicators(ctx context.Context, code string) ([]entity.FinancialReport, error) {
	var reports []entity.FinancialReport
	key := fmt.Sprintf(common.CacheKeyFinancialIndicators, code)
	err := r.readThrough(ctx, key, &reports, func() (interface{}, error) {
		return r.MarketDataRepository.GetFinancialIndicators(ctx, code)
	})
	return reports, err
}

// readThrough decodes the cached value into dest, or calls load and stores its
// result. Cache failures never fail the call.
func (r *cachedMarketDataRepository) readThrough(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	hit, err := r.cache.GetJSON(ctx, key, dest)
	if err != nil {
		r.log.WarnContext(ctx, "Cache read failed, loading from provider", logger.StringField("key", key), logger.ErrorField(err))
	}
	if hit {
		return nil
	}

	value, err := load()
	if err != nil {
		return err
	}

	if err := r.cache.SetJSON(ctx, key, value, r.ttl); err != nil {
		r.log.WarnContext(ctx, "Cache write failed", logger.StringField("key", key), logger.ErrorField(err))
	}

	return assign(dest, value)
}

func assign(dest, value interface{}) error {
	switch d := dest.(type) {
	case *[]entity.SpotQuote:
		*d = value.([]entity.SpotQuote)
	case *[]entity.Valuation:
		*d = value.([]entity.Valuation)
	case *[]entity.FinancialReport:
		*d = value.([]entity.FinancialReport)
	default:
		return fmt.Errorf("unsupported cache destination %T", dest)
	}
	return nil
}
