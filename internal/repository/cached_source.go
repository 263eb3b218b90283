package repository

import (
	"context"
	"errors"
	"time"

	"FxSignals/internal/domain/models"
	domrepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/cache"
	applogger "FxSignals/pkg/logger"
)

// CachedSource memoizes candle fetches of another MarketDataSource.
// Only successful fetches are stored; errors always reach the caller.
// An entry that cannot be decoded is dropped so a failing upstream never leaves it behind.
type CachedSource struct {
	next  domrepo.MarketDataSource
	cache cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedSource(next domrepo.MarketDataSource, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl, l: l}
}

func (s *CachedSource) GetCandles(ctx context.Context, symbol string, interval domrepo.Interval, size int) ([]models.Candle, error) {
	key := cache.GenerateKeyWithParams("candles", symbol, interval, size)

	var cached []models.Candle
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.l.Warn("candle cache read failed", applogger.String("key", key), applogger.Error(err))
		if derr := s.cache.Delete(ctx, key); derr != nil {
			s.l.Warn("candle cache evict failed", applogger.String("key", key), applogger.Error(derr))
		}
	}

	candles, err := s.next.GetCandles(ctx, symbol, interval, size)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, candles, s.ttl); err != nil {
		s.l.Warn("candle cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return candles, nil
}
