package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"FxSignals/internal/domain/models"
	domrepo "FxSignals/internal/domain/repository"
	"FxSignals/pkg/cache"
	applogger "FxSignals/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingSource) GetCandles(_ context.Context, symbol string, _ domrepo.Interval, size int) ([]models.Candle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := make([]models.Candle, size)
	for i := range out {
		out[i] = models.Candle{Time: symbol, Close: float64(i)}
	}
	return out, nil
}

func TestCachedSourceServesRepeatFetchesFromCache(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()
	next := &countingSource{}
	src := NewCachedSource(next, mc, time.Minute, applogger.Nop())

	a, err := src.GetCandles(ctx, "EUR/USD", domrepo.Interval5m, 3)
	require.NoError(t, err)
	b, err := src.GetCandles(ctx, "EUR/USD", domrepo.Interval5m, 3)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 1, next.calls)

	_, err = src.GetCandles(ctx, "USD/JPY", domrepo.Interval5m, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()
	next := &countingSource{err: domrepo.ErrUpstream}
	src := NewCachedSource(next, mc, time.Minute, applogger.Nop())

	_, err := src.GetCandles(ctx, "EUR/USD", domrepo.Interval5m, 3)
	assert.ErrorIs(t, err, domrepo.ErrUpstream)
	_, err = src.GetCandles(ctx, "EUR/USD", domrepo.Interval5m, 3)
	assert.ErrorIs(t, err, domrepo.ErrUpstream)
	assert.Equal(t, 2, next.calls)
}

func TestCachedSourceDropsUndecodableEntry(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	defer mc.Close()
	key := cache.GenerateKeyWithParams("candles", "EUR/USD", domrepo.Interval5m, 3)
	require.NoError(t, mc.Set(ctx, key, "not candles", time.Minute))

	next := &countingSource{err: domrepo.ErrUpstream}
	src := NewCachedSource(next, mc, time.Minute, applogger.Nop())

	_, err := src.GetCandles(ctx, "EUR/USD", domrepo.Interval5m, 3)
	assert.ErrorIs(t, err, domrepo.ErrUpstream)
	assert.Equal(t, 0, mc.Len())

	next.err = nil
	candles, err := src.GetCandles(ctx, "EUR/USD", domrepo.Interval5m, 3)
	require.NoError(t, err)
	assert.Len(t, candles, 3)
	assert.Equal(t, 2, next.calls)
}

type recordingProducer struct {
	topic  string
	key    string
	value  interface{}
	err    error
	closed bool
}

func (r *recordingProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	r.topic, r.key, r.value = topic, string(key), value
	return r.err
}

func (r *recordingProducer) Close() error {
	r.closed = true
	return nil
}

func TestKafkaSignalPublisher(t *testing.T) {
	prod := &recordingProducer{}
	pub := NewKafkaSignalPublisher(prod, "fx.signals")
	env := &models.ResponseEnvelope{TimeZone: "UTC", Data: []models.SignalRecord{}}

	require.NoError(t, pub.PublishSignals(context.Background(), env))
	assert.Equal(t, "fx.signals", prod.topic)
	assert.Equal(t, "signals", prod.key)
	assert.Same(t, env, prod.value)

	prod.err = errors.New("no leader")
	err := pub.PublishSignals(context.Background(), env)
	assert.ErrorContains(t, err, "fx.signals")

	require.NoError(t, pub.Close())
	assert.True(t, prod.closed)
}
