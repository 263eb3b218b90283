package repository

import (
	"context"
	"errors"

	"FxSignals/internal/domain/models"
)

var (
	// ErrInsufficientData is returned when a source has fewer candles than required.
	ErrInsufficientData = errors.New("insufficient candle data")
	// ErrUpstream is returned when the market data provider reports a failure.
	ErrUpstream = errors.New("upstream market data error")
)

// MarketDataSource returns chronologically ascending candles for a symbol.
type MarketDataSource interface {
	GetCandles(ctx context.Context, symbol string, interval Interval, size int) ([]models.Candle, error)
}

// SignalPublisher fans a finished envelope out to downstream consumers.
type SignalPublisher interface {
	PublishSignals(ctx context.Context, env *models.ResponseEnvelope) error
	Close() error
}

// Metrics records pipeline observations.
type Metrics interface {
	RecordSkip(pair, reason string)
	RecordSignal(pair string, signal models.Signal, confidence int)
	RecordFetchLatency(source string, seconds float64)
	RecordRun(seconds float64, records int, err error)
	RecordPoll(result string)
}
