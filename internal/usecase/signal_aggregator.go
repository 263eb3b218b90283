package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"FxSignals/internal/domain/models"
	domrepo "FxSignals/internal/domain/repository"
	domsvc "FxSignals/internal/domain/service"
	"FxSignals/internal/services/indicators"
	xlogger "FxSignals/pkg/logger"
	"FxSignals/pkg/metrics"
	"FxSignals/pkg/util"

	"github.com/oklog/ulid/v2"
)

// ErrAggregation marks a batch failure; no partial result accompanies it.
var ErrAggregation = errors.New("signal aggregation failed")

const (
	SkipFetchFailed        = "fetch_failed"
	SkipInsufficientCandle = "insufficient_candles"
	SkipIndicatorUnderflow = "indicator_underflow"
)

// AggregatorConfig holds the pair list and indicator parameters for a run.
type AggregatorConfig struct {
	Pairs        []string
	Interval     domrepo.Interval
	OutputSize   int
	MinCandles   int
	RSIPeriod    int
	SMAFast      int
	SMASlow      int
	FetchTimeout time.Duration
	Location     *time.Location
	SourceName   string
}

func (c *AggregatorConfig) setDefaults() {
	if c.Interval == "" {
		c.Interval = domrepo.DefaultInterval()
	}
	if c.OutputSize <= 0 {
		c.OutputSize = 100
	}
	if c.MinCandles <= 0 {
		c.MinCandles = 50
	}
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = 14
	}
	if c.SMAFast <= 0 {
		c.SMAFast = 20
	}
	if c.SMASlow <= 0 {
		c.SMASlow = 50
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	if c.SourceName == "" {
		c.SourceName = "source"
	}
}

// AggregatorOption configures SignalAggregator.
type AggregatorOption func(*SignalAggregator)

// WithPublisher hands every successful envelope to p.
func WithPublisher(p domrepo.SignalPublisher) AggregatorOption {
	return func(a *SignalAggregator) { a.publisher = p }
}

// WithClock overrides the wall clock used for generatedAt.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *SignalAggregator) { a.now = now }
}

// SignalAggregator fans out over the configured pairs and ranks the derived signals.
type SignalAggregator struct {
	cfg       AggregatorConfig
	source    domrepo.MarketDataSource
	ind       domsvc.IndicatorProvider
	deriver   *SignalDeriver
	metrics   domrepo.Metrics
	publisher domrepo.SignalPublisher
	logger    *xlogger.Logger
	now       func() time.Time
}

// NewSignalAggregator builds an aggregator; nil m or logger discard their output.
func NewSignalAggregator(cfg AggregatorConfig, source domrepo.MarketDataSource, ind domsvc.IndicatorProvider, m domrepo.Metrics, logger *xlogger.Logger, opts ...AggregatorOption) *SignalAggregator {
	cfg.setDefaults()
	if m == nil {
		m = metrics.Nop{}
	}
	if logger == nil {
		logger = xlogger.Nop()
	}
	a := &SignalAggregator{
		cfg:     cfg,
		source:  source,
		ind:     ind,
		deriver: NewSignalDeriver(cfg.Location),
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// pairResult is the outcome of one pair: a record, a skip reason, or a fault.
type pairResult struct {
	record *models.SignalRecord
	skip   string
	err    error
}

// Aggregate computes one envelope over all configured pairs.
func (a *SignalAggregator) Aggregate(ctx context.Context) (*models.ResponseEnvelope, error) {
	start := time.Now()
	log := a.logger.With(xlogger.String("run_id", ulid.Make().String()))

	results := make([]pairResult, len(a.cfg.Pairs))
	var wg sync.WaitGroup
	for i, pair := range a.cfg.Pairs {
		wg.Add(1)
		go func(i int, pair string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = pairResult{err: fmt.Errorf("pair %s: panic: %v", pair, r)}
				}
			}()
			results[i] = a.processPair(ctx, pair, log)
		}(i, pair)
	}
	wg.Wait()

	env, err := a.collect(ctx, results, log)
	a.metrics.RecordRun(time.Since(start).Seconds(), recordCount(env), err)
	if err != nil {
		log.Error("aggregation failed", xlogger.Error(err), xlogger.Duration("duration_ms", time.Since(start)))
		return nil, err
	}

	log.Info("aggregation complete",
		xlogger.Int("pairs", len(a.cfg.Pairs)),
		xlogger.Int("records", len(env.Data)),
		xlogger.Duration("duration_ms", time.Since(start)),
	)
	a.publish(ctx, env, log)
	return env, nil
}

func (a *SignalAggregator) collect(ctx context.Context, results []pairResult, log *xlogger.Logger) (*models.ResponseEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAggregation, err)
	}

	records := make([]models.SignalRecord, 0, len(results))
	for i, r := range results {
		pair := a.cfg.Pairs[i]
		switch {
		case r.err != nil:
			return nil, fmt.Errorf("%w: %w", ErrAggregation, r.err)
		case r.record != nil:
			a.metrics.RecordSignal(pair, r.record.Signal, r.record.Confidence)
			records = append(records, *r.record)
		default:
			a.metrics.RecordSkip(pair, r.skip)
			log.Warn("pair skipped", xlogger.String("pair", pair), xlogger.String("reason", r.skip))
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Confidence > records[j].Confidence
	})

	return &models.ResponseEnvelope{
		TimeZone:    a.cfg.Location.String(),
		GeneratedAt: util.ISOMillis(a.now()),
		Data:        records,
	}, nil
}

func (a *SignalAggregator) processPair(ctx context.Context, pair string, log *xlogger.Logger) pairResult {
	fctx, cancel := context.WithTimeout(ctx, a.cfg.FetchTimeout)
	defer cancel()

	fetchStart := time.Now()
	candles, err := a.source.GetCandles(fctx, pair, a.cfg.Interval, a.cfg.OutputSize)
	a.metrics.RecordFetchLatency(a.cfg.SourceName, time.Since(fetchStart).Seconds())
	if err != nil {
		if errors.Is(err, domrepo.ErrInsufficientData) {
			return pairResult{skip: SkipInsufficientCandle}
		}
		log.Debug("candle fetch failed", xlogger.String("pair", pair), xlogger.Error(err))
		return pairResult{skip: SkipFetchFailed}
	}
	if len(candles) < a.cfg.MinCandles {
		return pairResult{skip: SkipInsufficientCandle}
	}

	closes := models.Closes(candles)
	rsi, ok1 := indicators.Last(a.ind.RSI(closes, a.cfg.RSIPeriod))
	fast, ok2 := indicators.Last(a.ind.SMA(closes, a.cfg.SMAFast))
	slow, ok3 := indicators.Last(a.ind.SMA(closes, a.cfg.SMASlow))
	if !ok1 || !ok2 || !ok3 {
		return pairResult{skip: SkipIndicatorUnderflow}
	}

	rec := a.deriver.Derive(pair, rsi, fast, slow, candles[len(candles)-1].Time)
	return pairResult{record: &rec}
}

func (a *SignalAggregator) publish(ctx context.Context, env *models.ResponseEnvelope, log *xlogger.Logger) {
	if a.publisher == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.FetchTimeout)
	defer cancel()
	if err := a.publisher.PublishSignals(pctx, env); err != nil {
		log.Warn("publish signals failed", xlogger.Error(err))
	}
}

func recordCount(env *models.ResponseEnvelope) int {
	if env == nil {
		return 0
	}
	return len(env.Data)
}
