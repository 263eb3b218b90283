package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"FxSignals/internal/domain/models"
	domrepo "FxSignals/internal/domain/repository"
	pkgch "FxSignals/pkg/clickhouse"
	applogger "FxSignals/pkg/logger"
)

const candleTimeLayout = "2006-01-02 15:04:05"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CHCandleSource implements MarketDataSource backed by ClickHouse candle tables,
// one table per interval named <prefix><interval>.
type CHCandleSource struct {
	db         *sql.DB
	database   string
	prefix     string
	minCandles int
	l          *applogger.Logger
}

func NewCHCandleSource(ch *pkgch.Client, database, prefix string, minCandles int, l *applogger.Logger) (*CHCandleSource, error) {
	if !identRe.MatchString(database) {
		return nil, fmt.Errorf("invalid clickhouse database %q", database)
	}
	if prefix != "" && !identRe.MatchString(prefix) {
		return nil, fmt.Errorf("invalid clickhouse table prefix %q", prefix)
	}
	return &CHCandleSource{db: ch.DB(), database: database, prefix: prefix, minCandles: minCandles, l: l}, nil
}

// GetCandles returns the latest size candles for symbol, oldest first.
func (s *CHCandleSource) GetCandles(ctx context.Context, symbol string, interval domrepo.Interval, size int) ([]models.Candle, error) {
	start := time.Now()
	table, err := s.tableFor(interval)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT bucket, open, high, low, close
        FROM %s
        WHERE symbol = ?
        ORDER BY bucket DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(qtpl, table), symbol, size)
	if err != nil {
		s.l.Error("clickhouse latest_candles query error",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get latest candles: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Candle, 0, size)
	for rows.Next() {
		var (
			bucket time.Time
			c      models.Candle
		)
		if err := rows.Scan(&bucket, &c.Open, &c.High, &c.Low, &c.Close); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Time = bucket.UTC().Format(candleTimeLayout)
		tmp = append(tmp, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	reverse(tmp)

	s.l.Debug("clickhouse latest_candles ok",
		applogger.String("table", table),
		applogger.String("symbol", symbol),
		applogger.Int("rows", len(tmp)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	if len(tmp) < s.minCandles {
		return nil, fmt.Errorf("%w: %s: %d of %d rows", domrepo.ErrInsufficientData, symbol, len(tmp), s.minCandles)
	}
	return tmp, nil
}

// Schema returns idempotent DDL for the candle tables of the given intervals.
func (s *CHCandleSource) Schema(intervals ...domrepo.Interval) ([]string, error) {
	stmts := []string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", s.database)}
	for _, iv := range intervals {
		table, err := s.tableFor(iv)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    symbol LowCardinality(String),
    bucket DateTime('UTC'),
    open Float64,
    high Float64,
    low Float64,
    close Float64
) ENGINE = ReplacingMergeTree
ORDER BY (symbol, bucket)`, table))
	}
	return stmts, nil
}

func (s *CHCandleSource) tableFor(iv domrepo.Interval) (string, error) {
	if !domrepo.IsValidInterval(iv) {
		return "", fmt.Errorf("unsupported interval: %s", iv)
	}
	return fmt.Sprintf("`%s`.`%s%s`", s.database, s.prefix, iv), nil
}

func reverse(cs []models.Candle) {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
}
