package repository

import (
	"testing"

	domrepo "FxSignals/internal/domain/repository"
	pkgch "FxSignals/pkg/clickhouse"
	applogger "FxSignals/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCHCandleSourceTables(t *testing.T) {
	src, err := NewCHCandleSource(&pkgch.Client{}, "fxsignals", "candles_", 50, applogger.Nop())
	require.NoError(t, err)

	table, err := src.tableFor(domrepo.Interval5m)
	require.NoError(t, err)
	assert.Equal(t, "`fxsignals`.`candles_5min`", table)

	_, err = src.tableFor(domrepo.Interval("2min"))
	assert.Error(t, err)

	stmts, err := src.Schema(domrepo.Interval5m, domrepo.Interval1h)
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS `fxsignals`", stmts[0])
	assert.Contains(t, stmts[1], "`fxsignals`.`candles_5min`")
	assert.Contains(t, stmts[2], "`fxsignals`.`candles_1h`")
}

func TestCHCandleSourceRejectsBadIdentifiers(t *testing.T) {
	_, err := NewCHCandleSource(&pkgch.Client{}, "fx; DROP", "candles_", 50, applogger.Nop())
	assert.Error(t, err)

	_, err = NewCHCandleSource(&pkgch.Client{}, "fxsignals", "c-", 50, applogger.Nop())
	assert.Error(t, err)
}
