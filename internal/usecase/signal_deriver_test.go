package usecase

import (
	"testing"
	"time"

	"FxSignals/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalDeriverRules(t *testing.T) {
	d := NewSignalDeriver(time.UTC)

	tests := []struct {
		name       string
		rsi        float64
		fast, slow float64
		signal     models.Signal
		confidence int
		reason     string
	}{
		{"overbought uptrend", 75, 1.10, 1.05, models.SignalCall, 80, "RSI > 70, SMA20 > SMA50"},
		{"overbought downtrend", 75, 1.00, 1.05, models.SignalPut, 70, "RSI > 70, SMA20 < SMA50"},
		{"overbought flat", 80, 1.05, 1.05, models.SignalPut, 65, "RSI > 70"},
		{"oversold uptrend", 25, 1.10, 1.05, models.SignalCall, 80, "RSI < 30, SMA20 > SMA50"},
		{"oversold downtrend keeps higher confidence", 25, 1.00, 1.05, models.SignalPut, 75, "RSI < 30, SMA20 < SMA50"},
		{"oversold flat", 10, 2, 2, models.SignalCall, 75, "RSI < 30"},
		{"neutral uptrend", 50, 151.2, 150.9, models.SignalCall, 80, "SMA20 > SMA50"},
		{"neutral downtrend", 50, 0.6, 0.7, models.SignalPut, 70, "SMA20 < SMA50"},
		{"neutral flat", 50, 1, 1, models.SignalNeutral, 0, ""},
		{"boundary 70 is not overbought", 70, 1, 1, models.SignalNeutral, 0, ""},
		{"boundary 30 is not oversold", 30, 1, 1, models.SignalNeutral, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := d.Derive("EUR/USD", tt.rsi, tt.fast, tt.slow, "2024-05-01 12:00:00")
			assert.Equal(t, tt.signal, rec.Signal)
			assert.Equal(t, tt.confidence, rec.Confidence)
			assert.Equal(t, tt.reason, rec.Reason)
			assert.Equal(t, "EUR/USD", rec.Pair)
		})
	}
}

func TestSignalDeriverConfidenceBounds(t *testing.T) {
	d := NewSignalDeriver(nil)
	for _, rsi := range []float64{0, 29.9, 30, 50, 70, 70.1, 100} {
		for _, trend := range [][2]float64{{1, 2}, {2, 1}, {1, 1}} {
			rec := d.Derive("X", rsi, trend[0], trend[1], "")
			assert.GreaterOrEqual(t, rec.Confidence, 0)
			assert.LessOrEqual(t, rec.Confidence, 100)
			if rec.Signal == models.SignalNeutral {
				assert.Zero(t, rec.Confidence)
				assert.Empty(t, rec.Reason)
			}
		}
	}
}

func TestSignalDeriverTime(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	rec := NewSignalDeriver(loc).Derive("USD/JPY", 50, 1, 1, "2024-05-01 18:05:00")
	assert.Equal(t, "2024-05-01 18:05:00", rec.TimeUTC)
	assert.Equal(t, "5/1/2024, 2:05:00 PM", rec.Time)

	rec = NewSignalDeriver(time.UTC).Derive("USD/JPY", 50, 1, 1, "not a time")
	assert.Equal(t, "not a time", rec.Time)
	assert.Equal(t, "not a time", rec.TimeUTC)
}
