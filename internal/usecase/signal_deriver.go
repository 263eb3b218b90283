package usecase

import (
	"strings"
	"time"

	"FxSignals/internal/domain/models"
	"FxSignals/pkg/util"
)

const (
	rsiOverbought = 70
	rsiOversold   = 30

	overboughtConfidence = 65
	oversoldConfidence   = 75
	uptrendConfidence    = 80
	downtrendConfidence  = 70

	reasonOverbought = "RSI > 70"
	reasonOversold   = "RSI < 30"
	reasonUptrend    = "SMA20 > SMA50"
	reasonDowntrend  = "SMA20 < SMA50"
)

// SignalDeriver turns the latest indicator values of a pair into a SignalRecord.
type SignalDeriver struct {
	loc *time.Location
}

// NewSignalDeriver renders record times in loc (UTC when nil).
func NewSignalDeriver(loc *time.Location) *SignalDeriver {
	if loc == nil {
		loc = time.UTC
	}
	return &SignalDeriver{loc: loc}
}

// Derive applies the momentum rules first and the trend rules second.
// Momentum assigns confidence outright; trend overrides the direction but only raises confidence.
func (d *SignalDeriver) Derive(pair string, rsi, smaFast, smaSlow float64, candleTimeUTC string) models.SignalRecord {
	signal := models.SignalNeutral
	confidence := 0
	var reasons []string

	if rsi > rsiOverbought {
		signal = models.SignalPut
		reasons = append(reasons, reasonOverbought)
		confidence = overboughtConfidence
	} else if rsi < rsiOversold {
		signal = models.SignalCall
		reasons = append(reasons, reasonOversold)
		confidence = oversoldConfidence
	}

	if smaFast > smaSlow {
		signal = models.SignalCall
		reasons = append(reasons, reasonUptrend)
		confidence = max(confidence, uptrendConfidence)
	} else if smaFast < smaSlow {
		signal = models.SignalPut
		reasons = append(reasons, reasonDowntrend)
		confidence = max(confidence, downtrendConfidence)
	}

	return models.SignalRecord{
		Time:       d.displayTime(candleTimeUTC),
		TimeUTC:    candleTimeUTC,
		Pair:       pair,
		Signal:     signal,
		Reason:     strings.Join(reasons, ", "),
		Confidence: confidence,
	}
}

func (d *SignalDeriver) displayTime(raw string) string {
	t, ok := util.ParseTime(raw)
	if !ok {
		return raw
	}
	return util.FormatIn(t, d.loc, util.LayoutEnUS)
}
