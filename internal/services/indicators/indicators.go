package indicators

import domsvc "FxSignals/internal/domain/service"

// Provider exposes RSI and SMA as a domain IndicatorProvider.
type Provider struct{}

// NewProvider returns the default indicator provider.
func NewProvider() Provider { return Provider{} }

func (Provider) RSI(closes []float64, period int) []float64 { return RSI(closes, period) }

func (Provider) SMA(closes []float64, period int) []float64 { return SMA(closes, period) }

var _ domsvc.IndicatorProvider = Provider{}

// SMA computes the simple moving average series of closes.
// It returns len(closes)-period+1 values, or nil if insufficient data.
func SMA(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	out := make([]float64, 0, len(closes)-period+1)
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// RSI computes the Relative Strength Index with Wilder's smoothing.
// The first value is seeded from the simple average of the first period deltas,
// so the result has len(closes)-period values, or nil if insufficient data.
func RSI(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) <= period {
		return nil
	}
	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	p := float64(period)
	avgGain /= p
	avgLoss /= p

	out := make([]float64, 0, len(closes)-period)
	out = append(out, rsiValue(avgGain, avgLoss))
	for i := period + 1; i < len(closes); i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out = append(out, rsiValue(avgGain, avgLoss))
	}
	return out
}

// Last returns the final element of a series and whether it exists.
func Last(series []float64) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1], true
}

func split(delta float64) (gain, loss float64) {
	if delta > 0 {
		return delta, 0
	}
	return 0, -delta
}

// rsiValue is 100*gain/(gain+loss); a flat window yields 0.
func rsiValue(avgGain, avgLoss float64) float64 {
	total := avgGain + avgLoss
	if total == 0 {
		return 0
	}
	return 100 * avgGain / total
}
