package service

// IndicatorProvider computes indicator series from closing prices.
// Implementations are pure: same input, same output, no shared state.
type IndicatorProvider interface {
	RSI(closes []float64, period int) []float64
	SMA(closes []float64, period int) []float64
}
