package models

// Signal is the trade direction derived for a pair.
type Signal string

const (
	SignalCall    Signal = "Call (Buy)"
	SignalPut     Signal = "Put (Sell)"
	SignalNeutral Signal = "Neutral"
)

// SignalRecord is the per-pair result served to clients.
// Pair is the merge key across polling cycles; Confidence is the ranking key.
type SignalRecord struct {
	Time       string `json:"time"`
	TimeUTC    string `json:"timeUTC"`
	Pair       string `json:"pair"`
	Signal     Signal `json:"signal"`
	Reason     string `json:"reason"`
	Confidence int    `json:"confidence"`
}

// Candle represents one OHLC bucket as returned by a market data source.
// Time is kept as the provider's timestamp string.
type Candle struct {
	Time  string  `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Closes extracts closing prices in candle order.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
