package calculator

import "StockLens/internal/model"

const (
	macdFast = 12
	macdSlow = 26
)

// EMA returns the recursive exponential moving average of values with the given span.
// The first output equals the first input; no bias adjustment is applied.
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 || span <= 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// CalculateMACD returns EMA12 minus EMA26 of closes at the last bar.
func CalculateMACD(bars []model.OHLCV) (float64, error) {
	if len(bars) == 0 {
		return 0, ErrInsufficientData
	}
	closes := extractCloses(bars)
	fast := EMA(closes, macdFast)
	slow := EMA(closes, macdSlow)
	last := len(closes) - 1
	return fast[last] - slow[last], nil
}
