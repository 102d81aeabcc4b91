package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// ErrInsufficientData is returned when a series is too short for an indicator.
var ErrInsufficientData = errors.New("not enough data")

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateMA50 returns the 50-bar simple moving average of closes.
func CalculateMA50(bars []model.OHLCV) (float64, error) {
	return CalculateSMA(extractCloses(bars), 50)
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
