package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// CalculateRSI computes RSI from simple rolling means of the last `period` gains and losses.
// Fewer changes than period are averaged as available; at least two bars are required.
// When the average loss is zero the RSI is 100.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < 2 {
		return 0, ErrInsufficientData
	}

	closes := extractCloses(bars)
	start := len(closes) - period
	if start < 1 {
		start = 1
	}

	var gain, loss float64
	for i := start; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	n := float64(len(closes) - start)
	avgGain := gain / n
	avgLoss := loss / n

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
