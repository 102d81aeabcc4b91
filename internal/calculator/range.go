package calculator

import (
	"math"

	"StockLens/internal/model"
)

// SupportResistanceWindow is the number of trailing bars scanned for support and resistance.
const SupportResistanceWindow = 20

// CalculateSupportResistance returns the lowest low (support) and highest high (resistance)
// over the trailing window bars. Fewer than window bars is insufficient.
func CalculateSupportResistance(bars []model.OHLCV, window int) (support, resistance float64, err error) {
	if window <= 0 || len(bars) < window {
		return 0, 0, ErrInsufficientData
	}
	support = math.Inf(1)
	resistance = math.Inf(-1)
	for i := len(bars) - window; i < len(bars); i++ {
		if bars[i].Low < support {
			support = bars[i].Low
		}
		if bars[i].High > resistance {
			resistance = bars[i].High
		}
	}
	return support, resistance, nil
}

// RangePosition returns where price sits between support and resistance (0.0~1.0).
func RangePosition(price, support, resistance float64) (float64, bool) {
	if resistance <= support {
		return 0, false
	}
	pos := (price - support) / (resistance - support)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, true
}
