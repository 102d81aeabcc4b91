package calculator

import "StockLens/internal/model"

const rsiPeriod = 14

// Snapshot derives the technical indicators from a daily series ordered by time.
// An empty series yields an unavailable snapshot. Each indicator degrades to
// unavailable on its own when the series is too short for it.
func Snapshot(bars []model.OHLCV) model.TechnicalSnapshot {
	if len(bars) == 0 {
		return model.TechnicalSnapshot{}
	}

	snap := model.TechnicalSnapshot{Available: true}

	if ma, err := CalculateMA50(bars); err == nil {
		snap.MA50 = model.Num(ma).Round(2)
	}
	if rsi, err := CalculateRSI(bars, rsiPeriod); err == nil {
		snap.RSI = model.Num(rsi).Round(2)
	}
	if macd, err := CalculateMACD(bars); err == nil {
		snap.MACD = model.Num(macd).Round(2)
	}
	if s, r, err := CalculateSupportResistance(bars, SupportResistanceWindow); err == nil {
		snap.Support = model.Num(s).Round(2)
		snap.Resistance = model.Num(r).Round(2)
	}
	snap.Volume = model.Num(bars[len(bars)-1].Volume)

	return snap
}
