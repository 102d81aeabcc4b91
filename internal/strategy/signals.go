// Package strategy interprets a technical snapshot as readable signals.
package strategy

import (
	"fmt"

	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

const (
	rsiOverbought = 70
	rsiOversold   = 30
)

// Evaluate derives the RSI zone, MA50 trend and range position signals.
// Signals whose inputs are unavailable are omitted.
func Evaluate(q model.Quote, snap model.TechnicalSnapshot) []model.Signal {
	if !snap.Available {
		return nil
	}
	var out []model.Signal
	if s, ok := rsiSignal(snap); ok {
		out = append(out, s)
	}
	if s, ok := trendSignal(q, snap); ok {
		out = append(out, s)
	}
	if s, ok := positionSignal(q, snap); ok {
		out = append(out, s)
	}
	return out
}

func rsiSignal(snap model.TechnicalSnapshot) (model.Signal, bool) {
	if !snap.RSI.Valid {
		return model.Signal{}, false
	}
	rsi := snap.RSI.Value
	var label string
	switch {
	case rsi >= rsiOverbought:
		label = "超買 / Overbought"
	case rsi <= rsiOversold:
		label = "超賣 / Oversold"
	default:
		label = "中性 / Neutral"
	}
	return model.Signal{
		Kind:       model.SignalRSI,
		Label:      label,
		Commentary: fmt.Sprintf("RSI=%.0f", rsi),
	}, true
}

func trendSignal(q model.Quote, snap model.TechnicalSnapshot) (model.Signal, bool) {
	if !q.CurrentPrice.Valid || !snap.MA50.Valid || snap.MA50.Value == 0 {
		return model.Signal{}, false
	}
	deviation := (q.CurrentPrice.Value - snap.MA50.Value) / snap.MA50.Value * 100

	label := "站上均線 / Above MA50"
	if deviation < 0 {
		label = "跌破均線 / Below MA50"
	}
	return model.Signal{
		Kind:       model.SignalTrend,
		Label:      label,
		Commentary: fmt.Sprintf("偏離 MA50 %+.1f%%", deviation),
	}, true
}

func positionSignal(q model.Quote, snap model.TechnicalSnapshot) (model.Signal, bool) {
	if !q.CurrentPrice.Valid || !snap.Support.Valid || !snap.Resistance.Valid {
		return model.Signal{}, false
	}
	pos, ok := calculator.RangePosition(q.CurrentPrice.Value, snap.Support.Value, snap.Resistance.Value)
	if !ok {
		return model.Signal{}, false
	}

	var label string
	switch {
	case pos <= 0.2:
		label = "接近支撐 / Near support"
	case pos >= 0.8:
		label = "接近壓力 / Near resistance"
	default:
		label = "區間中段 / Mid-range"
	}
	return model.Signal{
		Kind:       model.SignalPosition,
		Label:      label,
		Commentary: fmt.Sprintf("位於 20 日區間 %.0f%%", pos*100),
	}, true
}
