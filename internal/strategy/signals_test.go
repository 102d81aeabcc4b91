package strategy

import (
	"testing"

	"StockLens/internal/model"
)

func snapshot(rsi, ma50, support, resistance float64) model.TechnicalSnapshot {
	return model.TechnicalSnapshot{
		RSI:        model.Num(rsi),
		MA50:       model.Num(ma50),
		Support:    model.Num(support),
		Resistance: model.Num(resistance),
		Available:  true,
	}
}

func quoteAt(price float64) model.Quote {
	return model.Quote{CurrentPrice: model.Num(price)}
}

func find(sigs []model.Signal, kind model.SignalKind) *model.Signal {
	for i := range sigs {
		if sigs[i].Kind == kind {
			return &sigs[i]
		}
	}
	return nil
}

func TestEvaluate_Overbought(t *testing.T) {
	sigs := Evaluate(quoteAt(118), snapshot(78, 100, 90, 120))
	if len(sigs) != 3 {
		t.Fatalf("expected 3 signals, got %d", len(sigs))
	}
	if s := find(sigs, model.SignalRSI); s.Label != "超買 / Overbought" || s.Commentary != "RSI=78" {
		t.Errorf("unexpected RSI signal: %+v", s)
	}
	if s := find(sigs, model.SignalTrend); s.Label != "站上均線 / Above MA50" || s.Commentary != "偏離 MA50 +18.0%" {
		t.Errorf("unexpected trend signal: %+v", s)
	}
	if s := find(sigs, model.SignalPosition); s.Label != "接近壓力 / Near resistance" {
		t.Errorf("unexpected position signal: %+v", s)
	}
}

func TestEvaluate_Oversold(t *testing.T) {
	sigs := Evaluate(quoteAt(91), snapshot(25, 100, 90, 120))
	if s := find(sigs, model.SignalRSI); s == nil || s.Label != "超賣 / Oversold" {
		t.Errorf("expected oversold, got %+v", s)
	}
	if s := find(sigs, model.SignalTrend); s == nil || s.Label != "跌破均線 / Below MA50" {
		t.Errorf("expected below MA50, got %+v", s)
	}
	if s := find(sigs, model.SignalPosition); s == nil || s.Label != "接近支撐 / Near support" {
		t.Errorf("expected near support, got %+v", s)
	}
}

func TestEvaluate_RSIBoundaries(t *testing.T) {
	cases := []struct {
		rsi  float64
		want string
	}{
		{70, "超買 / Overbought"},
		{69.99, "中性 / Neutral"},
		{30.01, "中性 / Neutral"},
		{30, "超賣 / Oversold"},
	}
	for _, c := range cases {
		s := find(Evaluate(quoteAt(100), snapshot(c.rsi, 100, 90, 110)), model.SignalRSI)
		if s == nil || s.Label != c.want {
			t.Errorf("rsi %.2f: expected %q, got %+v", c.rsi, c.want, s)
		}
	}
}

func TestEvaluate_UnavailableInputs(t *testing.T) {
	if sigs := Evaluate(quoteAt(100), model.TechnicalSnapshot{}); sigs != nil {
		t.Errorf("expected no signals for empty snapshot, got %v", sigs)
	}

	snap := snapshot(50, 100, 90, 110)
	snap.MA50 = model.Unavailable()
	sigs := Evaluate(model.Quote{}, snap)
	if len(sigs) != 1 || sigs[0].Kind != model.SignalRSI {
		t.Errorf("expected only the RSI signal without a price, got %v", sigs)
	}

	flat := snapshot(50, 100, 100, 100)
	if s := find(Evaluate(quoteAt(100), flat), model.SignalPosition); s != nil {
		t.Errorf("expected no position signal for a flat range, got %+v", s)
	}
}
