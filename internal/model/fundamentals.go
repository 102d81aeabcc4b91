package model

import (
	"encoding/json"
	"math"
)

// MetricValue is either a number or text (a formatted percentage or a raw provider value).
type MetricValue struct {
	Num    float64
	Text   string
	IsText bool
}

func NumericMetric(v float64) MetricValue { return MetricValue{Num: v} }

func TextMetric(s string) MetricValue { return MetricValue{Text: s, IsText: true} }

func (m MetricValue) MarshalJSON() ([]byte, error) {
	if m.IsText {
		return json.Marshal(m.Text)
	}
	if math.IsNaN(m.Num) || math.IsInf(m.Num, 0) {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(m.Num)
}

// FundamentalMetrics maps normalized metric keys to their values.
type FundamentalMetrics map[string]MetricValue

// MetricLabels holds bilingual display labels per normalized metric key.
var MetricLabels = map[string]string{
	"pe_ratio":         "本益比 (PE TTM)",
	"pb_ratio":         "股價淨值比 (PB)",
	"roe_ttm":          "股東權益報酬率 (ROE TTM)",
	"roa_ttm":          "資產報酬率 (ROA TTM)",
	"gross_margin_ttm": "毛利率 (Gross Margin TTM)",
	"revenue_growth":   "營收成長率 (YoY)",
	"eps_growth":       "每股盈餘成長率 (EPS Growth YoY)",
	"debt_to_equity":   "負債權益比 (Debt to Equity Annual)",
}
