// Package fundamentals normalizes raw quote and metric payloads into the report schema.
package fundamentals

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"StockLens/internal/model"
)

const quotePlaces = 4

// quoteCodes maps provider short codes to normalized quote keys. Volume is not
// carried by the live quote; it comes from the technical snapshot.
var quoteCodes = []struct {
	code string
	set  func(*model.Quote, model.Number)
}{
	{"c", func(q *model.Quote, n model.Number) { q.CurrentPrice = n }},
	{"o", func(q *model.Quote, n model.Number) { q.Open = n }},
	{"h", func(q *model.Quote, n model.Number) { q.High = n }},
	{"l", func(q *model.Quote, n model.Number) { q.Low = n }},
	{"pc", func(q *model.Quote, n model.Number) { q.PreviousClose = n }},
	{"dp", func(q *model.Quote, n model.Number) { q.DailyChange = n }},
}

// NormalizeQuote maps a raw quote object to a Quote rounded to 4 decimals.
// Missing or non-numeric fields are unavailable; volume is always unavailable.
func NormalizeQuote(raw gjson.Result) model.Quote {
	var q model.Quote
	for _, f := range quoteCodes {
		v := raw.Get(f.code)
		if v.Type != gjson.Number {
			f.set(&q, model.Unavailable())
			continue
		}
		f.set(&q, model.Num(v.Float()).Round(quotePlaces))
	}
	q.Volume = model.Unavailable()
	return q
}

// MetricKeys maps provider metric names to normalized keys, in report order.
var MetricKeys = []struct {
	Provider   string
	Normalized string
}{
	{"peTTM", "pe_ratio"},
	{"pb", "pb_ratio"},
	{"roeTTM", "roe_ttm"},
	{"roaTTM", "roa_ttm"},
	{"grossMarginTTM", "gross_margin_ttm"},
	{"revenueGrowthTTMYoy", "revenue_growth"},
	{"epsGrowthTTMYoy", "eps_growth"},
	{"debtToEquityAnnual", "debt_to_equity"},
}

// IsPercentMetric reports whether a normalized metric renders as a percentage.
func IsPercentMetric(key string) bool {
	for _, frag := range []string{"growth", "margin", "roe", "roa"} {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

// FilterMetrics picks the eight tracked metrics out of the provider's metric object.
// Absent or null metrics are skipped. Growth, margin and return metrics become
// "12.34%" strings, ratios are rounded to 4 decimals, and values that do not parse
// as numbers keep their raw text.
func FilterMetrics(raw gjson.Result) model.FundamentalMetrics {
	out := model.FundamentalMetrics{}
	if !raw.IsObject() {
		return out
	}
	for _, k := range MetricKeys {
		v := raw.Get(k.Provider)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		f, ok := parseNumber(v)
		if !ok {
			out[k.Normalized] = model.TextMetric(rawText(v))
			continue
		}
		if IsPercentMetric(k.Normalized) {
			out[k.Normalized] = model.TextMetric(fmt.Sprintf("%.2f%%", f))
		} else {
			out[k.Normalized] = model.NumericMetric(model.Round(f, quotePlaces))
		}
	}
	return out
}

// parseNumber reports false for non-finite values such as "NaN" or 1e400.
func parseNumber(v gjson.Result) (float64, bool) {
	f, ok := parseRaw(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseRaw(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case gjson.True:
		return 1, true
	case gjson.False:
		return 0, true
	}
	return 0, false
}

func rawText(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}
