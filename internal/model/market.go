package model

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// NotAvailable is the display form of a missing value.
const NotAvailable = "N/A"

// Number is a numeric value that may be explicitly unavailable.
// The zero value is unavailable.
type Number struct {
	Value float64
	Valid bool
}

// Num wraps v. NaN and infinities become unavailable.
func Num(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

// Unavailable returns the "N/A" sentinel.
func Unavailable() Number { return Number{} }

func (n Number) String() string {
	if !n.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*n = Number{}
		return nil
	}
	*n = Num(v)
	return nil
}

// Quote is the normalized live quote. Every field is always present.
type Quote struct {
	CurrentPrice  Number `json:"current_price"`
	Open          Number `json:"open"`
	High          Number `json:"high"`
	Low           Number `json:"low"`
	PreviousClose Number `json:"previous_close"`
	DailyChange   Number `json:"daily_change"`
	Volume        Number `json:"volume"`
}

// QuoteField is one named quote entry in display order.
type QuoteField struct {
	Key   string
	Value Number
}

// QuoteKeys lists the normalized quote keys in display order.
var QuoteKeys = []string{"current_price", "open", "high", "low", "previous_close", "daily_change", "volume"}

// Fields returns all seven quote entries in QuoteKeys order.
func (q Quote) Fields() []QuoteField {
	return []QuoteField{
		{"current_price", q.CurrentPrice},
		{"open", q.Open},
		{"high", q.High},
		{"low", q.Low},
		{"previous_close", q.PreviousClose},
		{"daily_change", q.DailyChange},
		{"volume", q.Volume},
	}
}

// QuoteLabels holds bilingual display labels per quote key.
var QuoteLabels = map[string][2]string{
	"current_price":  {"即時股價", "Current Price"},
	"open":           {"開盤價", "Open"},
	"high":           {"最高價", "High"},
	"low":            {"最低價", "Low"},
	"previous_close": {"前收盤價", "Previous Close"},
	"daily_change":   {"漲跌幅(%)", "Change Percent"},
	"volume":         {"交易量", "Volume"},
}

// Round returns n rounded half away from zero to places decimals.
func (n Number) Round(places int32) Number {
	if !n.Valid {
		return n
	}
	return Num(Round(n.Value, places))
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
