package model

// TechnicalSnapshot holds the indicators derived from one OHLCV series.
// Available is false when the series was empty.
type TechnicalSnapshot struct {
	MA50       Number `json:"ma50"`
	RSI        Number `json:"rsi"`
	MACD       Number `json:"macd"`
	Support    Number `json:"support"`
	Resistance Number `json:"resistance"`
	Volume     Number `json:"volume"`
	Available  bool   `json:"-"`
}
