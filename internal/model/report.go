package model

import "time"

// Analysis is the narrative produced by the text-completion provider.
type Analysis struct {
	Recommendation string `json:"recommendation,omitempty"`
	Rationale      string `json:"rationale,omitempty"`
	Risk           string `json:"risk,omitempty"`
	Summary        string `json:"summary,omitempty"`
}

// TrendPoint is one close in the short price trend.
type TrendPoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// Report is the assembled result for one resolved symbol.
type Report struct {
	Input      string             `json:"input"`
	Symbol     string             `json:"symbol"`
	Company    CompanyProfile     `json:"company"`
	IndustryEN string             `json:"industry_en"`
	IndustryZH string             `json:"industry_zh"`
	Quote      Quote              `json:"quote"`
	Metrics    FundamentalMetrics `json:"metrics"`
	Technical  TechnicalSnapshot  `json:"technical"`
	Signals    []Signal           `json:"signals,omitempty"`
	News       []NewsItem         `json:"news"`
	Trend      []TrendPoint       `json:"trend,omitempty"`
	Analysis   *Analysis          `json:"analysis,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
}
