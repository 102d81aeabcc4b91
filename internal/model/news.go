package model

// NewsItem is one normalized news entry.
type NewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Datetime string `json:"datetime"`
	Source   string `json:"source"`
	URL      string `json:"url"`
}
