package model

// UnknownField is used for profile fields the providers did not supply.
const UnknownField = "Unknown"

// CompanyProfile is the minimal company description used to validate symbols.
type CompanyProfile struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Country  string `json:"country"`
}

// Valid reports whether the profile identifies a real listing.
func (p CompanyProfile) Valid() bool { return p.Name != "" }

// SearchResult is one hit from the primary provider's symbol search.
type SearchResult struct {
	Symbol      string
	Description string
	Type        string
}

// ChartMeta is the instrument metadata returned with a secondary-provider chart.
type ChartMeta struct {
	Symbol       string
	LongName     string
	ShortName    string
	ExchangeName string
	Currency     string
}
