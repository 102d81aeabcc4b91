package resolver

// DefaultMappings are well-known aliases resolved without a search.
var DefaultMappings = map[string]string{
	"台積電":                                "2330.TW",
	"TSMC":                               "2330.TW",
	"台灣積體電路製造":                           "2330.TW",
	"Taiwan Semiconductor Manufacturing": "2330.TW",
}

// Suffixes are the recognized exchange suffixes in probe order.
var Suffixes = []string{".TW", ".TWO"}

// AnchorSymbol is the instrument whose names are matched as a last resort.
const AnchorSymbol = "2330.TW"

func hasKnownSuffix(symbol string) (string, bool) {
	for _, suf := range Suffixes {
		if len(symbol) > len(suf) && symbol[len(symbol)-len(suf):] == suf {
			return suf, true
		}
	}
	return "", false
}
