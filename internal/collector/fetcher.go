package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"StockLens/internal/model"
)

// Fetcher defines the interface for the secondary (historical) data provider.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	ChartMeta(ctx context.Context, symbol string) (model.ChartMeta, error)
	Name() string
}

// PrimarySource is the quote/fundamentals/news/profile/search provider.
// Methods never fail: an unreachable provider yields empty results.
type PrimarySource interface {
	Quote(ctx context.Context, symbol string) gjson.Result
	Metrics(ctx context.Context, symbol string) gjson.Result
	Profile(ctx context.Context, symbol string) model.CompanyProfile
	Search(ctx context.Context, query string) []model.SearchResult
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) gjson.Result
	Name() string
}

func newTransport(proxyURL string) *http.Transport {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return transport
}
