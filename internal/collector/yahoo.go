package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"StockLens/internal/logging"
	"StockLens/internal/model"
	"StockLens/internal/retry"
)

const DefaultYahooURL = "https://query1.finance.yahoo.com"

// ErrNoData is returned when the provider answered but carried no usable bars.
var ErrNoData = errors.New("no data returned")

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
	Retry   retry.Policy
	Log     *zap.Logger
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string, policy retry.Policy, log *zap.Logger) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	return &YahooFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: newTransport(proxyURL),
		},
		Retry: policy,
		Log:   logging.OrNop(log),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol       string `json:"symbol"`
				LongName     string `json:"longName"`
				ShortName    string `json:"shortName"`
				ExchangeName string `json:"exchangeName"`
				Currency     string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(vals []interface{}, i int) float64 {
	if i < len(vals) {
		return toFloat(vals[i])
	}
	return 0
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.OHLCV, model.ChartMeta, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, model.ChartMeta{}, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, model.ChartMeta{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.ChartMeta{}, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, model.ChartMeta{}, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
		}
		return nil, model.ChartMeta{}, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, model.ChartMeta{}, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, model.ChartMeta{}, fmt.Errorf("yahoo: status %d", resp.StatusCode)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, model.ChartMeta{}, ErrNoData
	}

	result := chart.Chart.Result[0]
	meta := model.ChartMeta{
		Symbol:       result.Meta.Symbol,
		LongName:     result.Meta.LongName,
		ShortName:    result.Meta.ShortName,
		ExchangeName: result.Meta.ExchangeName,
		Currency:     result.Meta.Currency,
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, meta, nil
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, meta, nil
}

// FetchDailyBars downloads daily bars covering the trailing days, retrying while
// the download fails or comes back empty.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 366 {
		rng = "1y"
	}

	var bars []model.OHLCV
	err := retry.Do(ctx, f.Retry, f.Log, "yahoo history "+symbol, func(ctx context.Context) error {
		b, _, err := f.fetchChart(ctx, symbol, "1d", rng)
		if err != nil {
			return err
		}
		if len(b) == 0 {
			return ErrNoData
		}
		bars = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Trim to requested count
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// ChartMeta returns the instrument metadata for symbol. It makes a single attempt:
// it is used to probe candidate symbols, most of which do not exist.
func (f *YahooFetcher) ChartMeta(ctx context.Context, symbol string) (model.ChartMeta, error) {
	_, meta, err := f.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return model.ChartMeta{}, err
	}
	return meta, nil
}
