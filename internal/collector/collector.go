package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"StockLens/internal/calculator"
	"StockLens/internal/logging"
	"StockLens/internal/model"
)

// historyDays is the lookback used for technical indicators.
const historyDays = 365

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Meta      map[string]model.ChartMeta
	Err       error

	mu        sync.Mutex
	metaCalls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, days int) ([]model.OHLCV, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, days), nil
}

func (m *MockFetcher) ChartMeta(_ context.Context, symbol string) (model.ChartMeta, error) {
	m.mu.Lock()
	m.metaCalls = append(m.metaCalls, symbol)
	m.mu.Unlock()
	if meta, ok := m.Meta[symbol]; ok {
		return meta, nil
	}
	return model.ChartMeta{}, fmt.Errorf("mock: unknown symbol %s", symbol)
}

// MetaCalls returns the symbols ChartMeta was asked for, in order.
func (m *MockFetcher) MetaCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.metaCalls...)
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector combines the primary and secondary providers.
type Collector struct {
	Primary PrimarySource
	Fetcher Fetcher
	Log     *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(primary PrimarySource, fetcher Fetcher, log *zap.Logger) *Collector {
	return &Collector{Primary: primary, Fetcher: fetcher, Log: logging.OrNop(log)}
}

// CompanyProfile looks the symbol up on the primary provider and falls back to the
// secondary provider's metadata when the primary yields no name.
func (c *Collector) CompanyProfile(ctx context.Context, symbol string) model.CompanyProfile {
	profile := c.Primary.Profile(ctx, symbol)
	if profile.Valid() {
		return withDefaults(profile)
	}

	meta, err := c.Fetcher.ChartMeta(ctx, symbol)
	if err != nil {
		c.Log.Debug("secondary profile lookup failed", zap.String("symbol", symbol), zap.Error(err))
		return withDefaults(model.CompanyProfile{})
	}
	name := meta.LongName
	if name == "" {
		name = meta.ShortName
	}
	return withDefaults(model.CompanyProfile{Name: name})
}

func withDefaults(p model.CompanyProfile) model.CompanyProfile {
	if p.Industry == "" {
		p.Industry = model.UnknownField
	}
	if p.Country == "" {
		p.Country = model.UnknownField
	}
	return p
}

// Technical fetches one year of daily bars and computes the technical snapshot.
// A failed or empty download yields an unavailable snapshot and no bars.
func (c *Collector) Technical(ctx context.Context, symbol string) (model.TechnicalSnapshot, []model.OHLCV) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, historyDays)
	if err != nil {
		c.Log.Warn("historical data unavailable, indicators skipped",
			zap.String("symbol", symbol), zap.String("source", c.Fetcher.Name()), zap.Error(err))
		return model.TechnicalSnapshot{}, nil
	}
	return calculator.Snapshot(bars), bars
}
