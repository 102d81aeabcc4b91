// Package report assembles the per-symbol report from the resolver and the data sources.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"StockLens/internal/fundamentals"
	"StockLens/internal/logging"
	"StockLens/internal/model"
	"StockLens/internal/session"
	"StockLens/internal/strategy"
)

// trendDays is the number of recent closes listed in the report.
const trendDays = 7

// SymbolResolver turns raw input into a ticker.
type SymbolResolver interface {
	Resolve(ctx context.Context, cache session.Cache, raw string) (string, error)
}

// MarketData serves raw quote and metric payloads.
type MarketData interface {
	Quote(ctx context.Context, symbol string) gjson.Result
	Metrics(ctx context.Context, symbol string) gjson.Result
}

// DataSource serves profiles and the technical snapshot.
type DataSource interface {
	CompanyProfile(ctx context.Context, symbol string) model.CompanyProfile
	Technical(ctx context.Context, symbol string) (model.TechnicalSnapshot, []model.OHLCV)
}

// NewsSource serves recent news.
type NewsSource interface {
	Recent(ctx context.Context, symbol string) []model.NewsItem
}

// Assembler builds reports. Narrator is optional.
type Assembler struct {
	Resolver SymbolResolver
	Market   MarketData
	Data     DataSource
	News     NewsSource
	Narrator *Narrator
	Log      *zap.Logger
	Now      func() time.Time
}

// NewAssembler creates an Assembler.
func NewAssembler(r SymbolResolver, market MarketData, data DataSource, news NewsSource, narrator *Narrator, log *zap.Logger) *Assembler {
	return &Assembler{
		Resolver: r,
		Market:   market,
		Data:     data,
		News:     news,
		Narrator: narrator,
		Log:      logging.OrNop(log),
		Now:      time.Now,
	}
}

// Build resolves raw and gathers quote, metrics, profile, news and technical data
// concurrently. Only resolution errors are returned; each fetch degrades on its own.
func (a *Assembler) Build(ctx context.Context, cache session.Cache, raw string) (*model.Report, error) {
	symbol, err := a.Resolver.Resolve(ctx, cache, raw)
	if err != nil {
		return nil, err
	}
	a.Log.Info("building report", zap.String("symbol", symbol))

	var (
		wg      sync.WaitGroup
		quote   model.Quote
		metrics model.FundamentalMetrics
		profile model.CompanyProfile
		news    []model.NewsItem
		snap    model.TechnicalSnapshot
		bars    []model.OHLCV
	)
	wg.Add(5)
	go func() {
		defer wg.Done()
		quote = fundamentals.NormalizeQuote(a.Market.Quote(ctx, symbol))
	}()
	go func() {
		defer wg.Done()
		metrics = fundamentals.FilterMetrics(a.Market.Metrics(ctx, symbol))
	}()
	go func() {
		defer wg.Done()
		profile = a.Data.CompanyProfile(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		news = a.News.Recent(ctx, symbol)
	}()
	go func() {
		defer wg.Done()
		snap, bars = a.Data.Technical(ctx, symbol)
	}()
	wg.Wait()

	quote.Volume = snap.Volume
	industry := profile.Industry
	if industry == "" {
		industry = model.UnknownField
	}

	r := &model.Report{
		Input:      raw,
		Symbol:     symbol,
		Company:    profile,
		IndustryEN: industry,
		IndustryZH: IndustryZH(industry),
		Quote:      quote,
		Metrics:    metrics,
		Technical:  snap,
		Signals:    strategy.Evaluate(quote, snap),
		News:       news,
		Trend:      Trend(bars, trendDays),
		CreatedAt:  a.Now(),
	}
	if a.Narrator != nil {
		r.Analysis = a.Narrator.Analyze(ctx, r)
	}
	return r, nil
}

// Trend returns the last n closes, rounded to 2 decimals.
func Trend(bars []model.OHLCV, n int) []model.TrendPoint {
	if len(bars) > n {
		bars = bars[len(bars)-n:]
	}
	out := make([]model.TrendPoint, 0, len(bars))
	for _, b := range bars {
		out = append(out, model.TrendPoint{
			Date:  b.Time.Format("2006-01-02"),
			Close: model.Round(b.Close, 2),
		})
	}
	return out
}
