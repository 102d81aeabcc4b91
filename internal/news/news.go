// Package news collects recent company news, falling back to generated
// placeholder items when the provider has none.
package news

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"StockLens/internal/llm"
	"StockLens/internal/logging"
	"StockLens/internal/model"
)

const (
	// Window is the lookback for company news.
	Window = 10 * 24 * time.Hour
	// MaxItems caps the returned list.
	MaxItems = 10

	timeLayout        = "2006-01-02 15:04"
	dateLayout        = "2006-01-02"
	unknownTime       = "未知時間"
	generatedSource   = "AI Generated"
	generatedSplitter = " - "
)

// Source returns the raw company-news payload for a date range.
type Source interface {
	CompanyNews(ctx context.Context, symbol string, from, to time.Time) gjson.Result
}

// Aggregator fetches and normalizes news for a symbol.
type Aggregator struct {
	Source    Source
	Completer llm.Completer
	Log       *zap.Logger
	Now       func() time.Time
}

// NewAggregator creates an Aggregator. completer may be nil.
func NewAggregator(src Source, completer llm.Completer, log *zap.Logger) *Aggregator {
	if completer == nil {
		completer = llm.Disabled{}
	}
	return &Aggregator{Source: src, Completer: completer, Log: logging.OrNop(log), Now: time.Now}
}

// Recent returns up to MaxItems news items from the trailing Window, newest first.
// An empty or malformed provider payload switches to generated items.
func (a *Aggregator) Recent(ctx context.Context, symbol string) []model.NewsItem {
	now := a.Now()
	raw := a.Source.CompanyNews(ctx, symbol, now.Add(-Window), now)
	if raw.IsArray() && len(raw.Array()) > 0 {
		return normalize(raw.Array())
	}

	a.Log.Info("no provider news, generating placeholders", zap.String("symbol", symbol))
	text, err := a.Completer.Complete(ctx, llm.NewsPrompt(symbol))
	if err != nil {
		a.Log.Warn("news generation failed", zap.String("symbol", symbol), zap.Error(err))
		return []model.NewsItem{}
	}
	return ParseGenerated(text, now)
}

func normalize(entries []gjson.Result) []model.NewsItem {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Get("datetime").Float() > entries[j].Get("datetime").Float()
	})
	if len(entries) > MaxItems {
		entries = entries[:MaxItems]
	}

	items := make([]model.NewsItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, model.NewsItem{
			Headline: PlainText(e.Get("headline").String()),
			Summary:  PlainText(e.Get("summary").String()),
			Datetime: formatTimestamp(e.Get("datetime")),
			Source:   e.Get("source").String(),
			URL:      e.Get("url").String(),
		})
	}
	return items
}

func formatTimestamp(v gjson.Result) string {
	if v.Type != gjson.Number {
		return unknownTime
	}
	return time.Unix(v.Int(), 0).UTC().Format(timeLayout)
}

// ParseGenerated turns "headline - summary" lines into items dated now. Only the
// first MaxItems lines are considered; lines that do not split into two non-empty
// parts are dropped.
func ParseGenerated(text string, now time.Time) []model.NewsItem {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > MaxItems {
		lines = lines[:MaxItems]
	}
	items := []model.NewsItem{}
	for _, line := range lines {
		parts := strings.SplitN(line, generatedSplitter, 2)
		if len(parts) != 2 {
			continue
		}
		headline, summary := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if headline == "" || summary == "" {
			continue
		}
		items = append(items, model.NewsItem{
			Headline: headline,
			Summary:  summary,
			Datetime: now.Format(dateLayout),
			Source:   generatedSource,
		})
	}
	return items
}

// PlainText strips markup from provider text.
func PlainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Find returns the item whose headline equals headline.
func Find(items []model.NewsItem, headline string) (model.NewsItem, bool) {
	for _, it := range items {
		if it.Headline == headline {
			return it, true
		}
	}
	return model.NewsItem{}, false
}
