package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/model"
	"StockLens/internal/resolver"
	"StockLens/internal/session"
)

func sampleReport() *model.Report {
	return &model.Report{
		Symbol:     "2330.TW",
		Company:    model.CompanyProfile{Name: "Taiwan Semiconductor <TSMC>", Industry: "Technology"},
		IndustryEN: "Technology",
		IndustryZH: "科技業",
		Quote: model.Quote{
			CurrentPrice: model.Num(612.5),
			DailyChange:  model.Num(1.24),
			Volume:       model.Num(25000000),
		},
		Metrics: model.FundamentalMetrics{
			"pe_ratio": model.NumericMetric(21.5),
			"roe_ttm":  model.TextMetric("28.46%"),
		},
		Technical: model.TechnicalSnapshot{
			MA50: model.Num(590.1), RSI: model.Num(72.3), MACD: model.Num(4.2),
			Support: model.Num(580), Resistance: model.Num(620), Available: true,
		},
		Signals:  []model.Signal{{Kind: model.SignalRSI, Label: "超買 / Overbought", Commentary: "RSI=72"}},
		News:     []model.NewsItem{{Headline: "AI demand & capex", Datetime: "2026-03-14 08:00"}},
		Analysis: &model.Analysis{Recommendation: "hold", Summary: "觀望\nWait"},
	}
}

func TestFormatReport(t *testing.T) {
	msg := FormatReport(sampleReport())

	assert.Contains(t, msg, "<b>Taiwan Semiconductor &lt;TSMC&gt;</b> (2330.TW)")
	assert.Contains(t, msg, "科技業 (Technology)")
	assert.Contains(t, msg, "即時股價 Current Price: 612.5")
	assert.Contains(t, msg, "開盤價 Open: N/A")
	assert.Contains(t, msg, "交易量 Volume: 25000000")
	assert.Contains(t, msg, "本益比 (PE TTM): 21.5")
	assert.Contains(t, msg, "股東權益報酬率 (ROE TTM): 28.46%")
	assert.Contains(t, msg, "RSI: 72.3")
	assert.Contains(t, msg, "超買 / Overbought (RSI=72)")
	assert.Contains(t, msg, "AI demand &amp; capex")
	assert.Contains(t, msg, "<b>HOLD</b>")
}

func TestFormatReport_Unavailable(t *testing.T) {
	r := &model.Report{Symbol: "6488.TWO", IndustryEN: "Unknown", IndustryZH: "未知"}
	msg := FormatReport(r)
	assert.Contains(t, msg, "<b>6488.TWO</b>")
	assert.Contains(t, msg, "Indicators unavailable")
	assert.NotContains(t, msg, "News")
	assert.NotContains(t, msg, "Analysis")
}

type fakeBuilder struct {
	report *model.Report
	err    error
	caches []session.Cache
}

func (f *fakeBuilder) Build(_ context.Context, cache session.Cache, raw string) (*model.Report, error) {
	f.caches = append(f.caches, cache)
	if f.err != nil {
		return nil, f.err
	}
	cache.Put(raw, f.report.Symbol)
	return f.report, nil
}

type fakeNews []model.NewsItem

func (f fakeNews) Recent(context.Context, string) []model.NewsItem { return f }

func TestBotHandle(t *testing.T) {
	store := session.NewMemoryStore()
	builder := &fakeBuilder{report: sampleReport()}
	bot := NewBot(store, builder, fakeNews{{Headline: "法說會", Summary: "展望樂觀", Source: "Reuters"}}, nil)
	ctx := context.Background()

	assert.Contains(t, bot.Handle(ctx, 1, "/start"), "StockLens")
	assert.Contains(t, bot.Handle(ctx, 1, "/help@StockLensBot"), "/reset")
	assert.Contains(t, bot.Handle(ctx, 1, "/bogus"), "Unknown command")
	assert.Empty(t, bot.Handle(ctx, 1, "   "))

	reply := bot.Handle(ctx, 1, "台積電")
	assert.Contains(t, reply, "2330.TW")
	got, ok := store.Session(SessionID(1)).Get("台積電")
	require.True(t, ok)
	assert.Equal(t, "2330.TW", got)
	_, ok = store.Session(SessionID(2)).Get("台積電")
	assert.False(t, ok, "chats do not share caches")

	assert.Contains(t, bot.Handle(ctx, 1, "/reset"), "cleared")
	_, ok = store.Session(SessionID(1)).Get("台積電")
	assert.False(t, ok)

	assert.Contains(t, bot.Handle(ctx, 1, "/news 2330.TW 法說會"), "展望樂觀")
	assert.Contains(t, bot.Handle(ctx, 1, "/news 2330.TW 不存在"), "News not found")
	assert.Contains(t, bot.Handle(ctx, 1, "/news 2330.TW"), "Usage")
}

func TestBotHandle_Errors(t *testing.T) {
	builder := &fakeBuilder{err: resolver.ErrNotFound}
	bot := NewBot(session.NewMemoryStore(), builder, fakeNews{}, nil)
	assert.Contains(t, bot.Handle(context.Background(), 7, "9999999"), "Symbol not found: 9999999")

	builder.err = errors.New("boom")
	assert.Contains(t, bot.Handle(context.Background(), 7, "AAPL"), "Data error: boom")
}

func TestTelegramSend(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := NewTelegramBot("TOKEN", "", nil)
	tg.BaseURL = srv.URL
	require.NoError(t, tg.Send(context.Background(), 42, "<b>hi</b>"))
	assert.Equal(t, float64(42), got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestTelegramSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"Bad Request: chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tg := NewTelegramBot("TOKEN", "", nil)
	tg.BaseURL = srv.URL
	err := tg.SendWithRetry(context.Background(), 1, "x", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestStartPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		polls   int
		replies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			polls++
			if polls == 1 {
				assert.Equal(t, "0", r.URL.Query().Get("offset"))
				w.Write([]byte(`{"ok":true,"result":[{"update_id":10,"message":{"text":" 2330 ","chat":{"id":99}}}]}`))
				return
			}
			assert.Equal(t, "11", r.URL.Query().Get("offset"))
			cancel()
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]any
			json.NewDecoder(r.Body).Decode(&p)
			replies = append(replies, p["text"].(string))
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tg := NewTelegramBot("TOKEN", "", nil)
	tg.BaseURL = srv.URL

	done := make(chan struct{})
	go func() {
		tg.StartPolling(ctx, func(_ context.Context, chatID int64, text string) string {
			return "echo " + text
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"echo 2330"}, replies)
}
