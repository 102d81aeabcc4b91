package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"StockLens/internal/retry"
)

func newTestFinnhub(t *testing.T, h http.HandlerFunc) *FinnhubClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewFinnhubClient(srv.URL, "test-token", "",
		WithRetry(retry.Policy{Attempts: 3, Delay: time.Millisecond}),
		WithRateLimit(0, 0))
}

func TestFinnhubGet_SendsTokenAndParams(t *testing.T) {
	var gotPath, gotToken, gotSymbol string
	c := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("token")
		gotSymbol = r.URL.Query().Get("symbol")
		w.Write([]byte(`{"c":612.5,"o":600,"h":615,"l":598,"pc":605,"dp":1.2397}`))
	})

	res := c.Quote(context.Background(), "2330.TW")
	assert.Equal(t, "/quote", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "2330.TW", gotSymbol)
	assert.Equal(t, 612.5, res.Get("c").Float())
}

func TestFinnhubGet_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	c := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"name":"Taiwan Semiconductor","finnhubIndustry":"Semiconductors","country":"TW"}`))
	})

	p := c.Profile(context.Background(), "2330.TW")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "Taiwan Semiconductor", p.Name)
	assert.Equal(t, "Semiconductors", p.Industry)
	assert.True(t, p.Valid())
}

func TestFinnhubGet_ExhaustedBudgetReturnsEmpty(t *testing.T) {
	var calls int32
	c := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	res := c.Get(context.Background(), "quote", nil)
	assert.False(t, res.Exists())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.False(t, c.Profile(context.Background(), "X").Valid())
}

func TestFinnhubGet_InvalidJSONIsRetried(t *testing.T) {
	var calls int32
	c := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`<html>oops</html>`))
	})
	res := c.Get(context.Background(), "quote", nil)
	assert.False(t, res.Exists())
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFinnhubSearch_KeepsProviderOrder(t *testing.T) {
	c := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "台積電", r.URL.Query().Get("q"))
		w.Write([]byte(`{"count":2,"result":[
			{"symbol":"TSM","description":"TAIWAN SEMICONDUCTOR-SP ADR","type":"ADR"},
			{"symbol":"2330.TW","description":"TAIWAN SEMICONDUCTOR MANUFAC","type":"Common Stock"}]}`))
	})

	hits := c.Search(context.Background(), "台積電")
	require.Len(t, hits, 2)
	assert.Equal(t, "TSM", hits[0].Symbol)
	assert.Equal(t, "Common Stock", hits[1].Type)
}

func TestFinnhubMetrics_ReturnsMetricObject(t *testing.T) {
	c := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("metric"))
		w.Write([]byte(`{"metric":{"peTTM":21.5},"series":{}}`))
	})
	m := c.Metrics(context.Background(), "AAPL")
	assert.Equal(t, 21.5, m.Get("peTTM").Float())
}

func TestFinnhubCompanyNews_FormatsDates(t *testing.T) {
	var from, to string
	c := newTestFinnhub(t, func(w http.ResponseWriter, r *http.Request) {
		from = r.URL.Query().Get("from")
		to = r.URL.Query().Get("to")
		w.Write([]byte(`[]`))
	})
	end := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	res := c.CompanyNews(context.Background(), "AAPL", end.AddDate(0, 0, -10), end)
	assert.True(t, res.IsArray())
	assert.Equal(t, "2026-03-05", from)
	assert.Equal(t, "2026-03-15", to)
}

func TestFinnhubGet_TokenNeverLogged(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	core, logs := observer.New(zap.WarnLevel)
	c := NewFinnhubClient(addr, "SECRET-KEY", "",
		WithRetry(retry.Policy{Attempts: 2, Delay: time.Millisecond}),
		WithRateLimit(0, 0),
		WithLogger(zap.New(core)))

	res := c.Get(context.Background(), "quote", nil)
	assert.False(t, res.Exists())
	require.Equal(t, 2, logs.Len())
	for _, entry := range logs.All() {
		for k, v := range entry.ContextMap() {
			assert.NotContains(t, fmt.Sprint(v), "SECRET-KEY", k)
		}
		assert.NotContains(t, entry.Message, "SECRET-KEY")
	}
	assert.Contains(t, fmt.Sprint(logs.All()[0].ContextMap()["error"]), "request quote")
}
