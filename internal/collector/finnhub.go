package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"StockLens/internal/logging"
	"StockLens/internal/model"
	"StockLens/internal/retry"
)

const (
	DefaultFinnhubURL = "https://finnhub.io/api/v1"
	finnhubTimeout    = 5 * time.Second
	newsDateLayout    = "2006-01-02"
)

// FinnhubClient implements PrimarySource using the Finnhub REST API.
type FinnhubClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Retry   retry.Policy

	limiter *rate.Limiter
	log     *zap.Logger
}

// FinnhubOption configures a FinnhubClient.
type FinnhubOption func(*FinnhubClient)

// WithRetry overrides the retry policy.
func WithRetry(p retry.Policy) FinnhubOption {
	return func(c *FinnhubClient) { c.Retry = p }
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64, burst int) FinnhubOption {
	return func(c *FinnhubClient) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) FinnhubOption {
	return func(c *FinnhubClient) { c.log = logging.OrNop(l) }
}

// NewFinnhubClient creates a client with optional proxy support.
func NewFinnhubClient(baseURL, apiKey, proxyURL string, opts ...FinnhubOption) *FinnhubClient {
	if baseURL == "" {
		baseURL = DefaultFinnhubURL
	}
	c := &FinnhubClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   finnhubTimeout,
			Transport: newTransport(proxyURL),
		},
		Retry:   retry.Default,
		limiter: rate.NewLimiter(rate.Limit(1), 5),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *FinnhubClient) Name() string { return "finnhub" }

// Get calls endpoint with params and the API token. Transport failures, non-2xx
// responses and non-JSON bodies are retried per c.Retry; once the budget is spent
// an empty result is returned.
func (c *FinnhubClient) Get(ctx context.Context, endpoint string, params url.Values) gjson.Result {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("token", c.APIKey)
	u := fmt.Sprintf("%s/%s?%s", c.BaseURL, strings.TrimLeft(endpoint, "/"), q.Encode())

	var result gjson.Result
	err := retry.Do(ctx, c.Retry, c.log, "finnhub "+endpoint, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		body, err := c.fetch(ctx, endpoint, u)
		if err != nil {
			return err
		}
		if !gjson.ValidBytes(body) {
			return fmt.Errorf("invalid json body")
		}
		result = gjson.ParseBytes(body)
		return nil
	})
	if err != nil {
		return gjson.Result{}
	}
	return result
}

// fetch never returns the request URL in its errors: it carries the API token.
func (c *FinnhubClient) fetch(ctx context.Context, endpoint, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", endpoint, stripURL(err))
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", endpoint, stripURL(err))
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}
	return body, nil
}

func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

// Quote returns the raw quote object (c, o, h, l, pc, dp...).
func (c *FinnhubClient) Quote(ctx context.Context, symbol string) gjson.Result {
	return c.Get(ctx, "quote", url.Values{"symbol": {symbol}})
}

// Metrics returns the "metric" object of the full metric set.
func (c *FinnhubClient) Metrics(ctx context.Context, symbol string) gjson.Result {
	return c.Get(ctx, "stock/metric", url.Values{"symbol": {symbol}, "metric": {"all"}}).Get("metric")
}

// Profile returns the company profile; an empty Name means the provider does not know the symbol.
func (c *FinnhubClient) Profile(ctx context.Context, symbol string) model.CompanyProfile {
	res := c.Get(ctx, "stock/profile2", url.Values{"symbol": {symbol}})
	return model.CompanyProfile{
		Name:     res.Get("name").String(),
		Industry: res.Get("finnhubIndustry").String(),
		Country:  res.Get("country").String(),
	}
}

// Search runs the provider's text search and returns hits in provider order.
func (c *FinnhubClient) Search(ctx context.Context, query string) []model.SearchResult {
	res := c.Get(ctx, "search", url.Values{"q": {query}}).Get("result")
	if !res.IsArray() {
		return nil
	}
	var out []model.SearchResult
	res.ForEach(func(_, v gjson.Result) bool {
		out = append(out, model.SearchResult{
			Symbol:      v.Get("symbol").String(),
			Description: v.Get("description").String(),
			Type:        v.Get("type").String(),
		})
		return true
	})
	return out
}

// CompanyNews returns the raw company-news payload between from and to (inclusive dates).
func (c *FinnhubClient) CompanyNews(ctx context.Context, symbol string, from, to time.Time) gjson.Result {
	return c.Get(ctx, "company-news", url.Values{
		"symbol": {symbol},
		"from":   {from.Format(newsDateLayout)},
		"to":     {to.Format(newsDateLayout)},
	})
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
