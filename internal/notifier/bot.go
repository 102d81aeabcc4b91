package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"StockLens/internal/logging"
	"StockLens/internal/model"
	"StockLens/internal/news"
	"StockLens/internal/resolver"
	"StockLens/internal/session"
)

const helpText = "📊 <b>StockLens</b>\n\n" +
	"輸入股票代號、台股代碼或公司名稱即可查詢，例如 <code>2330</code>、<code>台積電</code>、<code>AAPL</code>。\n" +
	"Send a ticker, Taiwan stock ID or company name.\n\n" +
	"/news &lt;代號&gt; &lt;標題&gt; - 新聞全文 / news detail\n" +
	"/reset - 清除查詢快取 / clear this chat's symbol cache\n" +
	"/help - 說明 / help"

// ReportBuilder builds a report for raw input within a session cache.
type ReportBuilder interface {
	Build(ctx context.Context, cache session.Cache, raw string) (*model.Report, error)
}

// NewsLookup serves recent news for a symbol.
type NewsLookup interface {
	Recent(ctx context.Context, symbol string) []model.NewsItem
}

// Bot routes chat messages. Each chat is its own session.
type Bot struct {
	Store   session.Store
	Reports ReportBuilder
	News    NewsLookup
	Log     *zap.Logger
}

// NewBot creates a Bot.
func NewBot(store session.Store, reports ReportBuilder, newsLookup NewsLookup, log *zap.Logger) *Bot {
	return &Bot{Store: store, Reports: reports, News: newsLookup, Log: logging.OrNop(log)}
}

// SessionID returns the session id of a chat.
func SessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

// Handle answers one message. It satisfies MessageHandler.
func (b *Bot) Handle(ctx context.Context, chatID int64, text string) string {
	text = strings.TrimSpace(text)
	cmd, args, _ := strings.Cut(text, " ")
	// Commands addressed in groups look like /help@StockLensBot.
	if strings.HasPrefix(cmd, "/") {
		cmd, _, _ = strings.Cut(cmd, "@")
	}

	switch cmd {
	case "":
		return ""
	case "/start", "/help":
		return helpText
	case "/reset":
		if err := b.Store.Reset(SessionID(chatID)); err != nil {
			b.Log.Error("session reset failed", zap.Int64("chat_id", chatID), zap.Error(err))
			return "❌ 清除失敗 / Reset failed"
		}
		return "✅ 已清除查詢快取 / Symbol cache cleared"
	case "/news":
		return b.handleNews(ctx, strings.TrimSpace(args))
	}
	if strings.HasPrefix(cmd, "/") {
		return "未知指令 / Unknown command\n\n" + helpText
	}
	return b.handleReport(ctx, chatID, text)
}

func (b *Bot) handleReport(ctx context.Context, chatID int64, raw string) string {
	cache := b.Store.Session(SessionID(chatID))
	r, err := b.Reports.Build(ctx, cache, raw)
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) || errors.Is(err, resolver.ErrInvalidInput) {
			return fmt.Sprintf("❌ 找不到股票代號 / Symbol not found: %s", html.EscapeString(raw))
		}
		b.Log.Error("report failed", zap.String("input", raw), zap.Error(err))
		return fmt.Sprintf("❌ 資料讀取錯誤 / Data error: %s", html.EscapeString(err.Error()))
	}
	return FormatReport(r)
}

func (b *Bot) handleNews(ctx context.Context, args string) string {
	symbol, headline, ok := strings.Cut(args, " ")
	headline = strings.TrimSpace(headline)
	if !ok || symbol == "" || headline == "" {
		return "用法 / Usage: /news &lt;代號&gt; &lt;標題&gt;"
	}
	item, found := news.Find(b.News.Recent(ctx, symbol), headline)
	if !found {
		return "❌ 新聞未找到 / News not found"
	}
	return FormatNews(symbol, item)
}
