package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"StockLens/internal/model"
)

// FormatReport renders a report as a Telegram HTML message.
func FormatReport(r *model.Report) string {
	var b strings.Builder

	name := r.Company.Name
	if name == "" {
		name = r.Symbol
	}
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> (%s)\n", html.EscapeString(name), html.EscapeString(r.Symbol)))
	b.WriteString(fmt.Sprintf("產業 / Industry: %s (%s)\n\n", r.IndustryZH, html.EscapeString(r.IndustryEN)))

	b.WriteString("💹 <b>即時報價 / Quote</b>\n")
	for _, f := range r.Quote.Fields() {
		label := model.QuoteLabels[f.Key]
		b.WriteString(fmt.Sprintf("  %s %s: %s\n", label[0], label[1], f.Value))
	}

	if len(r.Metrics) > 0 {
		b.WriteString("\n📈 <b>財務指標 / Fundamentals</b>\n")
		keys := make([]string, 0, len(r.Metrics))
		for k := range r.Metrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("  %s: %s\n", model.MetricLabels[k], html.EscapeString(metricText(r.Metrics[k]))))
		}
	}

	b.WriteString("\n🧮 <b>技術指標 / Technical</b>\n")
	if !r.Technical.Available {
		b.WriteString("  歷史資料不足 / Indicators unavailable\n")
	} else {
		t := r.Technical
		b.WriteString(fmt.Sprintf("  MA50: %s | RSI: %s | MACD: %s\n", t.MA50, t.RSI, t.MACD))
		b.WriteString(fmt.Sprintf("  支撐 Support: %s | 壓力 Resistance: %s\n", t.Support, t.Resistance))
		for _, s := range r.Signals {
			b.WriteString(fmt.Sprintf("  • %s (%s)\n", s.Label, s.Commentary))
		}
	}

	if len(r.News) > 0 {
		b.WriteString("\n📰 <b>新聞 / News</b>\n")
		for _, n := range r.News {
			b.WriteString(fmt.Sprintf("  • %s <i>%s</i>\n", html.EscapeString(n.Headline), html.EscapeString(n.Datetime)))
		}
	}

	if a := r.Analysis; a != nil {
		b.WriteString("\n🤖 <b>分析 / Analysis</b>\n")
		if a.Recommendation != "" {
			b.WriteString(fmt.Sprintf("建議 / Recommendation: <b>%s</b>\n", html.EscapeString(strings.ToUpper(a.Recommendation))))
		}
		for _, part := range []struct{ title, text string }{
			{"理由 / Rationale", a.Rationale},
			{"風險 / Risk", a.Risk},
			{"摘要 / Summary", a.Summary},
		} {
			if part.text != "" {
				b.WriteString(fmt.Sprintf("<b>%s</b>\n%s\n", part.title, html.EscapeString(part.text)))
			}
		}
	}

	return b.String()
}

func metricText(m model.MetricValue) string {
	if m.IsText {
		return m.Text
	}
	return fmt.Sprintf("%g", m.Num)
}

// FormatNews renders one news item in full.
func FormatNews(symbol string, n model.NewsItem) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📰 <b>%s</b>\n", html.EscapeString(n.Headline)))
	b.WriteString(fmt.Sprintf("%s | %s | %s\n\n", html.EscapeString(symbol), html.EscapeString(n.Source), html.EscapeString(n.Datetime)))
	b.WriteString(html.EscapeString(n.Summary))
	if n.URL != "" {
		b.WriteString(fmt.Sprintf("\n\n<a href=\"%s\">原文 / Source</a>", html.EscapeString(n.URL)))
	}
	return b.String()
}
