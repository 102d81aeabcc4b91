package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"

	"StockLens/internal/llm"
	"StockLens/internal/logging"
	"StockLens/internal/model"
)

// Disclaimer is appended to free-text analyses.
const Disclaimer = "\n\n---\n\n*以上分析僅供參考，投資有風險*"

// Narrator asks the text-completion provider for a buy/sell/hold analysis.
type Narrator struct {
	Completer llm.Completer
	Log       *zap.Logger
}

// NewNarrator creates a Narrator.
func NewNarrator(c llm.Completer, log *zap.Logger) *Narrator {
	return &Narrator{Completer: c, Log: logging.OrNop(log)}
}

// Analyze returns the analysis for r, or nil when the provider fails.
// A reply that is not a JSON object becomes the summary, with Disclaimer appended.
func (n *Narrator) Analyze(ctx context.Context, r *model.Report) *model.Analysis {
	text, err := n.Completer.Complete(ctx, llm.AnalysisPrompt(Facts(r)))
	if err != nil {
		n.Log.Warn("analysis generation failed", zap.String("symbol", r.Symbol), zap.Error(err))
		return nil
	}
	return ParseAnalysis(text)
}

// ParseAnalysis decodes a provider reply, repairing near-JSON where possible.
func ParseAnalysis(text string) *model.Analysis {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") {
		if repaired, err := jsonrepair.JSONRepair(text); err == nil {
			var a model.Analysis
			if err := json.Unmarshal([]byte(repaired), &a); err == nil && a != (model.Analysis{}) {
				return &a
			}
		}
	}
	return &model.Analysis{Summary: text + Disclaimer}
}

// Facts renders the report data the analysis prompt is built from.
func Facts(r *model.Report) string {
	var tech []string
	snap := r.Technical
	for _, f := range []struct {
		name string
		v    model.Number
	}{
		{"MA50", snap.MA50}, {"RSI", snap.RSI}, {"MACD", snap.MACD},
		{"SUPPORT", snap.Support}, {"RESISTANCE", snap.Resistance}, {"VOLUME", snap.Volume},
	} {
		tech = append(tech, fmt.Sprintf("%s: %s", f.name, f.v))
	}

	keys := make([]string, 0, len(r.Metrics))
	for k := range r.Metrics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var metrics []string
	for _, k := range keys {
		m := r.Metrics[k]
		if m.IsText {
			metrics = append(metrics, fmt.Sprintf("%s: %s", k, m.Text))
		} else {
			metrics = append(metrics, fmt.Sprintf("%s: %g", k, m.Num))
		}
	}

	facts := fmt.Sprintf("股票代號: %s, 目前價格: %s, 產業分類: %s (%s), 財務指標: {%s}, 技術指標: %s",
		r.Symbol, r.Quote.CurrentPrice, r.IndustryZH, r.IndustryEN,
		strings.Join(metrics, ", "), strings.Join(tech, ", "))
	if len(r.Signals) > 0 {
		var sigs []string
		for _, s := range r.Signals {
			sigs = append(sigs, fmt.Sprintf("%s %s (%s)", s.Kind, s.Label, s.Commentary))
		}
		facts += ", 技術訊號: " + strings.Join(sigs, "; ")
	}
	return facts
}
