package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"StockLens/internal/llm"
	"StockLens/internal/model"
)

// ProfileOracle looks up company profiles; a profile with a name validates a symbol.
type ProfileOracle interface {
	CompanyProfile(ctx context.Context, symbol string) model.CompanyProfile
}

// SymbolSearcher runs the primary provider's text search.
type SymbolSearcher interface {
	Search(ctx context.Context, query string) []model.SearchResult
}

// MetaSource returns the secondary provider's instrument metadata.
type MetaSource interface {
	ChartMeta(ctx context.Context, symbol string) (model.ChartMeta, error)
}

func validate(ctx context.Context, oracle ProfileOracle, symbol string) bool {
	return symbol != "" && oracle.CompanyProfile(ctx, symbol).Valid()
}

// MappingStrategy resolves inputs found in a static alias table.
type MappingStrategy struct {
	Table  map[string]string
	Oracle ProfileOracle
}

func (s *MappingStrategy) Name() string { return "mapping" }

func (s *MappingStrategy) Attempt(ctx context.Context, raw string) (string, Outcome) {
	symbol, ok := s.Table[raw]
	if !ok || !validate(ctx, s.Oracle, symbol) {
		return "", Miss
	}
	return symbol, Hit
}

// DirectStrategy accepts inputs that already carry an exchange suffix, e.g. "2330.tw".
// Both sides of the last dot must be non-empty.
type DirectStrategy struct {
	Oracle ProfileOracle
}

func (s *DirectStrategy) Name() string { return "direct" }

func (s *DirectStrategy) Attempt(ctx context.Context, raw string) (string, Outcome) {
	i := strings.LastIndex(raw, ".")
	if i <= 0 || i == len(raw)-1 {
		return "", Miss
	}
	symbol := strings.ToUpper(raw[:i]) + "." + strings.ToUpper(raw[i+1:])
	if !validate(ctx, s.Oracle, symbol) {
		return "", Miss
	}
	return symbol, Hit
}

// NumericStrategy probes each suffix for all-digit exchange IDs. Numeric input
// that no suffix validates is not found; no later stage is tried.
type NumericStrategy struct {
	Oracle ProfileOracle
}

func (s *NumericStrategy) Name() string { return "numeric" }

func (s *NumericStrategy) Attempt(ctx context.Context, raw string) (string, Outcome) {
	if !isDigits(raw) {
		return "", Miss
	}
	for _, suf := range Suffixes {
		if symbol := raw + suf; validate(ctx, s.Oracle, symbol) {
			return symbol, Hit
		}
	}
	return "", Stop
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SearchStrategy takes the first common-stock search hit with a recognized suffix.
type SearchStrategy struct {
	Searcher SymbolSearcher
	Oracle   ProfileOracle
}

func (s *SearchStrategy) Name() string { return "search" }

func (s *SearchStrategy) Attempt(ctx context.Context, raw string) (string, Outcome) {
	for _, hit := range s.Searcher.Search(ctx, raw) {
		if hit.Type != "Common Stock" {
			continue
		}
		if _, ok := hasKnownSuffix(hit.Symbol); !ok {
			continue
		}
		if validate(ctx, s.Oracle, hit.Symbol) {
			return hit.Symbol, Hit
		}
	}
	return "", Miss
}

// InferenceStrategy asks the text-completion provider for the ticker.
type InferenceStrategy struct {
	Completer llm.Completer
	Oracle    ProfileOracle
	Log       *zap.Logger
}

func (s *InferenceStrategy) Name() string { return "inference" }

func (s *InferenceStrategy) Attempt(ctx context.Context, raw string) (string, Outcome) {
	out, err := s.Completer.Complete(ctx, llm.SymbolPrompt(raw))
	if err != nil {
		s.Log.Warn("symbol inference failed", zap.String("input", raw), zap.Error(err))
		return "", Miss
	}
	symbol := strings.TrimSpace(out)
	if _, ok := hasKnownSuffix(symbol); !ok {
		s.Log.Info("inferred symbol rejected, unrecognized suffix",
			zap.String("input", raw), zap.String("suggested", symbol))
		return "", Miss
	}
	if !validate(ctx, s.Oracle, symbol) {
		return "", Miss
	}
	return symbol, Hit
}

// SecondaryStrategy probes the secondary provider directly. A suffixed candidate
// is accepted when the provider echoes a symbol with the same suffix; failing that,
// the input is matched against the anchor instrument's names.
type SecondaryStrategy struct {
	Meta MetaSource
	Log  *zap.Logger
}

func (s *SecondaryStrategy) Name() string { return "secondary" }

func (s *SecondaryStrategy) Attempt(ctx context.Context, raw string) (string, Outcome) {
	for _, suf := range Suffixes {
		meta, err := s.Meta.ChartMeta(ctx, raw+suf)
		if err != nil {
			s.Log.Debug("secondary probe failed", zap.String("symbol", raw+suf), zap.Error(err))
			continue
		}
		if meta.Symbol != "" && strings.HasSuffix(meta.Symbol, suf) {
			return meta.Symbol, Hit
		}
	}

	anchor, err := s.Meta.ChartMeta(ctx, AnchorSymbol)
	if err != nil {
		s.Log.Warn("anchor lookup failed", zap.String("symbol", AnchorSymbol), zap.Error(err))
		return "", Miss
	}
	needle := strings.ToLower(raw)
	if strings.Contains(strings.ToLower(anchor.LongName), needle) ||
		strings.Contains(strings.ToLower(anchor.ShortName), needle) {
		return AnchorSymbol, Hit
	}
	return "", Miss
}
