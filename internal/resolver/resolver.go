// Package resolver turns free-form stock input into a canonical ticker by running
// an ordered cascade of strategies, caching accepted results per session.
package resolver

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"StockLens/internal/llm"
	"StockLens/internal/logging"
	"StockLens/internal/session"
)

var (
	// ErrInvalidInput is returned for empty input.
	ErrInvalidInput = errors.New("empty symbol input")
	// ErrNotFound is returned when no strategy produced an accepted symbol.
	ErrNotFound = errors.New("symbol not found")
)

// Deps are the collaborators the default cascade consults.
type Deps struct {
	Profiles  ProfileOracle
	Searcher  SymbolSearcher
	Meta      MetaSource
	Completer llm.Completer
}

// Resolver runs strategies in order; the first Hit wins.
type Resolver struct {
	Strategies []Strategy
	Log        *zap.Logger
}

// New builds a Resolver with the default cascade:
// mapping, direct, numeric, search, inference, secondary.
func New(d Deps, log *zap.Logger) *Resolver {
	log = logging.OrNop(log)
	completer := d.Completer
	if completer == nil {
		completer = llm.Disabled{}
	}
	return &Resolver{
		Strategies: []Strategy{
			&MappingStrategy{Table: DefaultMappings, Oracle: d.Profiles},
			&DirectStrategy{Oracle: d.Profiles},
			&NumericStrategy{Oracle: d.Profiles},
			&SearchStrategy{Searcher: d.Searcher, Oracle: d.Profiles},
			&InferenceStrategy{Completer: completer, Oracle: d.Profiles, Log: log},
			&SecondaryStrategy{Meta: d.Meta, Log: log},
		},
		Log: log,
	}
}

// Resolve returns the ticker for raw. A cached entry for the trimmed input is
// returned as is; otherwise an accepted symbol is written to cache once.
// Failed resolutions leave cache untouched.
func (r *Resolver) Resolve(ctx context.Context, cache session.Cache, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidInput
	}
	if symbol, ok := cache.Get(raw); ok {
		r.Log.Debug("symbol cache hit", zap.String("input", raw), zap.String("symbol", symbol))
		return symbol, nil
	}

	for _, s := range r.Strategies {
		symbol, outcome := s.Attempt(ctx, raw)
		switch outcome {
		case Hit:
			cache.Put(raw, symbol)
			r.Log.Info("symbol resolved",
				zap.String("input", raw), zap.String("symbol", symbol), zap.String("via", s.Name()))
			return symbol, nil
		case Stop:
			r.Log.Warn("symbol not found", zap.String("input", raw), zap.String("stopped_at", s.Name()))
			return "", ErrNotFound
		}
		if err := ctx.Err(); err != nil {
			r.Log.Warn("symbol resolution cancelled", zap.String("input", raw), zap.Error(err))
			return "", ErrNotFound
		}
	}

	r.Log.Warn("symbol not found", zap.String("input", raw))
	return "", ErrNotFound
}
