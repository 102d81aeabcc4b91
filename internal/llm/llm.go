// Package llm wraps the text-completion providers used for symbol inference,
// synthetic news and narrative analysis.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"StockLens/internal/logging"
)

// ErrDisabled is returned by the completer used when no provider is configured.
var ErrDisabled = errors.New("text completion disabled")

// Prompt is one completion request.
type Prompt struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
	// JSON asks the provider for a JSON object response.
	JSON bool
}

// Completer produces a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, p Prompt) (string, error)
	Name() string
}

// Disabled is a Completer that always fails with ErrDisabled.
type Disabled struct{}

func (Disabled) Complete(context.Context, Prompt) (string, error) { return "", ErrDisabled }

func (Disabled) Name() string { return "none" }

// New builds the completer for provider ("openai", "gemini" or "none").
// A missing API key yields Disabled.
func New(ctx context.Context, provider, apiKey, model string, log *zap.Logger) (Completer, error) {
	log = logging.OrNop(log)
	provider = strings.ToLower(provider)
	if provider == "none" || apiKey == "" {
		log.Info("text completion disabled", zap.String("provider", provider))
		return Disabled{}, nil
	}
	switch provider {
	case "openai":
		return NewOpenAI(apiKey, model), nil
	case "gemini":
		return NewGemini(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// Func adapts an ordinary function to a Completer.
type Func func(ctx context.Context, p Prompt) (string, error)

func (f Func) Complete(ctx context.Context, p Prompt) (string, error) { return f(ctx, p) }

func (Func) Name() string { return "func" }
