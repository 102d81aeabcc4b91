package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DisabledWithoutKey(t *testing.T) {
	c, err := New(context.Background(), "openai", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "none", c.Name())

	_, err = c.Complete(context.Background(), SymbolPrompt("台積電"))
	assert.ErrorIs(t, err, ErrDisabled)

	c, err = New(context.Background(), "none", "key", "", nil)
	require.NoError(t, err)
	assert.IsType(t, Disabled{}, c)
}

func TestNew_Providers(t *testing.T) {
	c, err := New(context.Background(), "OpenAI", "sk-test", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	_, err = New(context.Background(), "claude", "key", "", nil)
	assert.ErrorContains(t, err, "unknown llm provider")
}

func TestPrompts(t *testing.T) {
	p := SymbolPrompt("聯發科")
	assert.Contains(t, p.User, "輸入：聯發科")
	assert.Equal(t, 50, p.MaxTokens)
	assert.False(t, p.JSON)

	p = NewsPrompt("2330.TW")
	assert.Contains(t, p.User, "2330.TW")
	assert.Equal(t, float32(0.7), p.Temperature)

	p = AnalysisPrompt("股票代號: AAPL")
	assert.True(t, p.JSON)
	assert.NotEmpty(t, p.System)
	assert.Contains(t, p.User, "股票代號: AAPL")
}

func TestFunc(t *testing.T) {
	var got Prompt
	c := Func(func(_ context.Context, p Prompt) (string, error) {
		got = p
		return "2330.TW", nil
	})
	out, err := c.Complete(context.Background(), SymbolPrompt("x"))
	require.NoError(t, err)
	assert.Equal(t, "2330.TW", out)
	assert.Equal(t, 50, got.MaxTokens)
}
