package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDo_StopsOnFirstSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{Attempts: 3}, nil, "op", func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.New("boom")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_ExhaustsBudgetAndLogsEachAttempt(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sentinel := errors.New("upstream down")
	calls := 0

	err := Do(context.Background(), Policy{Attempts: 3, Delay: time.Millisecond}, zap.New(core), "quote",
		func(context.Context) error {
			calls++
			return sentinel
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, logs.Len())
	assert.Equal(t, "quote", logs.All()[0].ContextMap()["op"])
}

func TestDo_ZeroAttemptsStillCallsOnce(t *testing.T) {
	calls := 0
	_ = Do(context.Background(), Policy{}, nil, "op", func(context.Context) error {
		calls++
		return errors.New("x")
	})
	assert.Equal(t, 1, calls)
}

func TestDo_CancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 3, Delay: time.Hour}, nil, "op", func(context.Context) error {
		calls++
		cancel()
		return errors.New("x")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
