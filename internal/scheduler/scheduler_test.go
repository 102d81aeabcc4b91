package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockLens/internal/session"
)

type fakeStore struct {
	session.Store
	mu     sync.Mutex
	idles  []time.Duration
	result int
	err    error
}

func (f *fakeStore) Sweep(idle time.Duration) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idles = append(f.idles, idle)
	return f.result, f.err
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.idles)
}

func TestSweepNow(t *testing.T) {
	store := &fakeStore{result: 3}
	s := NewScheduler(store, 2*time.Hour, nil)
	assert.Equal(t, 3, s.SweepNow())
	assert.Equal(t, []time.Duration{2 * time.Hour}, store.idles)

	store.err = errors.New("disk full")
	assert.Zero(t, s.SweepNow())
}

func TestRegisterSweep(t *testing.T) {
	s := NewScheduler(&fakeStore{}, time.Hour, nil)
	assert.Error(t, s.RegisterSweep("not a cron spec"))
	require.NoError(t, s.RegisterSweep("0 */10 * * * *"))
	assert.Len(t, s.Cron.Entries(), 1)
}

func TestScheduledSweepRuns(t *testing.T) {
	store := &fakeStore{}
	s := NewScheduler(store, time.Minute, nil)
	require.NoError(t, s.RegisterSweep("* * * * * *"))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return store.calls() > 0 }, 3*time.Second, 50*time.Millisecond)
}
