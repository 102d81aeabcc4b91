// Package scheduler runs the periodic session maintenance jobs.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockLens/internal/logging"
	"StockLens/internal/session"
)

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron    *cron.Cron
	Store   session.Store
	IdleTTL time.Duration
	Log     *zap.Logger
}

// NewScheduler creates a new Scheduler. Cron specs carry a seconds field.
func NewScheduler(store session.Store, idleTTL time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Store:   store,
		IdleTTL: idleTTL,
		Log:     logging.OrNop(log),
	}
}

// RegisterSweep schedules the idle-session sweep.
func (s *Scheduler) RegisterSweep(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.SweepNow() }); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Duration("idle_ttl", s.IdleTTL))
}

// Stop stops the cron scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// SweepNow drops idle sessions immediately and returns how many were removed.
func (s *Scheduler) SweepNow() int {
	n, err := s.Store.Sweep(s.IdleTTL)
	if err != nil {
		s.Log.Error("session sweep failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		s.Log.Info("idle sessions swept", zap.Int("count", n))
	}
	return n
}
