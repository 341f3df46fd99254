// Package scheduler drives the periodic ingest loop and guards it so at
// most one run is in flight, whether started by the cron tick or by an
// admin refresh request.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"kazi-hub/internal/pipeline"
)

// ErrAlreadyRunning is returned when a refresh is requested while a run
// is still in flight.
var ErrAlreadyRunning = errors.New("refresh already running")

const (
	StateIdle    = "idle"
	StateRunning = "running"
)

// Runner executes one full ingest cycle.
type Runner interface {
	Run(ctx context.Context) (pipeline.RunStats, error)
}

// Scheduler wraps robfig/cron and serializes runs with a compare-and-swap
// flag. Ticks that land while a run is active are skipped, not queued.
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	interval time.Duration
	spec     string
	logger   *log.Logger

	running atomic.Bool
	wg      sync.WaitGroup

	mu        sync.RWMutex
	lastRun   time.Time
	lastStats *pipeline.RunStats
}

func New(runner Runner, interval time.Duration, logger *log.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLogger(cron.DefaultLogger)),
		runner:   runner,
		interval: interval,
		spec:     fmt.Sprintf("@every %s", interval),
		logger:   logger,
	}
}

// Interval reports the configured gap between scheduled runs.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start registers the cron entry and fires one run immediately so a fresh
// deployment serves data without waiting a full interval.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if err := s.tryRun(ctx); errors.Is(err, ErrAlreadyRunning) {
			s.logger.Printf("[Scheduler] tick skipped, refresh in flight")
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Printf("[Scheduler] started | spec=%s", s.spec)

	if err := s.tryRun(ctx); err != nil {
		s.logger.Printf("[Scheduler] initial run not started | err=%v", err)
	}
	return nil
}

// TriggerRefresh starts a run on demand. It returns ErrAlreadyRunning
// when one is in flight; the run itself proceeds in the background.
func (s *Scheduler) TriggerRefresh(ctx context.Context) error {
	return s.tryRun(ctx)
}

func (s *Scheduler) tryRun(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		stats, err := s.runner.Run(ctx)
		if err != nil {
			s.logger.Printf("[Scheduler] run finished with error | run_id=%s err=%v", stats.RunID, err)
		}

		finished := stats.FinishedAt
		if finished.IsZero() {
			finished = time.Now().UTC()
		}

		s.mu.Lock()
		s.lastRun = finished
		s.lastStats = &stats
		s.mu.Unlock()
	}()
	return nil
}

// State reports whether a run is currently in flight.
func (s *Scheduler) State() string {
	if s.running.Load() {
		return StateRunning
	}
	return StateIdle
}

// LastRun reports when the most recent run finished. The second return
// is false before the first run completes.
func (s *Scheduler) LastRun() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, !s.lastRun.IsZero()
}

// LastStats returns a copy of the most recent run's stats, or nil before
// the first run completes.
func (s *Scheduler) LastStats() *pipeline.RunStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastStats == nil {
		return nil
	}
	st := *s.lastStats
	st.Sources = append([]pipeline.SourceResult(nil), s.lastStats.Sources...)
	return &st
}

// Stop halts the cron loop and waits for any in-flight run to finish, up
// to the context deadline.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cron.Stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Printf("[Scheduler] stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
