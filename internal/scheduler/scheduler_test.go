package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"kazi-hub/internal/pipeline"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls int
	block chan struct{}
	stats pipeline.RunStats
	err   error
}

func (r *fakeRunner) Run(ctx context.Context) (pipeline.RunStats, error) {
	r.mu.Lock()
	r.calls++
	block := r.block
	r.mu.Unlock()

	if block != nil {
		<-block
	}

	stats := r.stats
	if stats.FinishedAt.IsZero() {
		stats.FinishedAt = time.Now().UTC()
	}
	return stats, r.err
}

func (r *fakeRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestSchedulerRunsImmediatelyOnStart(t *testing.T) {
	runner := &fakeRunner{stats: pipeline.RunStats{RunID: "run-1", Total: 3}}
	s := New(runner, time.Hour, quietLogger())

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer func() { _ = s.Stop(context.Background()) }()

	waitFor(t, 2*time.Second, func() bool { return runner.callCount() == 1 })
	waitFor(t, 2*time.Second, func() bool { return s.State() == StateIdle })

	if _, ok := s.LastRun(); !ok {
		t.Fatal("expected last run to be recorded")
	}
	if got := s.LastStats(); got == nil || got.Total != 3 {
		t.Fatalf("expected last stats from the run, got %+v", got)
	}
}

func TestTriggerRefreshRejectsConcurrentRuns(t *testing.T) {
	block := make(chan struct{})
	runner := &fakeRunner{block: block}
	s := New(runner, time.Hour, quietLogger())

	if err := s.TriggerRefresh(context.Background()); err != nil {
		t.Fatalf("first trigger failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return s.State() == StateRunning })

	if err := s.TriggerRefresh(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	close(block)
	waitFor(t, 2*time.Second, func() bool { return s.State() == StateIdle })

	runner.mu.Lock()
	runner.block = nil
	runner.mu.Unlock()

	if err := s.TriggerRefresh(context.Background()); err != nil {
		t.Fatalf("trigger after completion failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return runner.callCount() == 2 })
}

func TestSchedulerRecordsStatsOnFailedRun(t *testing.T) {
	runner := &fakeRunner{
		stats: pipeline.RunStats{RunID: "run-err"},
		err:   errors.New("publish snapshot: disk full"),
	}
	s := New(runner, time.Hour, quietLogger())

	if err := s.TriggerRefresh(context.Background()); err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return s.LastStats() != nil })

	if got := s.LastStats(); got.RunID != "run-err" {
		t.Fatalf("expected failed run stats to be retained, got %+v", got)
	}
}

func TestSchedulerStopWaitsForInflightRun(t *testing.T) {
	block := make(chan struct{})
	runner := &fakeRunner{block: block}
	s := New(runner, time.Hour, quietLogger())

	if err := s.TriggerRefresh(context.Background()); err != nil {
		t.Fatalf("trigger failed: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return s.State() == StateRunning })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline while run blocked, got %v", err)
	}

	close(block)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop after unblock failed: %v", err)
	}
}

func TestSchedulerDefaultsInterval(t *testing.T) {
	s := New(&fakeRunner{}, 0, quietLogger())
	if s.Interval() != time.Hour {
		t.Fatalf("expected 1h default, got %s", s.Interval())
	}
}
