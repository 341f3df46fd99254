package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"kazi-hub/internal/pipeline"
	"kazi-hub/internal/store"
)

const (
	StatusOK     = "ok"
	StatusNoData = "no_data"
)

// SchedulerInfo is the read-only slice of the scheduler the status
// report needs.
type SchedulerInfo interface {
	State() string
	Interval() time.Duration
	LastRun() (time.Time, bool)
	LastStats() *pipeline.RunStats
}

type StatusReport struct {
	Status         string
	TotalJobs      int
	LastRun        time.Time
	Stale          bool
	SchedulerState string
	Interval       time.Duration
	Sources        []pipeline.SourceResult
	Message        string
}

type StatusUsecase interface {
	Status(ctx context.Context) (StatusReport, error)
}

type Status struct {
	store store.Store
	sched SchedulerInfo
	log   *log.Logger

	now func() time.Time
}

func NewStatusUsecase(st store.Store, sched SchedulerInfo, logger *log.Logger) *Status {
	return &Status{store: st, sched: sched, log: logger, now: time.Now}
}

func (u *Status) Status(ctx context.Context) (StatusReport, error) {
	if u == nil || u.store == nil {
		return StatusReport{Status: StatusNoData}, nil
	}

	rep := StatusReport{Status: StatusNoData}
	if u.sched != nil {
		rep.SchedulerState = u.sched.State()
		rep.Interval = u.sched.Interval()
		if stats := u.sched.LastStats(); stats != nil {
			rep.Sources = stats.Sources
		}
	}

	snap, err := u.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			rep.Message = "no snapshot published yet"
			return rep, nil
		}
		return StatusReport{}, err
	}

	rep.Status = StatusOK
	rep.TotalJobs = snap.Total
	rep.LastRun = snap.GeneratedAt
	if rep.Interval > 0 {
		// A snapshot older than two intervals means at least one full
		// cycle failed to publish.
		rep.Stale = u.now().UTC().Sub(snap.GeneratedAt) > 2*rep.Interval
		rep.Message = fmt.Sprintf("scraper runs every %s", rep.Interval)
	}
	return rep, nil
}
