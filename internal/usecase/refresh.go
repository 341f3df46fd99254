package usecase

import (
	"context"
	"log"
)

// RefreshTrigger starts an ingest run on demand. The scheduler's
// implementation returns its in-flight sentinel when one is running.
type RefreshTrigger interface {
	TriggerRefresh(ctx context.Context) error
}

type RefreshUsecase interface {
	Trigger(ctx context.Context) error
}

type Refresh struct {
	sched RefreshTrigger
	log   *log.Logger
}

func NewRefreshUsecase(sched RefreshTrigger, logger *log.Logger) *Refresh {
	return &Refresh{sched: sched, log: logger}
}

func (u *Refresh) Trigger(ctx context.Context) error {
	if u == nil || u.sched == nil {
		return ErrInternal
	}
	if err := u.sched.TriggerRefresh(ctx); err != nil {
		return err
	}
	if u.log != nil {
		u.log.Printf("[Admin] manual refresh accepted")
	}
	return nil
}
