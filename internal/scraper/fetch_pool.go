package scraper

import (
	"context"
	"sync"
	"time"
)

type fetchTask func(ctx context.Context) error

type fetchResult struct {
	Err error
}

// FetchPool runs page fetches on a fixed set of workers, optionally spacing
// task starts so an upstream board sees a bounded request rate.
type FetchPool struct {
	workers int
	tasks   chan fetchTask
	wg      sync.WaitGroup
	mu      sync.RWMutex
	pace    <-chan time.Time
	ticker  *time.Ticker
}

func NewFetchPool(workers, buffer int) *FetchPool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &FetchPool{
		workers: workers,
		tasks:   make(chan fetchTask, buffer),
	}
}

// SetSpacing enforces a minimum interval between task starts across all
// workers. A non-positive interval removes the pacing.
func (p *FetchPool) SetSpacing(interval time.Duration) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.pace = nil
	}
	p.mu.Unlock()
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	p.mu.Lock()
	p.ticker = t
	p.pace = t.C
	p.mu.Unlock()
}

func (p *FetchPool) Submit(t fetchTask) {
	if p == nil || t == nil {
		return
	}
	p.tasks <- t
}

func (p *FetchPool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.pace = nil
	}
	p.mu.Unlock()
	close(p.tasks)
}

// Run starts the workers and returns the result stream. The stream closes
// once Close has been called and every submitted task has finished.
func (p *FetchPool) Run(ctx context.Context) <-chan fetchResult {
	buf := p.workers * 1024
	if buf < 1 {
		buf = 1
	}
	out := make(chan fetchResult, buf)
	if p == nil {
		close(out)
		return out
	}

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if t == nil {
						continue
					}
					p.mu.RLock()
					pace := p.pace
					p.mu.RUnlock()
					if pace != nil {
						select {
						case <-ctx.Done():
							return
						case <-pace:
						}
					}
					err := t(ctx)
					select {
					case <-ctx.Done():
						return
					case out <- fetchResult{Err: err}:
					}
				}
			}
		}()
	}

	go func() {
		p.wg.Wait()
		close(out)
	}()

	return out
}
