package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/scraper"
	"kazi-hub/internal/store"
)

// Notifier is told when a new snapshot generation goes live.
type Notifier interface {
	SnapshotPublished(snap *job.Snapshot)
}

// Invalidator drops cached query results that predate the new generation.
type Invalidator interface {
	InvalidateJobs(ctx context.Context) error
}

// SourceResult records one adapter's contribution to a run.
type SourceResult struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
	Err    string `json:"error,omitempty"`
}

// RunStats summarizes one ingest run.
type RunStats struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration
	Collected  int
	Duplicates int
	Total      int
	Sources    []SourceResult
}

// Orchestrator runs every source adapter, merges their output in catalog
// order, deduplicates, and publishes the result as one snapshot
// generation. A failing or panicking adapter costs only its own postings;
// only a persistence failure fails the run.
type Orchestrator struct {
	sources  []scraper.Source
	store    store.Store
	cache    Invalidator
	notify   Notifier
	parallel int
	log      *log.Logger
}

func NewOrchestrator(sources []scraper.Source, st store.Store, parallel int, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	if parallel <= 0 {
		parallel = 1
	}
	return &Orchestrator{
		sources:  sources,
		store:    st,
		parallel: parallel,
		log:      logger,
	}
}

// SetCache wires an optional cache invalidated after each publish.
func (o *Orchestrator) SetCache(c Invalidator) {
	if o != nil {
		o.cache = c
	}
}

// SetNotifier wires an optional publish listener.
func (o *Orchestrator) SetNotifier(n Notifier) {
	if o != nil {
		o.notify = n
	}
}

// Run executes one full ingest cycle: fetch, merge, dedupe, publish.
func (o *Orchestrator) Run(ctx context.Context) (RunStats, error) {
	start := time.Now().UTC()
	stats := RunStats{
		RunID:     uuid.NewString(),
		StartedAt: start,
		Sources:   make([]SourceResult, len(o.sources)),
	}

	o.log.Printf("pipeline=ingest run_id=%s status=started sources=%d", stats.RunID, len(o.sources))

	// Results are indexed by catalog position so the merge order is the
	// catalog order no matter which source finishes first.
	collected := make([][]job.Posting, len(o.sources))

	var g errgroup.Group
	g.SetLimit(o.parallel)
	for i, src := range o.sources {
		i, src := i, src
		g.Go(func() error {
			postings, err := fetchSource(ctx, src)
			collected[i] = postings
			res := SourceResult{Source: src.Name(), Count: len(postings)}
			if err != nil {
				res.Err = err.Error()
				o.log.Printf("pipeline=ingest run_id=%s source=%s status=error postings=%d err=%v",
					stats.RunID, src.Name(), len(postings), err)
			} else {
				o.log.Printf("pipeline=ingest run_id=%s source=%s status=ok postings=%d",
					stats.RunID, src.Name(), len(postings))
			}
			stats.Sources[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		stats.FinishedAt = time.Now().UTC()
		stats.Duration = stats.FinishedAt.Sub(start)
		return stats, err
	}

	merged := make([]job.Posting, 0)
	for _, batch := range collected {
		merged = append(merged, batch...)
	}
	stats.Collected = len(merged)

	unique := Dedupe(merged)
	stats.Duplicates = len(merged) - len(unique)
	SortByScrapedAt(unique)

	snap := job.NewSnapshot(unique)
	if err := o.store.Save(ctx, snap); err != nil {
		o.log.Printf("pipeline=ingest run_id=%s step=publish status=error err=%v", stats.RunID, err)
		stats.FinishedAt = time.Now().UTC()
		stats.Duration = stats.FinishedAt.Sub(start)
		return stats, fmt.Errorf("publish snapshot: %w", err)
	}
	stats.Total = snap.Total

	if o.cache != nil {
		if err := o.cache.InvalidateJobs(ctx); err != nil {
			o.log.Printf("pipeline=ingest run_id=%s step=cache_invalidate status=warn err=%v", stats.RunID, err)
		}
	}
	if o.notify != nil {
		o.notify.SnapshotPublished(snap)
	}

	stats.FinishedAt = time.Now().UTC()
	stats.Duration = stats.FinishedAt.Sub(start)
	o.log.Printf("pipeline=ingest run_id=%s status=finished total=%d collected=%d duplicates=%d duration=%s",
		stats.RunID, stats.Total, stats.Collected, stats.Duplicates, stats.Duration)
	return stats, nil
}

// fetchSource isolates one adapter: its error, or even a panic, is reduced
// to a value the run can account for.
func fetchSource(ctx context.Context, src scraper.Source) (postings []job.Posting, err error) {
	defer func() {
		if r := recover(); r != nil {
			postings = nil
			err = fmt.Errorf("source %s panicked: %v", src.Name(), r)
		}
	}()
	postings, err = src.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("source %s: %w", src.Name(), err)
	}
	return postings, err
}
