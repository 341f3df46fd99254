package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"

	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/scraper"
	"kazi-hub/internal/store"
)

type fakeSource struct {
	name     string
	prefix   string
	postings []job.Posting
	err      error
	panics   bool
	delay    time.Duration
}

func (s *fakeSource) Name() string   { return s.name }
func (s *fakeSource) Prefix() string { return s.prefix }

func (s *fakeSource) Fetch(ctx context.Context) ([]job.Posting, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.panics {
		panic("selector exploded")
	}
	return s.postings, s.err
}

type fakeSnapshotStore struct {
	mu    sync.Mutex
	saved *job.Snapshot
	saves int
	fail  bool
}

func (st *fakeSnapshotStore) Save(ctx context.Context, snap *job.Snapshot) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.fail {
		return errors.New("disk full")
	}
	st.saved = snap
	st.saves++
	return nil
}

func (st *fakeSnapshotStore) Latest(ctx context.Context) (*job.Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.saved == nil {
		return nil, store.ErrNoSnapshot
	}
	return st.saved, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	snaps []*job.Snapshot
}

func (n *fakeNotifier) SnapshotPublished(snap *job.Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.snaps = append(n.snaps, snap)
}

type fakeInvalidator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (i *fakeInvalidator) InvalidateJobs(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.calls++
	return i.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestOrchestratorMergesInCatalogOrder(t *testing.T) {
	slow := &fakeSource{
		name:   "alpha",
		prefix: "a-",
		delay:  20 * time.Millisecond,
		postings: []job.Posting{
			{ID: "a-0", Title: "Accountant", Company: "Acme"},
			{ID: "a-1", Title: "Driver", Company: "Acme"},
		},
	}
	fast := &fakeSource{
		name:     "beta",
		prefix:   "b-",
		postings: []job.Posting{{ID: "b-0", Title: "Nurse", Company: "Hospital"}},
	}

	st := &fakeSnapshotStore{}
	orch := NewOrchestrator([]scraper.Source{slow, fast}, st, 2, quietLogger())

	stats, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Collected != 3 || stats.Total != 3 || stats.Duplicates != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.RunID == "" {
		t.Fatal("expected a run id")
	}

	wantOrder := []string{"a-0", "a-1", "b-0"}
	for i, want := range wantOrder {
		if st.saved.Jobs[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, st.saved.Jobs[i].ID)
		}
	}
	if stats.Sources[0].Source != "alpha" || stats.Sources[0].Count != 2 {
		t.Fatalf("unexpected first source result: %+v", stats.Sources[0])
	}
	if stats.Sources[1].Source != "beta" || stats.Sources[1].Count != 1 {
		t.Fatalf("unexpected second source result: %+v", stats.Sources[1])
	}
}

func TestOrchestratorFirstCatalogSourceWinsDuplicates(t *testing.T) {
	// alpha finishes last but sits first in the catalog, so its copy of the
	// duplicated posting must be the one that survives.
	slow := &fakeSource{
		name:     "alpha",
		prefix:   "a-",
		delay:    10 * time.Millisecond,
		postings: []job.Posting{{ID: "a-0", Title: "Accountant", Company: "Acme", Source: "alpha"}},
	}
	fast := &fakeSource{
		name:     "beta",
		prefix:   "b-",
		postings: []job.Posting{{ID: "b-0", Title: "ACCOUNTANT", Company: "acme", Source: "beta"}},
	}

	st := &fakeSnapshotStore{}
	orch := NewOrchestrator([]scraper.Source{slow, fast}, st, 2, quietLogger())

	stats, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Total != 1 || stats.Duplicates != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if st.saved.Jobs[0].Source != "alpha" {
		t.Fatalf("expected the catalog-first copy to win, got %+v", st.saved.Jobs[0])
	}
}

func TestOrchestratorIsolatesSourceFailures(t *testing.T) {
	partial := &fakeSource{
		name:     "alpha",
		prefix:   "a-",
		postings: []job.Posting{{ID: "a-0", Title: "Clerk", Company: "County"}},
		err:      errors.New("page 2 unreachable"),
	}
	crashed := &fakeSource{name: "beta", prefix: "b-", panics: true}
	healthy := &fakeSource{
		name:     "gamma",
		prefix:   "c-",
		postings: []job.Posting{{ID: "c-0", Title: "Teacher", Company: "School"}},
	}

	st := &fakeSnapshotStore{}
	orch := NewOrchestrator([]scraper.Source{partial, crashed, healthy}, st, 3, quietLogger())

	stats, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("source failures must not fail the run: %v", err)
	}
	if stats.Total != 2 {
		t.Fatalf("expected partial + healthy postings, got %d", stats.Total)
	}
	if stats.Sources[0].Err == "" || stats.Sources[0].Count != 1 {
		t.Fatalf("expected partial source to report error and count: %+v", stats.Sources[0])
	}
	if !strings.Contains(stats.Sources[1].Err, "panicked") {
		t.Fatalf("expected panic to surface as error text: %+v", stats.Sources[1])
	}
	if stats.Sources[2].Err != "" {
		t.Fatalf("healthy source must report no error: %+v", stats.Sources[2])
	}
}

func TestOrchestratorPublishFailure(t *testing.T) {
	src := &fakeSource{
		name:     "alpha",
		prefix:   "a-",
		postings: []job.Posting{{ID: "a-0", Title: "Clerk", Company: "County"}},
	}
	st := &fakeSnapshotStore{fail: true}
	notify := &fakeNotifier{}

	orch := NewOrchestrator([]scraper.Source{src}, st, 1, quietLogger())
	orch.SetNotifier(notify)

	_, err := orch.Run(context.Background())
	if err == nil {
		t.Fatal("expected a publish error")
	}
	if len(notify.snaps) != 0 {
		t.Fatal("a failed publish must not notify listeners")
	}
}

func TestOrchestratorNotifiesAndInvalidates(t *testing.T) {
	src := &fakeSource{
		name:     "alpha",
		prefix:   "a-",
		postings: []job.Posting{{ID: "a-0", Title: "Clerk", Company: "County"}},
	}
	st := &fakeSnapshotStore{}
	notify := &fakeNotifier{}
	cache := &fakeInvalidator{err: errors.New("redis down")}

	orch := NewOrchestrator([]scraper.Source{src}, st, 1, quietLogger())
	orch.SetNotifier(notify)
	orch.SetCache(cache)

	if _, err := orch.Run(context.Background()); err != nil {
		t.Fatalf("cache invalidation failure must not fail the run: %v", err)
	}
	if cache.calls != 1 {
		t.Fatalf("expected one invalidation call, got %d", cache.calls)
	}
	if len(notify.snaps) != 1 || notify.snaps[0] != st.saved {
		t.Fatalf("expected the published snapshot to be broadcast, got %d", len(notify.snaps))
	}
}

func TestOrchestratorEmptyRunStillPublishes(t *testing.T) {
	src := &fakeSource{name: "alpha", prefix: "a-"}
	st := &fakeSnapshotStore{}

	orch := NewOrchestrator([]scraper.Source{src}, st, 1, quietLogger())
	stats, err := orch.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if stats.Total != 0 {
		t.Fatalf("expected empty generation, got %d", stats.Total)
	}
	if st.saved == nil || st.saved.Jobs == nil || len(st.saved.Jobs) != 0 {
		t.Fatalf("an empty generation must still publish, got %+v", st.saved)
	}
}

func TestOrchestratorCanceledContextSkipsPublish(t *testing.T) {
	src := &fakeSource{
		name:     "alpha",
		prefix:   "a-",
		postings: []job.Posting{{ID: "a-0", Title: "Clerk", Company: "County"}},
	}
	st := &fakeSnapshotStore{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := NewOrchestrator([]scraper.Source{src}, st, 1, quietLogger())
	if _, err := orch.Run(ctx); err == nil {
		t.Fatal("expected the canceled context to surface")
	}
	if st.saves != 0 {
		t.Fatal("a canceled run must not overwrite the previous snapshot")
	}
}
