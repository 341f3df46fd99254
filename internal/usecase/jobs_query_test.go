package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/store"
)

type mockSnapshotStore struct {
	snap *job.Snapshot
	err  error
}

func (m mockSnapshotStore) Save(context.Context, *job.Snapshot) error { return nil }
func (m mockSnapshotStore) Latest(context.Context) (*job.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snap, nil
}

type mockQueryCache struct {
	data map[string][]byte
}

func newMockQueryCache() mockQueryCache {
	return mockQueryCache{data: map[string][]byte{}}
}

func (m mockQueryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m mockQueryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = b
	return nil
}

func querySnapshot() *job.Snapshot {
	return job.NewSnapshot([]job.Posting{
		{ID: "myjob-0", Title: "Senior Accountant", Company: "Equity Bank", County: "Nairobi", Sector: "Finance & Banking", Type: "Full-Time"},
		{ID: "psc-0", Title: "ICT Officer", Company: "County Government of Kisumu", County: "Kisumu", Sector: "ICT & Technology", Type: "Government"},
		{ID: "bm-0", Title: "Nurse", Company: "Aga Khan Hospital", County: "Nairobi", Sector: "Health & Medicine", Type: "Full-Time"},
	})
}

func TestJobsQuery_Query_InvalidLimit(t *testing.T) {
	uc := NewJobsQueryUsecase(mockSnapshotStore{snap: querySnapshot()}, nil, nil)
	_, err := uc.Query(context.Background(), JobsQueryParams{Limit: -1})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestJobsQuery_Query_NoSnapshot(t *testing.T) {
	uc := NewJobsQueryUsecase(mockSnapshotStore{err: store.ErrNoSnapshot}, nil, nil)
	res, err := uc.Query(context.Background(), JobsQueryParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Message == "" {
		t.Fatal("expected an explanatory message")
	}
	if res.Jobs == nil || len(res.Jobs) != 0 {
		t.Fatalf("expected empty jobs, got %v", res.Jobs)
	}
}

func TestJobsQuery_Query_Filters(t *testing.T) {
	uc := NewJobsQueryUsecase(mockSnapshotStore{snap: querySnapshot()}, nil, nil)

	cases := []struct {
		name    string
		params  JobsQueryParams
		wantIDs []string
	}{
		{"county substring", JobsQueryParams{County: "nairobi"}, []string{"myjob-0", "bm-0"}},
		{"sector substring", JobsQueryParams{Sector: "ict"}, []string{"psc-0"}},
		{"type substring", JobsQueryParams{Type: "full"}, []string{"myjob-0", "bm-0"}},
		{"keyword in title", JobsQueryParams{Q: "officer"}, []string{"psc-0"}},
		{"keyword in company", JobsQueryParams{Q: "equity"}, []string{"myjob-0"}},
		{"combined", JobsQueryParams{County: "nairobi", Q: "nurse"}, []string{"bm-0"}},
		{"no match", JobsQueryParams{County: "mandera"}, []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := uc.Query(context.Background(), tc.params)
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if res.Total != len(tc.wantIDs) {
				t.Fatalf("expected total %d, got %d", len(tc.wantIDs), res.Total)
			}
			for i, want := range tc.wantIDs {
				if res.Jobs[i].ID != want {
					t.Fatalf("position %d: expected %s, got %s", i, want, res.Jobs[i].ID)
				}
			}
		})
	}
}

func TestJobsQuery_Query_LimitAndTotal(t *testing.T) {
	uc := NewJobsQueryUsecase(mockSnapshotStore{snap: querySnapshot()}, nil, nil)

	res, err := uc.Query(context.Background(), JobsQueryParams{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("total must count all matches, got %d", res.Total)
	}
	if res.Returned != 2 || len(res.Jobs) != 2 {
		t.Fatalf("expected 2 returned, got %d (%d jobs)", res.Returned, len(res.Jobs))
	}
}

func TestJobsQuery_Query_LimitCapped(t *testing.T) {
	cache := newMockQueryCache()
	uc := NewJobsQueryUsecase(mockSnapshotStore{snap: querySnapshot()}, cache, nil)

	if _, err := uc.Query(context.Background(), JobsQueryParams{Limit: 5000}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	capped := JobsQueryCacheKey(JobsQueryParams{Limit: maxQueryLimit})
	if _, ok := cache.data[capped]; !ok {
		t.Fatalf("expected the oversized limit to be cached under the cap, keys: %d", len(cache.data))
	}
}

func TestJobsQuery_Query_CacheHit(t *testing.T) {
	cache := newMockQueryCache()
	params := JobsQueryParams{County: "nairobi", Limit: defaultQueryLimit}
	want := JobsQueryResult{Total: 42, Returned: 1, Jobs: []job.Posting{{ID: "cached-0"}}}

	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	cache.data[JobsQueryCacheKey(params)] = b

	// Store errors if consulted, so a pass proves the cache short-circuit.
	uc := NewJobsQueryUsecase(mockSnapshotStore{err: errors.New("store must not be called")}, cache, nil)

	res, err := uc.Query(context.Background(), JobsQueryParams{County: "nairobi"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Total != 42 || len(res.Jobs) != 1 || res.Jobs[0].ID != "cached-0" {
		t.Fatalf("expected cached result, got %+v", res)
	}
}
