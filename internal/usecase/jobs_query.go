package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/store"
)

const (
	defaultQueryLimit = 50
	maxQueryLimit     = 200
)

type JobsQueryParams struct {
	County string
	Sector string
	Type   string
	Q      string
	Limit  int
}

// JobsQueryResult carries the filtered view of the latest snapshot.
// Total counts every match; Jobs holds at most Limit of them.
type JobsQueryResult struct {
	Total       int
	Returned    int
	GeneratedAt time.Time
	Jobs        []job.Posting
	Message     string
}

type JobsQueryUsecase interface {
	Query(ctx context.Context, params JobsQueryParams) (JobsQueryResult, error)
}

type JobsQuery struct {
	store  store.Store
	cache  QueryCache
	logger *log.Logger
}

func NewJobsQueryUsecase(st store.Store, cache QueryCache, logger *log.Logger) *JobsQuery {
	return &JobsQuery{store: st, cache: cache, logger: logger}
}

func (u *JobsQuery) Query(ctx context.Context, params JobsQueryParams) (JobsQueryResult, error) {
	if u == nil || u.store == nil {
		return JobsQueryResult{}, ErrInternal
	}

	limit := params.Limit
	if limit == 0 {
		limit = defaultQueryLimit
	}
	if limit < 0 {
		return JobsQueryResult{}, ErrInvalidInput
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}
	params.Limit = limit

	cacheKey := JobsQueryCacheKey(params)
	if u.cache != nil {
		var cached JobsQueryResult
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			if u.logger != nil {
				u.logger.Printf("[Jobs] Cache HIT: %s", cacheKey)
			}
			return cached, nil
		}
		if u.logger != nil {
			u.logger.Printf("[Jobs] Cache MISS: %s", cacheKey)
		}
	}

	snap, err := u.store.Latest(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoSnapshot) {
			return JobsQueryResult{
				Jobs:    []job.Posting{},
				Message: "Scraper has not run yet",
			}, nil
		}
		return JobsQueryResult{}, err
	}

	filtered := filterPostings(snap.Jobs, params)
	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	res := JobsQueryResult{
		Total:       total,
		Returned:    len(filtered),
		GeneratedAt: snap.GeneratedAt,
		Jobs:        filtered,
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, res, 0); err != nil && u.logger != nil {
			u.logger.Printf("[Jobs] Cache SET failed: %s err=%v", cacheKey, err)
		}
	}
	return res, nil
}

// filterPostings applies the case-insensitive substring filters. The
// keyword matches against title and company joined together.
func filterPostings(jobs []job.Posting, p JobsQueryParams) []job.Posting {
	county := normalizeFilterValue(p.County)
	sector := normalizeFilterValue(p.Sector)
	typ := normalizeFilterValue(p.Type)
	q := normalizeFilterValue(p.Q)

	out := make([]job.Posting, 0, len(jobs))
	for _, j := range jobs {
		if county != "" && !strings.Contains(strings.ToLower(j.County), county) {
			continue
		}
		if sector != "" && !strings.Contains(strings.ToLower(j.Sector), sector) {
			continue
		}
		if typ != "" && !strings.Contains(strings.ToLower(j.Type), typ) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(j.Title+j.Company), q) {
			continue
		}
		out = append(out, j)
	}
	return out
}
