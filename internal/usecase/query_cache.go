package usecase

import (
	"context"
	"time"
)

// QueryCache is the slice of the cache the jobs query needs. The Redis
// implementation degrades to a no-op when unavailable, so a nil check is
// the only guard callers need.
type QueryCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}
