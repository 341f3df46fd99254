// Package store persists published snapshot generations and serves the
// latest one to readers.
package store

import (
	"context"
	"errors"

	"kazi-hub/internal/domain/job"
)

// ErrNoSnapshot is returned by Latest before the first successful publish.
var ErrNoSnapshot = errors.New("no snapshot available")

// ErrPersist marks snapshot write failures.
var ErrPersist = errors.New("persist failed")

// Store publishes complete snapshots. Save must be atomic: a concurrent
// reader observes either the previous generation or the new one, never a
// mix.
type Store interface {
	Save(ctx context.Context, snap *job.Snapshot) error
	Latest(ctx context.Context) (*job.Snapshot, error)
}
