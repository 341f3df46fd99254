package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"kazi-hub/internal/domain/job"
)

// FileStore publishes snapshots to a single JSON file. Writes go to a temp
// file in the same directory followed by a rename, so external readers of
// the path never see a torn document. The last published generation is
// also kept in memory; the disk copy only serves cold starts.
type FileStore struct {
	path string

	mu     sync.RWMutex
	cached *job.Snapshot
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func (s *FileStore) Save(ctx context.Context, snap *job.Snapshot) error {
	if s == nil || snap == nil {
		return fmt.Errorf("%w: nil store/snapshot", ErrPersist)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersist, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", ErrPersist, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write: %v", ErrPersist, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: sync: %v", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close: %v", ErrPersist, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename: %v", ErrPersist, err)
	}

	s.mu.Lock()
	s.cached = snap
	s.mu.Unlock()
	return nil
}

func (s *FileStore) Latest(ctx context.Context) (*job.Snapshot, error) {
	if s == nil {
		return nil, ErrNoSnapshot
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}

	var snap job.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot file %s: %w", s.path, err)
	}
	if snap.Jobs == nil {
		snap.Jobs = []job.Posting{}
	}
	// Total is derived, never trusted: a hand-edited file must not be able
	// to break the total == len(jobs) contract.
	snap.Total = len(snap.Jobs)

	s.mu.Lock()
	s.cached = &snap
	s.mu.Unlock()
	return &snap, nil
}
