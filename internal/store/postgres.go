package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"kazi-hub/internal/database"
	"kazi-hub/internal/domain/job"
)

// PostgresStore keeps the latest snapshot in a single-row table. The
// publish is one upsert statement, so a concurrent reader sees either the
// old row or the new one in full.
type PostgresStore struct {
	db database.DB
}

func NewPostgresStore(db database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the snapshots table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil store/db")
	}
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS snapshots (
		id SMALLINT PRIMARY KEY,
		total INTEGER NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL,
		jobs JSONB NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("ensure snapshots schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, snap *job.Snapshot) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("%w: nil store/db", ErrPersist)
	}
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrPersist)
	}

	jobs, err := json.Marshal(snap.Jobs)
	if err != nil {
		return fmt.Errorf("%w: encode jobs: %v", ErrPersist, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO snapshots (id, total, generated_at, jobs) VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			total = EXCLUDED.total,
			generated_at = EXCLUDED.generated_at,
			jobs = EXCLUDED.jobs`,
		snap.Total, snap.GeneratedAt, jobs,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert snapshot: %v", ErrPersist, err)
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context) (*job.Snapshot, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("nil store/db")
	}

	row := s.db.QueryRow(ctx, `SELECT total, generated_at, jobs FROM snapshots WHERE id = 1`)

	var total int
	var generatedAt time.Time
	var jobsRaw []byte
	if err := row.Scan(&total, &generatedAt, &jobsRaw); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}

	jobs := []job.Posting{}
	if len(jobsRaw) > 0 {
		if err := json.Unmarshal(jobsRaw, &jobs); err != nil {
			return nil, fmt.Errorf("decode snapshot row: %w", err)
		}
	}
	if jobs == nil {
		jobs = []job.Posting{}
	}

	return &job.Snapshot{
		Total:       len(jobs),
		GeneratedAt: generatedAt,
		Jobs:        jobs,
	}, nil
}
