package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"kazi-hub/internal/database"
	"kazi-hub/internal/domain/job"
)

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.vals) {
		return fmt.Errorf("scan dest mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int:
			v, ok := r.vals[i].(int)
			if !ok {
				return fmt.Errorf("scan type mismatch int")
			}
			*d = v
		case *time.Time:
			v, ok := r.vals[i].(time.Time)
			if !ok {
				return fmt.Errorf("scan type mismatch time")
			}
			*d = v
		case *[]byte:
			v, ok := r.vals[i].([]byte)
			if !ok {
				return fmt.Errorf("scan type mismatch bytes")
			}
			*d = v
		default:
			return fmt.Errorf("unsupported scan type")
		}
	}
	return nil
}

type fakeDB struct {
	mu sync.Mutex

	schemaCreated bool
	hasRow        bool
	total         int
	generatedAt   time.Time
	jobs          []byte

	failExec bool
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close() error                   { return nil }
func (db *fakeDB) SQLDB() *sql.DB                 { return nil }

func (db *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.failExec {
		return 0, fmt.Errorf("connection refused")
	}

	q := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(q, "create table if not exists snapshots"):
		db.schemaCreated = true
		return 0, nil

	case strings.HasPrefix(q, "insert into snapshots"):
		db.total = args[0].(int)
		db.generatedAt = args[1].(time.Time)
		db.jobs = args[2].([]byte)
		db.hasRow = true
		return 1, nil

	default:
		return 0, fmt.Errorf("unsupported exec: %s", q)
	}
}

func (db *fakeDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	db.mu.Lock()
	defer db.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if strings.HasPrefix(q, "select total, generated_at, jobs from snapshots") {
		if !db.hasRow {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{vals: []any{db.total, db.generatedAt, db.jobs}}
	}
	return fakeRow{err: fmt.Errorf("unsupported queryrow")}
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	db := &fakeDB{}
	s := NewPostgresStore(db)

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if !db.schemaCreated {
		t.Fatal("expected schema statement to run")
	}

	snap := job.NewSnapshot([]job.Posting{
		{ID: "fuzu-0", Title: "Backend Developer", Company: "TechCo"},
		{ID: "cp-0", Title: "Clerk", Company: "County"},
	})
	if err := s.Save(context.Background(), snap); err != nil {
		t.Fatalf("save error: %v", err)
	}

	got, err := s.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest error: %v", err)
	}
	if got.Total != 2 || len(got.Jobs) != 2 {
		t.Fatalf("unexpected snapshot: total=%d jobs=%d", got.Total, len(got.Jobs))
	}
	if got.Jobs[0].ID != "fuzu-0" {
		t.Fatalf("unexpected first job: %+v", got.Jobs[0])
	}
	if !got.GeneratedAt.Equal(snap.GeneratedAt) {
		t.Fatalf("generated_at drifted: %v vs %v", got.GeneratedAt, snap.GeneratedAt)
	}
}

func TestPostgresStoreNoRow(t *testing.T) {
	s := NewPostgresStore(&fakeDB{})
	if _, err := s.Latest(context.Background()); !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestPostgresStoreSaveFailure(t *testing.T) {
	s := NewPostgresStore(&fakeDB{failExec: true})
	err := s.Save(context.Background(), job.NewSnapshot(nil))
	if err == nil {
		t.Fatal("expected save error")
	}
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
}
