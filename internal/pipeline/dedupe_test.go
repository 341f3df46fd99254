package pipeline

import (
	"strings"
	"testing"
	"time"

	"kazi-hub/internal/domain/job"
)

func TestKeyNormalizesCaseAndWhitespace(t *testing.T) {
	a := Key(job.Posting{Title: "  Senior   Accountant ", Company: "ACME Ltd"})
	b := Key(job.Posting{Title: "senior accountant", Company: "acme ltd"})
	if a != b {
		t.Fatalf("expected matching keys, got %q vs %q", a, b)
	}
}

func TestKeyPrefixTruncation(t *testing.T) {
	base := strings.Repeat("x", keyPrefixLen)
	a := Key(job.Posting{Title: base + " alpha variant", Company: "Acme"})
	b := Key(job.Posting{Title: base + " beta variant", Company: "Acme"})
	if a != b {
		t.Fatalf("expected long titles to collide on their prefix, got %q vs %q", a, b)
	}

	short := Key(job.Posting{Title: "Clerk", Company: "Acme"})
	other := Key(job.Posting{Title: "Clerks", Company: "Acme"})
	if short == other {
		t.Fatal("short titles must not be padded into collisions")
	}
}

func TestDedupeFirstSeenWins(t *testing.T) {
	in := []job.Posting{
		{ID: "myjob-0", Title: "Accountant", Company: "Acme", Source: "MyJobInKenya"},
		{ID: "bm-0", Title: "ACCOUNTANT", Company: "acme", Source: "BrighterMonday"},
		{ID: "bm-1", Title: "Driver", Company: "Acme", Source: "BrighterMonday"},
	}

	out := Dedupe(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 unique postings, got %d", len(out))
	}
	if out[0].Source != "MyJobInKenya" {
		t.Fatalf("expected the first-seen posting to survive, got %+v", out[0])
	}
	if out[1].ID != "bm-1" {
		t.Fatalf("expected input order preserved, got %+v", out[1])
	}
}

func TestDedupeIdempotent(t *testing.T) {
	in := []job.Posting{
		{ID: "a", Title: "Nurse", Company: "Hospital"},
		{ID: "b", Title: "Nurse", Company: "Hospital"},
		{ID: "c", Title: "Teacher", Company: "School"},
	}

	once := Dedupe(in)
	twice := Dedupe(once)
	if len(once) != len(twice) {
		t.Fatalf("dedupe is not idempotent: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("dedupe reordered on second pass at %d: %s vs %s", i, once[i].ID, twice[i].ID)
		}
	}
}

func TestSortByScrapedAtStable(t *testing.T) {
	older := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 8, 1, 11, 0, 0, 0, time.UTC)

	postings := []job.Posting{
		{ID: "a", ScrapedAt: older},
		{ID: "b", ScrapedAt: newer},
		{ID: "c", ScrapedAt: newer},
		{ID: "d", ScrapedAt: older},
	}

	SortByScrapedAt(postings)

	wantOrder := []string{"b", "c", "a", "d"}
	for i, want := range wantOrder {
		if postings[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, postings[i].ID)
		}
	}
}
