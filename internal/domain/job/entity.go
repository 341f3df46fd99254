package job

import (
	"strings"
	"time"
)

// MaxDescriptionLen bounds the stored description body. Longer extractions
// are cut at this many runes before a posting is kept.
const MaxDescriptionLen = 2000

const (
	SalaryNotStated     = "Not stated"
	CompanyNotSpecified = "Not specified"
	LocationKenya       = "Kenya"
)

// Posting is the canonical record one adapter emits for one job advert.
// A posting is immutable after creation and lives for exactly one snapshot
// generation; the next run produces a fresh set.
type Posting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	County      string    `json:"county"`
	Type        string    `json:"type"`
	Sector      string    `json:"sector"`
	Salary      string    `json:"salary"`
	Deadline    string    `json:"deadline"`
	Link        string    `json:"link"`
	ApplyEmail  string    `json:"apply_email"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// Snapshot is one complete, atomically published generation of the dataset.
type Snapshot struct {
	Total       int       `json:"total"`
	GeneratedAt time.Time `json:"generated_at"`
	Jobs        []Posting `json:"jobs"`
}

// NewSnapshot wraps a merged posting slice with its metadata. Total is
// derived, never supplied, so it cannot disagree with len(Jobs).
func NewSnapshot(jobs []Posting) *Snapshot {
	if jobs == nil {
		jobs = []Posting{}
	}
	return &Snapshot{
		Total:       len(jobs),
		GeneratedAt: time.Now().UTC(),
		Jobs:        jobs,
	}
}

// Valid reports whether the snapshot satisfies its structural invariant.
func (s *Snapshot) Valid() bool {
	if s == nil {
		return false
	}
	return s.Total == len(s.Jobs)
}

// TruncateDescription cuts s to MaxDescriptionLen runes.
func TruncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= MaxDescriptionLen {
		return s
	}
	return string(r[:MaxDescriptionLen])
}

// HasTitle reports whether the posting carries a usable title. Postings
// without one are rejected at extraction time and never stored.
func (p Posting) HasTitle() bool {
	return strings.TrimSpace(p.Title) != ""
}
