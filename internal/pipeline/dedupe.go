package pipeline

import (
	"sort"
	"strings"

	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/normalize"
)

// keyPrefixLen bounds the title part of a dedup key so trivially extended
// titles ("... (Re-advertised)") still collide with the base advert.
const keyPrefixLen = 64

// Key builds the identity a posting is deduplicated on: the lowercased,
// whitespace-collapsed title cut to keyPrefixLen runes, joined with the
// lowercased company. The source is deliberately not part of the key —
// the same advert syndicated to two boards is one job.
func Key(p job.Posting) string {
	title := strings.ToLower(normalize.Clean(p.Title))
	if r := []rune(title); len(r) > keyPrefixLen {
		title = string(r[:keyPrefixLen])
	}
	company := strings.ToLower(normalize.Clean(p.Company))
	return title + "|" + company
}

// Dedupe keeps the first posting seen for each key, preserving input
// order. With input ordered by source catalog position, the earlier
// source wins every collision.
func Dedupe(postings []job.Posting) []job.Posting {
	seen := make(map[string]struct{}, len(postings))
	out := make([]job.Posting, 0, len(postings))
	for _, p := range postings {
		k := Key(p)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SortByScrapedAt orders postings newest first, keeping the relative order
// of postings with equal timestamps.
func SortByScrapedAt(postings []job.Posting) {
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].ScrapedAt.After(postings[j].ScrapedAt)
	})
}
