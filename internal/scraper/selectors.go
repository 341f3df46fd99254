package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kazi-hub/internal/normalize"
)

// firstMatch tries each selector in the cascade and returns the first
// non-empty node set, or nil when nothing matches.
func firstMatch(root *goquery.Selection, cascade []string) *goquery.Selection {
	for _, sel := range cascade {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		if found := root.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// cascadeText runs the cascade against root and returns the cleaned text of
// the first matched node. The winner is chosen at node-set level, so an
// element that exists but holds no text still settles the cascade.
func cascadeText(root *goquery.Selection, cascade []string) string {
	found := firstMatch(root, cascade)
	if found == nil {
		return ""
	}
	return normalize.Clean(found.First().Text())
}
