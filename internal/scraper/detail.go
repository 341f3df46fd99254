package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/normalize"
)

// enrichFromDetailPages fills descriptions and apply emails for sources
// that publish the full advert on a separate page. Fetches run through a
// small spaced pool so the board is not hammered; a failed detail page
// leaves its posting as extracted from the listing.
func (s *ListingSource) enrichFromDetailPages(ctx context.Context, postings []job.Posting) {
	if len(postings) == 0 {
		return
	}
	base := strings.TrimRight(s.cfg.BaseURL, "/")

	pool := NewFetchPool(2, len(postings))
	pool.SetSpacing(s.scrape.DetailDelay)
	results := pool.Run(ctx)

	for i := range postings {
		i := i
		link := strings.TrimSpace(postings[i].Link)
		if link == "" || strings.TrimRight(link, "/") == base {
			continue
		}
		pool.Submit(func(ctx context.Context) error {
			body, err := getWithRetry(ctx, s.client, link, s.scrape.MaxRetries, s.scrape.RetryDelay)
			if err != nil {
				return err
			}
			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrParse, link, err)
			}
			desc := cascadeText(doc.Selection, s.cfg.DetailSelectors)
			if desc == "" {
				return nil
			}
			postings[i].Description = job.TruncateDescription(desc)
			if email := normalize.Email(desc); email != "" {
				postings[i].ApplyEmail = email
			}
			return nil
		})
	}

	pool.Close()
	for res := range results {
		if res.Err != nil {
			log.Printf("[Scraper] %s: detail fetch failed | err=%v", s.cfg.Name, res.Err)
		}
	}
}
