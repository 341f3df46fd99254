package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"

	"kazi-hub/internal/config"
	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/normalize"
)

// FeedSource consumes a syndication feed. The document is parsed as RSS
// first; Atom is tried only when RSS parsing yields no items.
type FeedSource struct {
	cfg    config.SourceConfig
	scrape config.ScrapeConfig
	client *http.Client
}

func NewFeedSource(cfg config.SourceConfig, scrape config.ScrapeConfig) *FeedSource {
	return &FeedSource{
		cfg:    cfg,
		scrape: scrape,
		client: newHTTPClient(scrape.HTTPTimeout),
	}
}

func (s *FeedSource) Name() string   { return s.cfg.Name }
func (s *FeedSource) Prefix() string { return s.cfg.Prefix }

type feedEntry struct {
	Title       string
	Link        string
	Description string
}

func (s *FeedSource) Fetch(ctx context.Context) ([]job.Posting, error) {
	body, err := getWithRetry(ctx, s.client, s.cfg.FeedURL, s.scrape.MaxRetries, s.scrape.RetryDelay)
	if err != nil {
		return nil, err
	}

	entries, err := parseFeedEntries(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, s.cfg.FeedURL, err)
	}

	limit := s.cfg.ItemCap
	if limit <= 0 {
		limit = s.scrape.FeedItemCap
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	postings := make([]job.Posting, 0, len(entries))
	for _, en := range entries {
		title, company := splitFeedTitle(en.Title)
		if title == "" {
			continue
		}
		postings = append(postings, s.posting(en, title, company, len(postings)))
	}
	return postings, nil
}

func (s *FeedSource) posting(en feedEntry, title, company string, ordinal int) job.Posting {
	st := s.cfg.Static

	company = pickNonEmpty(company, st.Company)
	if company == "" {
		company = job.CompanyNotSpecified
	}
	location := st.Location
	if location == "" {
		location = job.LocationKenya
	}
	county := st.County
	if county == "" {
		county = normalize.County(location)
	}
	jobType := st.Type
	if jobType == "" {
		jobType = normalize.JobType(title + " " + company)
	}
	sector := st.Sector
	if sector == "" {
		sector = normalize.Sector(title)
	}
	salary := st.Salary
	if salary == "" {
		salary = job.SalaryNotStated
	}

	link := strings.TrimSpace(en.Link)
	if link == "" {
		link = s.cfg.BaseURL
	} else {
		link = absoluteURL(s.cfg.BaseURL, link)
	}

	p := job.Posting{
		ID:         fmt.Sprintf("%s%d", s.cfg.Prefix, ordinal),
		Title:      title,
		Company:    company,
		Location:   location,
		County:     county,
		Type:       jobType,
		Sector:     sector,
		Salary:     salary,
		Link:       link,
		ApplyEmail: st.ApplyEmail,
		Source:     s.cfg.Name,
		ScrapedAt:  time.Now().UTC(),
	}

	if desc := normalize.Clean(normalize.StripHTML(en.Description)); desc != "" {
		p.Description = job.TruncateDescription(desc)
		if p.ApplyEmail == "" {
			p.ApplyEmail = normalize.Email(desc)
		}
	}
	return p
}

func parseFeedEntries(body []byte) ([]feedEntry, error) {
	rp := &rss.Parser{}
	if feed, err := rp.Parse(bytes.NewReader(body)); err == nil && feed != nil && len(feed.Items) > 0 {
		out := make([]feedEntry, 0, len(feed.Items))
		for _, it := range feed.Items {
			if it == nil {
				continue
			}
			out = append(out, feedEntry{
				Title:       it.Title,
				Link:        it.Link,
				Description: it.Description,
			})
		}
		return out, nil
	}

	ap := &atom.Parser{}
	feed, err := ap.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	out := make([]feedEntry, 0, len(feed.Entries))
	for _, en := range feed.Entries {
		if en == nil {
			continue
		}
		e := feedEntry{
			Title:       en.Title,
			Description: en.Summary,
		}
		if len(en.Links) > 0 && en.Links[0] != nil {
			e.Link = en.Links[0].Href
		}
		out = append(out, e)
	}
	return out, nil
}

// splitFeedTitle splits "Role at Employer" style feed titles into title and
// company. Separators are tried in a fixed order; a split only sticks when
// both halves are non-empty.
func splitFeedTitle(raw string) (string, string) {
	raw = normalize.Clean(raw)
	for _, sep := range []string{" at ", " - ", " | "} {
		i := strings.Index(raw, sep)
		if i <= 0 {
			continue
		}
		title := strings.TrimSpace(raw[:i])
		company := strings.TrimSpace(raw[i+len(sep):])
		if title != "" && company != "" {
			return title, company
		}
	}
	return raw, ""
}
