package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"kazi-hub/internal/config"
	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/normalize"
)

// ListingSource scrapes paginated HTML listing pages. All site-specific
// knowledge lives in the SourceConfig selector cascades, so a board whose
// markup drifts is fixed by editing its cascade, not the adapter.
type ListingSource struct {
	cfg    config.SourceConfig
	scrape config.ScrapeConfig
	client *http.Client
}

func NewListingSource(cfg config.SourceConfig, scrape config.ScrapeConfig) *ListingSource {
	return &ListingSource{
		cfg:    cfg,
		scrape: scrape,
		client: newHTTPClient(scrape.HTTPTimeout),
	}
}

func (s *ListingSource) Name() string   { return s.cfg.Name }
func (s *ListingSource) Prefix() string { return s.cfg.Prefix }

type listItem struct {
	Title    string
	Company  string
	Location string
	Deadline string
	Salary   string
	Link     string
}

// Fetch walks the configured pages in order. A dead page ends pagination
// but keeps whatever earlier pages produced; the first page error is
// returned alongside the partial results.
func (s *ListingSource) Fetch(ctx context.Context) ([]job.Posting, error) {
	postings := make([]job.Posting, 0)
	var pageErr error

	pages := maxInt(1, s.cfg.Pages)
	for page := 1; page <= pages; page++ {
		if ctx.Err() != nil {
			return postings, ctx.Err()
		}
		pageURL := s.pageURL(page)
		items, err := s.fetchPage(ctx, pageURL)
		if err != nil {
			log.Printf("[Scraper] %s: page %d failed | url=%s err=%v", s.cfg.Name, page, pageURL, err)
			pageErr = err
			break
		}
		for _, it := range items {
			title := normalize.Clean(it.Title)
			if title == "" {
				continue
			}
			if s.cfg.MinTitleLen > 0 && len([]rune(title)) < s.cfg.MinTitleLen {
				continue
			}
			postings = append(postings, s.posting(it, title, len(postings)))
		}
		if page < pages && s.scrape.PageDelay > 0 {
			time.Sleep(s.scrape.PageDelay)
		}
	}

	if s.cfg.DetailPages {
		s.enrichFromDetailPages(ctx, postings)
	}

	return postings, pageErr
}

func (s *ListingSource) pageURL(page int) string {
	path := s.cfg.PagePath
	if strings.Contains(path, "%d") {
		path = fmt.Sprintf(path, page)
	}
	return strings.TrimRight(s.cfg.BaseURL, "/") + path
}

func (s *ListingSource) fetchPage(ctx context.Context, pageURL string) ([]listItem, error) {
	if s.cfg.Headless {
		html, err := headlessHTML(ctx, pageURL, s.scrape.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, pageURL, err)
		}
		return s.extractItems(doc.Selection, func(href string) string {
			return absoluteURL(pageURL, href)
		}), nil
	}
	return s.visitPage(ctx, pageURL)
}

func (s *ListingSource) visitPage(ctx context.Context, pageURL string) ([]listItem, error) {
	allowed := hostFromURL(pageURL)
	var c *colly.Collector
	if allowed == "" {
		c = colly.NewCollector(colly.AllowURLRevisit())
	} else {
		c = colly.NewCollector(colly.AllowedDomains(allowed), colly.AllowURLRevisit())
	}
	c.SetRequestTimeout(s.scrape.HTTPTimeout)
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 500 * time.Millisecond, Delay: 250 * time.Millisecond})

	var items []listItem
	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		items = s.extractItems(e.DOM, e.Request.AbsoluteURL)
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	attempts := maxInt(1, s.scrape.MaxRetries)
	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		reqErr = nil
		err := c.Visit(pageURL)
		c.Wait()
		if err == nil && reqErr == nil {
			return items, nil
		}
		if reqErr == nil {
			reqErr = err
		}
		if i < attempts-1 {
			time.Sleep(s.scrape.RetryDelay)
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrFetch, pageURL, reqErr)
}

func (s *ListingSource) extractItems(root *goquery.Selection, makeAbs func(string) string) []listItem {
	blocks := firstMatch(root, s.cfg.ItemSelectors)
	if blocks == nil {
		return nil
	}
	items := make([]listItem, 0, blocks.Length())
	blocks.Each(func(_ int, block *goquery.Selection) {
		it := listItem{
			Title:    cascadeText(block, s.cfg.Fields.Title),
			Company:  cascadeText(block, s.cfg.Fields.Company),
			Location: cascadeText(block, s.cfg.Fields.Location),
			Deadline: cascadeText(block, s.cfg.Fields.Deadline),
			Salary:   cascadeText(block, s.cfg.Fields.Salary),
		}
		if href, ok := block.Find("a[href]").First().Attr("href"); ok {
			it.Link = makeAbs(strings.TrimSpace(href))
		}
		items = append(items, it)
	})
	return items
}

// posting builds the canonical record for one extracted item. Static
// config values backfill missing fields and, for county, type and sector,
// pin the classification outright.
func (s *ListingSource) posting(it listItem, title string, ordinal int) job.Posting {
	st := s.cfg.Static

	company := pickNonEmpty(it.Company, st.Company)
	if company == "" {
		company = job.CompanyNotSpecified
	}
	location := pickNonEmpty(it.Location, st.Location)
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
	salary := pickNonEmpty(it.Salary, st.Salary)
	if salary == "" {
		salary = job.SalaryNotStated
	}
	link := it.Link
	if link == "" {
		link = s.cfg.BaseURL
	}

	return job.Posting{
		ID:         fmt.Sprintf("%s%d", s.cfg.Prefix, ordinal),
		Title:      title,
		Company:    company,
		Location:   location,
		County:     county,
		Type:       jobType,
		Sector:     sector,
		Salary:     salary,
		Deadline:   it.Deadline,
		Link:       link,
		ApplyEmail: st.ApplyEmail,
		Source:     s.cfg.Name,
		ScrapedAt:  time.Now().UTC(),
	}
}
