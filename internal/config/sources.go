package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type SourceKind string

const (
	// SourceListing scrapes paginated HTML listing pages.
	SourceListing SourceKind = "listing"
	// SourceAPI reads a JSON API endpoint.
	SourceAPI SourceKind = "api"
	// SourceFeed consumes an RSS or Atom feed.
	SourceFeed SourceKind = "feed"
)

// FieldSelectors holds per-field CSS selector cascades for listing sources.
// Each entry is tried in order against a listing block; the first one that
// yields non-empty text wins.
type FieldSelectors struct {
	Title    []string `json:"title,omitempty"`
	Company  []string `json:"company,omitempty"`
	Location []string `json:"location,omitempty"`
	Deadline []string `json:"deadline,omitempty"`
	Salary   []string `json:"salary,omitempty"`
}

// StaticFields pin or backfill posting fields for a source. A non-empty
// value is used whenever extraction produced nothing for that field; county,
// type and sector values additionally replace the inferred classification.
type StaticFields struct {
	Company    string `json:"company,omitempty"`
	Location   string `json:"location,omitempty"`
	County     string `json:"county,omitempty"`
	Type       string `json:"type,omitempty"`
	Sector     string `json:"sector,omitempty"`
	Salary     string `json:"salary,omitempty"`
	ApplyEmail string `json:"apply_email,omitempty"`
}

// SourceConfig describes one upstream source. Site layout drift is handled
// by editing selector cascades here (or in the SOURCES_FILE override), not
// by changing adapter code.
type SourceConfig struct {
	Name   string     `json:"name"`
	Kind   SourceKind `json:"kind"`
	Prefix string     `json:"prefix"`

	// Listing sources.
	BaseURL         string         `json:"base_url,omitempty"`
	PagePath        string         `json:"page_path,omitempty"` // %d is the 1-based page number; no %d means a single page
	Pages           int            `json:"pages,omitempty"`
	ItemSelectors   []string       `json:"item_selectors,omitempty"`
	Fields          FieldSelectors `json:"fields,omitempty"`
	MinTitleLen     int            `json:"min_title_len,omitempty"`
	DetailPages     bool           `json:"detail_pages,omitempty"`
	DetailSelectors []string       `json:"detail_selectors,omitempty"`
	Headless        bool           `json:"headless,omitempty"`

	// API sources: JMESPath expressions locating the item array and each
	// canonical field within an item.
	URL        string            `json:"url,omitempty"`
	ItemsPath  string            `json:"items_path,omitempty"`
	FieldPaths map[string]string `json:"field_paths,omitempty"`

	// Feed sources.
	FeedURL string `json:"feed_url,omitempty"`
	ItemCap int    `json:"item_cap,omitempty"`

	Static StaticFields `json:"static,omitempty"`
}

// DefaultSources returns the built-in source catalog in its fixed run order.
func DefaultSources() []SourceConfig {
	return []SourceConfig{
		{
			Name:     "MyJobInKenya",
			Kind:     SourceListing,
			Prefix:   "myjob-",
			BaseURL:  "https://www.myjobinkenya.com",
			PagePath: "/jobs/?page=%d",
			Pages:    3,
			ItemSelectors: []string{
				"div[class*=job-item], div[class*=job_item], div[class*=job-post], div[class*=job_post], div[class*=listing]",
				"article",
				"li[class*=job]",
			},
			Fields: FieldSelectors{
				Title: []string{
					"h2[class*=title], h3[class*=title], h4[class*=title], a[class*=title]",
					"h2[class*=job-name], h3[class*=job-name], a[class*=job-name]",
				},
				Company:  []string{"[class*=company], [class*=employer], [class*=org]"},
				Location: []string{"[class*=location], [class*=county], [class*=city]"},
				Deadline: []string{"[class*=deadline], [class*=date], [class*=expir]"},
			},
		},
		{
			Name:     "BrighterMonday",
			Kind:     SourceListing,
			Prefix:   "bm-",
			BaseURL:  "https://www.brightermonday.co.ke",
			PagePath: "/jobs?page=%d",
			Pages:    3,
			ItemSelectors: []string{
				"article[class*=job], article[class*=listing]",
				"div[class*=job-card], div[class*=job_card], div[class*=listing-item], div[class*=listing_item]",
			},
			Fields: FieldSelectors{
				Title:    []string{"h2, h3, h4"},
				Company:  []string{"[class*=company], [class*=employer]"},
				Location: []string{"[class*=location], [class*=place]"},
				Salary:   []string{"[class*=salary], [class*=pay], [class*=remun]"},
			},
			DetailPages: true,
			DetailSelectors: []string{
				"[class*=description], [class*=detail], [class*=content], [class*=body]",
			},
		},
		{
			Name:      "Fuzu",
			Kind:      SourceAPI,
			Prefix:    "fuzu-",
			BaseURL:   "https://fuzu.com",
			URL:       "https://fuzu.com/api/v1/jobs?country=kenya",
			ItemsPath: "jobs",
			FieldPaths: map[string]string{
				"title":    "title",
				"company":  "company.name",
				"location": "location.name",
				"link":     "url",
				"deadline": "closing_at",
				"salary":   "salary_range",
			},
		},
		{
			Name:     "Public Service Commission",
			Kind:     SourceListing,
			Prefix:   "psc-",
			BaseURL:  "https://www.publicservice.go.ke",
			PagePath: "/index.php/job-opportunities",
			Pages:    1,
			ItemSelectors: []string{
				"div[class*=job], div[class*=vacancy], div[class*=opportunit]",
				"tr",
				"li",
			},
			Fields: FieldSelectors{
				Title: []string{"h2, h3, h4, a, td"},
			},
			MinTitleLen: 5,
			Static: StaticFields{
				Company:    "Public Service Commission Kenya",
				Location:   "Kenya",
				County:     "Nairobi",
				Type:       "Government",
				Sector:     "Government / Civil Service",
				Salary:     "Government Scale",
				ApplyEmail: "info@publicservice.go.ke",
			},
		},
		{
			Name:    "NGO Jobs Kenya",
			Kind:    SourceFeed,
			Prefix:  "ngo-",
			BaseURL: "https://www.ngojobskenya.com",
			FeedURL: "https://www.ngojobskenya.com/feed/",
			Static: StaticFields{
				Company: "NGO",
				Type:    "NGO",
				Sector:  "NGO / Non-Profit",
			},
		},
		{
			Name:     "Career Point Kenya",
			Kind:     SourceListing,
			Prefix:   "cp-",
			BaseURL:  "https://www.careerpointkenya.co.ke",
			PagePath: "/jobs/?page=%d",
			Pages:    2,
			ItemSelectors: []string{
				"div[class*=job], div[class*=listing], div[class*=post]",
				"article",
			},
			Fields: FieldSelectors{
				Title:    []string{"h2, h3, h4"},
				Company:  []string{"[class*=company], [class*=employer]"},
				Location: []string{"[class*=location], [class*=county]"},
				Deadline: []string{"[class*=deadline], [class*=closing], [class*=date]"},
			},
		},
	}
}

// SourceConfigs resolves the active source catalog: the SOURCES_FILE
// override when configured, the built-in defaults otherwise. The
// PSC_HEADLESS toggle is applied on top.
func (c Config) SourceConfigs() ([]SourceConfig, error) {
	sources := DefaultSources()

	if path := strings.TrimSpace(c.Scrape.SourcesFile); path != "" {
		loaded, err := LoadSourcesFile(path)
		if err != nil {
			return nil, err
		}
		sources = loaded
	}

	if c.Scrape.PSCHeadless {
		for i := range sources {
			if sources[i].Prefix == "psc-" {
				sources[i].Headless = true
			}
		}
	}

	return sources, nil
}

// LoadSourcesFile reads a JSON array of SourceConfig from path.
func LoadSourcesFile(path string) ([]SourceConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}
	var sources []SourceConfig
	if err := json.Unmarshal(b, &sources); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}
	for i, s := range sources {
		if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Prefix) == "" {
			return nil, fmt.Errorf("sources file %s: entry %d missing name or prefix", path, i)
		}
		switch s.Kind {
		case SourceListing, SourceAPI, SourceFeed:
		default:
			return nil, fmt.Errorf("sources file %s: entry %d has unknown kind %q", path, i, s.Kind)
		}
	}
	return sources, nil
}
