package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"kazi-hub/internal/config"
	"kazi-hub/internal/domain/job"
	"kazi-hub/internal/normalize"
)

// APISource reads postings from a JSON endpoint. The item array and every
// field are located by JMESPath expressions, so a new API is onboarded
// with configuration alone.
type APISource struct {
	cfg    config.SourceConfig
	scrape config.ScrapeConfig
	client *http.Client
}

func NewAPISource(cfg config.SourceConfig, scrape config.ScrapeConfig) *APISource {
	return &APISource{
		cfg:    cfg,
		scrape: scrape,
		client: newHTTPClient(scrape.HTTPTimeout),
	}
}

func (s *APISource) Name() string   { return s.cfg.Name }
func (s *APISource) Prefix() string { return s.cfg.Prefix }

func (s *APISource) Fetch(ctx context.Context) ([]job.Posting, error) {
	body, err := getWithRetry(ctx, s.client, s.cfg.URL, s.scrape.MaxRetries, s.scrape.RetryDelay)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, s.cfg.URL, err)
	}

	items := payload
	if path := strings.TrimSpace(s.cfg.ItemsPath); path != "" {
		found, err := jmespath.Search(path, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: items path %q: %v", ErrParse, path, err)
		}
		items = found
	}
	list, ok := items.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: items path %q did not yield an array", ErrParse, s.cfg.ItemsPath)
	}

	postings := make([]job.Posting, 0, len(list))
	for _, raw := range list {
		title := normalize.Clean(s.field(raw, "title"))
		if title == "" {
			continue
		}
		postings = append(postings, s.posting(raw, title, len(postings)))
	}
	return postings, nil
}

func (s *APISource) posting(raw any, title string, ordinal int) job.Posting {
	st := s.cfg.Static

	company := pickNonEmpty(normalize.Clean(s.field(raw, "company")), st.Company)
	if company == "" {
		company = job.CompanyNotSpecified
	}
	location := pickNonEmpty(normalize.Clean(s.field(raw, "location")), st.Location)
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
	salary := pickNonEmpty(normalize.Clean(s.field(raw, "salary")), st.Salary)
	if salary == "" {
		salary = job.SalaryNotStated
	}

	link := strings.TrimSpace(s.field(raw, "link"))
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
		Deadline:   normalize.Clean(s.field(raw, "deadline")),
		Link:       link,
		ApplyEmail: st.ApplyEmail,
		Source:     s.cfg.Name,
		ScrapedAt:  time.Now().UTC(),
	}

	if desc := normalize.Clean(normalize.StripHTML(s.field(raw, "description"))); desc != "" {
		p.Description = job.TruncateDescription(desc)
		if p.ApplyEmail == "" {
			p.ApplyEmail = normalize.Email(desc)
		}
	}
	return p
}

// field evaluates the configured JMESPath for name against one item.
// Missing paths and evaluation misses both come back empty.
func (s *APISource) field(item any, name string) string {
	expr, ok := s.cfg.FieldPaths[name]
	if !ok || strings.TrimSpace(expr) == "" {
		return ""
	}
	v, err := jmespath.Search(expr, item)
	if err != nil || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
