package scraper

import (
	"context"
	"fmt"

	"kazi-hub/internal/config"
	"kazi-hub/internal/domain/job"
)

// Source is one upstream job board. Fetch returns every posting it could
// extract; a non-nil error may accompany partial results when some pages
// failed mid-run.
type Source interface {
	Name() string
	Prefix() string
	Fetch(ctx context.Context) ([]job.Posting, error)
}

// BuildSources turns the source catalog into runnable adapters, preserving
// catalog order.
func BuildSources(cfgs []config.SourceConfig, scrape config.ScrapeConfig) ([]Source, error) {
	sources := make([]Source, 0, len(cfgs))
	for _, cfg := range cfgs {
		switch cfg.Kind {
		case config.SourceListing:
			sources = append(sources, NewListingSource(cfg, scrape))
		case config.SourceAPI:
			sources = append(sources, NewAPISource(cfg, scrape))
		case config.SourceFeed:
			sources = append(sources, NewFeedSource(cfg, scrape))
		default:
			return nil, fmt.Errorf("source %s: unknown kind %q", cfg.Name, cfg.Kind)
		}
	}
	return sources, nil
}
