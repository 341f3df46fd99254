// Command scraper runs one ingest cycle and exits. It shares the server's
// configuration, so whatever store the server reads is what gets written.
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"kazi-hub/internal/app"
	"kazi-hub/internal/config"
)

func main() {
	sourcesFile := flag.String("sources", "", "path to a sources JSON catalog (overrides SOURCES_FILE)")
	timeout := flag.Duration("timeout", 20*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if s := strings.TrimSpace(*sourcesFile); s != "" {
		cfg.Scrape.SourcesFile = s
	}

	c, err := app.NewContainer(cfg, log.Default())
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	stats, err := c.Orchestrator.Run(ctx)
	for _, src := range stats.Sources {
		if src.Err != "" {
			log.Printf("source %-22s postings=%d err=%s", src.Source, src.Count, src.Err)
			continue
		}
		log.Printf("source %-22s postings=%d", src.Source, src.Count)
	}
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}
	log.Printf("run %s done | total=%d collected=%d duplicates=%d duration=%s",
		stats.RunID, stats.Total, stats.Collected, stats.Duplicates, stats.Duration)
}
