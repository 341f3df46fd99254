package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSourcesOrder(t *testing.T) {
	sources := DefaultSources()
	if len(sources) != 6 {
		t.Fatalf("expected 6 built-in sources, got %d", len(sources))
	}

	wantPrefixes := []string{"myjob-", "bm-", "fuzu-", "psc-", "ngo-", "cp-"}
	for i, want := range wantPrefixes {
		if sources[i].Prefix != want {
			t.Fatalf("source %d: expected prefix %q, got %q", i, want, sources[i].Prefix)
		}
	}
}

func TestDefaultSourcesKinds(t *testing.T) {
	byPrefix := map[string]SourceConfig{}
	for _, s := range DefaultSources() {
		byPrefix[s.Prefix] = s
	}

	if byPrefix["fuzu-"].Kind != SourceAPI {
		t.Fatalf("expected fuzu- to be an api source, got %q", byPrefix["fuzu-"].Kind)
	}
	if byPrefix["ngo-"].Kind != SourceFeed {
		t.Fatalf("expected ngo- to be a feed source, got %q", byPrefix["ngo-"].Kind)
	}
	for _, prefix := range []string{"myjob-", "bm-", "psc-", "cp-"} {
		if byPrefix[prefix].Kind != SourceListing {
			t.Fatalf("expected %s to be a listing source, got %q", prefix, byPrefix[prefix].Kind)
		}
	}

	if byPrefix["psc-"].Static.Company != "Public Service Commission Kenya" {
		t.Fatalf("unexpected psc static company %q", byPrefix["psc-"].Static.Company)
	}
	if !byPrefix["bm-"].DetailPages {
		t.Fatal("expected bm- to fetch detail pages")
	}
}

func TestLoadSourcesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.json")
	body := `[
		{"name": "Example Board", "kind": "listing", "prefix": "ex-", "base_url": "https://example.com", "page_path": "/jobs?page=%d", "pages": 2, "item_selectors": ["article"]},
		{"name": "Example Feed", "kind": "feed", "prefix": "exf-", "feed_url": "https://example.com/feed/"}
	]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}

	sources, err := LoadSourcesFile(path)
	if err != nil {
		t.Fatalf("LoadSourcesFile returned error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Prefix != "ex-" || sources[0].Pages != 2 {
		t.Fatalf("unexpected first source: %+v", sources[0])
	}
	if sources[1].Kind != SourceFeed {
		t.Fatalf("expected feed kind, got %q", sources[1].Kind)
	}
}

func TestLoadSourcesFileRejectsBadEntries(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty array", `[]`},
		{"missing prefix", `[{"name": "X", "kind": "listing"}]`},
		{"unknown kind", `[{"name": "X", "kind": "scrape", "prefix": "x-"}]`},
		{"not json", `{nope`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sources.json")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write sources file: %v", err)
			}
			if _, err := LoadSourcesFile(path); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestSourceConfigsHeadlessToggle(t *testing.T) {
	var cfg Config
	cfg.Scrape.PSCHeadless = true

	sources, err := cfg.SourceConfigs()
	if err != nil {
		t.Fatalf("SourceConfigs returned error: %v", err)
	}

	for _, s := range sources {
		if s.Prefix == "psc-" && !s.Headless {
			t.Fatal("expected psc- source to be headless when PSC_HEADLESS is set")
		}
		if s.Prefix != "psc-" && s.Headless {
			t.Fatalf("expected %s to stay non-headless", s.Prefix)
		}
	}
}
