package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"NewsVerifier/internal/adapter"
	"NewsVerifier/internal/config"
)

const feed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Google News</title>
<item><title>Central bank raises interest rates - Reuters</title><link>https://example.com/1</link><source url="https://www.reuters.com">Reuters</source></item>
<item><title>Central bank lifts rates again - AP</title><link>https://example.com/2</link><source url="https://apnews.com">AP</source></item>
</channel></rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feed))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(adapters ...config.AdapterConfig) config.Config {
	return config.Config{
		Logging: config.LoggingConfig{Level: "error"},
		Aggregation: config.AggregationConfig{
			AdapterTimeoutSec:   2,
			ResultLimit:         10,
			TopN:                5,
			MinTitleLength:      10,
			CredibleThreshold:   70,
			TargetDiversity:     5,
			SingleSourceScore:   20,
			ContradictionSpread: 60,
			Weights:             config.WeightsConfig{SourceCredibility: 1, CrossSourceConsistency: 1, FactChecking: 1, ContentQuality: 1},
		},
		Credibility: config.CredibilityConfig{Fallback: 40},
		Adapters:    adapters,
	}
}

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNewVerifiesThroughConfiguredAdapter(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t)
	cfg := testConfig(config.AdapterConfig{Name: "Feed", Kind: config.KindGoogleNews, Endpoint: srv.URL})
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "history.db")}
	cfg.Credibility.Sources = map[string]int{"Reuters": 97}

	application, err := New(cfg, discard())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = application.Close() })

	ctx := context.Background()
	report, err := application.Verifier().VerifyOnline(ctx, "central bank raises rates")
	if err != nil {
		t.Fatalf("VerifyOnline: %v", err)
	}
	if report.Result.ArticleCount != 2 {
		t.Fatalf("expected 2 articles, got %d", report.Result.ArticleCount)
	}
	if top := report.Result.TopSources[0]; top.SourceName != "Reuters" || top.Credibility != 97 || top.AdapterName != "Feed" {
		t.Fatalf("unexpected top source: %+v", top)
	}

	history, err := application.Verifier().History(ctx, 5)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Claim != "central bank raises rates" {
		t.Fatalf("verification not persisted: %+v", history)
	}

	headlines, err := application.Verifier().LiveNews(ctx, 1)
	if err != nil {
		t.Fatalf("LiveNews: %v", err)
	}
	if len(headlines) != 1 || headlines[0].SourceName != "Reuters" {
		t.Fatalf("unexpected headlines: %+v", headlines)
	}
}

func TestNewRejectsConfigFaults(t *testing.T) {
	t.Parallel()

	if _, err := New(testConfig(), discard()); !errors.Is(err, config.ErrNoAdapters) {
		t.Fatalf("expected ErrNoAdapters, got %v", err)
	}

	keyless := testConfig(config.AdapterConfig{Name: "NewsAPI", Kind: config.KindNewsAPI})
	if _, err := New(keyless, discard()); !errors.Is(err, config.ErrNoAdapters) {
		t.Fatalf("expected ErrNoAdapters for keyless adapters, got %v", err)
	}

	unknown := testConfig(config.AdapterConfig{Name: "Mystery", Kind: "carrier-pigeon"})
	if _, err := New(unknown, discard()); !errors.Is(err, adapter.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}

	badCron := testConfig(config.AdapterConfig{Name: "Feed", Kind: config.KindGoogleNews})
	badCron.Watch.Claims = []string{"central bank raises rates"}
	badCron.Scheduler.CronExpression = "every tuesday"
	if _, err := New(badCron, discard()); err == nil {
		t.Fatalf("expected invalid cron error")
	}

	replaced := testConfig(config.AdapterConfig{Name: "Feed", Kind: config.KindGoogleNews})
	replaced.Credibility.ReplaceDefaults = true
	if _, err := New(replaced, discard()); err == nil {
		t.Fatalf("expected empty credibility table error")
	}
}

func TestBuildSourcesKeepsConfigOrder(t *testing.T) {
	t.Parallel()

	disabled := false
	adapters := []config.AdapterConfig{
		{Name: "NewsAPI", Kind: config.KindNewsAPI},
		{Name: "Scrape", Kind: config.KindReuters, RatePerMinute: 30},
		{Name: "Serp", Kind: config.KindSerpAPI, APIKey: "key", TimeoutSec: 3},
		{Name: "Feed", Kind: config.KindGoogleNews, Enabled: &disabled},
	}

	reg := newRegistry(adapters, discard())
	sources, err := buildSources(reg, adapters, discard())
	if err != nil {
		t.Fatalf("buildSources: %v", err)
	}

	if len(sources) != 2 || sources[0].Name != "Scrape" || sources[1].Name != "Serp" {
		t.Fatalf("unexpected sources: %+v", sources)
	}
	if _, ok := sources[0].Adapter.(*adapter.RateLimited); !ok {
		t.Fatalf("expected rate limited adapter")
	}
	if sources[1].Timeout.Seconds() != 3 {
		t.Fatalf("unexpected timeout: %s", sources[1].Timeout)
	}
}

func TestRunWatchOnceWithoutNotifier(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t)
	cfg := testConfig(config.AdapterConfig{Name: "Feed", Kind: config.KindGoogleNews, Endpoint: srv.URL})
	cfg.Watch.Claims = []string{"central bank raises rates"}
	cfg.Scheduler.CronExpression = "0 8 * * *"

	application, err := New(cfg, discard())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := application.RunWatchOnce(context.Background()); err != nil {
		t.Fatalf("RunWatchOnce: %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	srv := newFeedServer(t)
	cfg := testConfig(config.AdapterConfig{Name: "Feed", Kind: config.KindGoogleNews, Endpoint: srv.URL})
	cfg.Server.Addr = "127.0.0.1:0"

	application, err := New(cfg, discard())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()
	cancel()

	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
