package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if len(cfg.Adapters) != 4 || cfg.Adapters[0].Kind != KindNewsAPI {
		t.Fatalf("unexpected default adapters: %+v", cfg.Adapters)
	}
	if cfg.Aggregation.AdapterTimeout() != 10*time.Second {
		t.Fatalf("unexpected adapter timeout: %s", cfg.Aggregation.AdapterTimeout())
	}
	if cfg.Cache.TTL() != 5*time.Minute || cfg.Cache.MaxSize != 1000 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: warn
aggregation:
  topN: 3
  weights:
    sourceCredibility: 0.5
credibility:
  sources:
    Local Gazette: 65
adapters:
  - name: Feed
    kind: googlenews
    endpoint: http://localhost:9000/rss
  - name: Scrape
    kind: reuters
    enabled: false
watch:
  claims:
    - central bank raises rates
scheduler:
  timezone: Europe/Berlin
`)
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Logging.Level != "warn" {
		t.Fatalf("expected warn level, got %s", cfg.Logging.Level)
	}
	if cfg.Aggregation.TopN != 3 || cfg.Aggregation.ResultLimit != 10 {
		t.Fatalf("unexpected aggregation: %+v", cfg.Aggregation)
	}
	if w := cfg.Aggregation.Weights; w.SourceCredibility != 0.5 || w.FactChecking != 0.25 {
		t.Fatalf("weights not merged: %+v", w)
	}
	if cfg.Credibility.Sources["Local Gazette"] != 65 || cfg.Credibility.Fallback != 40 {
		t.Fatalf("unexpected credibility: %+v", cfg.Credibility)
	}
	if len(cfg.Adapters) != 2 || cfg.Adapters[1].IsEnabled() {
		t.Fatalf("adapters not replaced: %+v", cfg.Adapters)
	}
	if len(cfg.Watch.Claims) != 1 {
		t.Fatalf("unexpected claims: %v", cfg.Watch.Claims)
	}
	if cfg.Scheduler.Location().String() != "Europe/Berlin" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Location())
	}
	if cfg.Cache.MaxSize != 1000 {
		t.Fatalf("cache defaults lost: %+v", cfg.Cache)
	}
}

func TestLoadInvalidFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, writeConfig(t, "logging: [unterminated"))

	cfg := Load()
	if cfg.Logging.Level != "info" || len(cfg.Adapters) != 4 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}

	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg := Load(); cfg.Server.Addr != ":8080" {
		t.Fatalf("expected defaults for missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(newsAPIKeyEnv, "news-key")
	t.Setenv(serpAPIKeyEnv, "serp-key")
	t.Setenv(mlInferenceURLEnv, "http://ml:5000")
	t.Setenv(databaseDriverEnv, "postgres")
	t.Setenv(databaseDSNEnv, "postgres://u:p@db/news")
	t.Setenv(logLevelEnv, "error")
	t.Setenv(httpAddrEnv, ":9999")
	t.Setenv(telegramChatIDEnv, "@newsroom")

	cfg := Load()

	if cfg.Adapters[0].APIKey != "news-key" || cfg.Adapters[3].APIKey != "serp-key" {
		t.Fatalf("api keys not applied: %+v", cfg.Adapters)
	}
	if cfg.Adapters[1].APIKey != "" {
		t.Fatalf("key leaked to rss adapter")
	}
	if cfg.ML.InferenceURL != "http://ml:5000" || cfg.Database.Driver != "postgres" || cfg.Database.DSN != "postgres://u:p@db/news" {
		t.Fatalf("env overrides not applied: %+v %+v", cfg.ML, cfg.Database)
	}
	if cfg.Logging.Level != "error" || cfg.Server.Addr != ":9999" || cfg.Notifications.Telegram.ChatID != "@newsroom" {
		t.Fatalf("env overrides not applied")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	disabled := false
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "no adapters", mutate: func(c *Config) { c.Adapters = nil }, wantErr: ErrNoAdapters},
		{name: "all disabled", mutate: func(c *Config) {
			for i := range c.Adapters {
				c.Adapters[i].Enabled = &disabled
			}
		}, wantErr: ErrNoAdapters},
		{name: "negative weight", mutate: func(c *Config) { c.Aggregation.Weights.FactChecking = -1 }, wantErr: ErrInvalidWeights},
		{name: "zero weights", mutate: func(c *Config) { c.Aggregation.Weights = WeightsConfig{} }, wantErr: ErrInvalidWeights},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }},
		{name: "duplicate name", mutate: func(c *Config) { c.Adapters[1].Name = c.Adapters[0].Name }},
		{name: "duplicate kind", mutate: func(c *Config) { c.Adapters[1].Kind = c.Adapters[0].Kind }},
		{name: "missing kind", mutate: func(c *Config) { c.Adapters[0].Kind = "" }},
		{name: "fallback range", mutate: func(c *Config) { c.Credibility.Fallback = 101 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAggregationConversions(t *testing.T) {
	t.Parallel()

	agg := defaultConfig().Aggregation
	params := agg.ScoringParams()
	if params.CredibleThreshold != 70 || params.TargetDiversity != 5 || params.SingleSourceScore != 20 {
		t.Fatalf("unexpected scoring params: %+v", params)
	}
	vc := agg.VerdictConfig()
	if vc.TopN != 5 || vc.ContradictionSpread != 60 || vc.Weights.ContentQuality != 0.25 {
		t.Fatalf("unexpected verdict config: %+v", vc)
	}
}
