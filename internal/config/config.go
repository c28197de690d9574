package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"NewsVerifier/internal/scoring"
	"NewsVerifier/internal/verdict"
)

const (
	defaultTimezone   = "UTC"
	configPathEnv     = "NEWS_VERIFIER_CONFIG"
	newsAPIKeyEnv     = "NEWS_API_KEY"
	serpAPIKeyEnv     = "SERPAPI_API_KEY"
	mlInferenceURLEnv = "ML_INFERENCE_URL"
	mlAPIKeyEnv       = "ML_API_KEY"
	databaseDriverEnv = "DATABASE_DRIVER"
	databaseDSNEnv    = "DATABASE_DSN"
	chatGPTAPIKeyEnv  = "CHATGPT_API_KEY"
	chatGPTModelEnv   = "CHATGPT_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	logLevelEnv       = "LOG_LEVEL"
	logFormatEnv      = "LOG_FORMAT"
	httpAddrEnv       = "HTTP_ADDR"
)

// Adapter kinds understood by the application registry.
const (
	KindNewsAPI    = "newsapi"
	KindGoogleNews = "googlenews"
	KindReuters    = "reuters"
	KindSerpAPI    = "serpapi"
)

var (
	// ErrNoAdapters means every configured adapter is disabled.
	ErrNoAdapters = errors.New("no enabled adapters configured")
	// ErrInvalidWeights means a weight is negative or all weights are zero.
	ErrInvalidWeights = errors.New("aggregation weights must be non-negative and not all zero")
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Server        ServerConfig       `yaml:"server"`
	Database      DatabaseConfig     `yaml:"database"`
	Aggregation   AggregationConfig  `yaml:"aggregation"`
	Cache         CacheConfig        `yaml:"cache"`
	Credibility   CredibilityConfig  `yaml:"credibility"`
	Adapters      []AdapterConfig    `yaml:"adapters"`
	ML            MLConfig           `yaml:"ml"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Watch         WatchConfig        `yaml:"watch"`
}

// LoggingConfig selects the slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr               string `yaml:"addr"`
	ReadTimeoutSec     int    `yaml:"readTimeoutSec"`
	WriteTimeoutSec    int    `yaml:"writeTimeoutSec"`
	ShutdownTimeoutSec int    `yaml:"shutdownTimeoutSec"`
}

// ShutdownTimeout bounds graceful shutdown.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return seconds(s.ShutdownTimeoutSec, 10)
}

// DatabaseConfig describes the history store. An empty DSN disables history.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// AggregationConfig tunes the orchestrator, sub-scorers and synthesizer.
type AggregationConfig struct {
	AdapterTimeoutSec   int           `yaml:"adapterTimeoutSec"`
	ResultLimit         int           `yaml:"resultLimit"`
	TopN                int           `yaml:"topN"`
	MinTitleLength      int           `yaml:"minTitleLength"`
	CredibleThreshold   int           `yaml:"credibleThreshold"`
	TargetDiversity     int           `yaml:"targetDiversity"`
	SingleSourceScore   float64       `yaml:"singleSourceScore"`
	ContradictionSpread float64       `yaml:"contradictionSpread"`
	Weights             WeightsConfig `yaml:"weights"`
}

// WeightsConfig is the relative weight of each sub-score.
type WeightsConfig struct {
	SourceCredibility      float64 `yaml:"sourceCredibility"`
	CrossSourceConsistency float64 `yaml:"crossSourceConsistency"`
	FactChecking           float64 `yaml:"factChecking"`
	ContentQuality         float64 `yaml:"contentQuality"`
}

// AdapterTimeout is the per-adapter deadline.
func (a AggregationConfig) AdapterTimeout() time.Duration {
	return seconds(a.AdapterTimeoutSec, 10)
}

// ScoringParams converts the section for the scoring package.
func (a AggregationConfig) ScoringParams() scoring.Params {
	return scoring.Params{
		CredibleThreshold: a.CredibleThreshold,
		TargetDiversity:   a.TargetDiversity,
		SingleSourceScore: a.SingleSourceScore,
	}
}

// VerdictConfig converts the section for the verdict package.
func (a AggregationConfig) VerdictConfig() verdict.Config {
	return verdict.Config{
		Weights: verdict.Weights{
			SourceCredibility:      a.Weights.SourceCredibility,
			CrossSourceConsistency: a.Weights.CrossSourceConsistency,
			FactChecking:           a.Weights.FactChecking,
			ContentQuality:         a.Weights.ContentQuality,
		},
		TopN:                a.TopN,
		ContradictionSpread: a.ContradictionSpread,
	}
}

// CacheConfig controls the verdict cache in front of the aggregator.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttlSec"`
	MaxSize int  `yaml:"maxSize"`
}

// TTL is the lifetime of one cached verdict.
func (c CacheConfig) TTL() time.Duration {
	return seconds(c.TTLSec, 300)
}

// CredibilityConfig extends or replaces the built-in tier table.
type CredibilityConfig struct {
	Fallback        int            `yaml:"fallback"`
	ReplaceDefaults bool           `yaml:"replaceDefaults"`
	Sources         map[string]int `yaml:"sources"`
}

// AdapterConfig describes one named adapter and the kind that implements it.
type AdapterConfig struct {
	Name          string            `yaml:"name"`
	Kind          string            `yaml:"kind"`
	Enabled       *bool             `yaml:"enabled"`
	Endpoint      string            `yaml:"endpoint"`
	APIKey        string            `yaml:"apiKey"`
	RatePerMinute int               `yaml:"ratePerMinute"`
	TimeoutSec    int               `yaml:"timeoutSec"`
	Options       map[string]string `yaml:"options"`
}

// IsEnabled treats an omitted flag as enabled.
func (a AdapterConfig) IsEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// Timeout is the adapter-specific deadline, zero when inherited.
func (a AdapterConfig) Timeout() time.Duration {
	if a.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(a.TimeoutSec) * time.Second
}

// MLConfig describes the classifier service. An empty URL disables it.
type MLConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// ChatGPTConfig defines how to contact the ChatGPT API.
type ChatGPTConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"apiKey"`
	SystemPrompt string `yaml:"systemPrompt"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken    string `yaml:"botToken"`
	ChatID      string `yaml:"chatId"`
	APIEndpoint string `yaml:"apiEndpoint"`
}

// SchedulerConfig defines when the watch digest should run.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// WatchConfig lists claims re-verified on every scheduler tick.
type WatchConfig struct {
	Claims []string `yaml:"claims"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if fileCfg, err := decodeOver(cfg, raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = fileCfg
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Adapters) == 0 {
		cfg.Adapters = defaultConfig().Adapters
	}

	return cfg
}

// Validate reports configuration faults that must stop the process.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}

	w := c.Aggregation.Weights
	if w.SourceCredibility < 0 || w.CrossSourceConsistency < 0 || w.FactChecking < 0 || w.ContentQuality < 0 {
		return ErrInvalidWeights
	}
	if w.SourceCredibility+w.CrossSourceConsistency+w.FactChecking+w.ContentQuality == 0 {
		return ErrInvalidWeights
	}

	if f := c.Credibility.Fallback; f < 0 || f > 100 {
		return fmt.Errorf("credibility fallback %d out of range", f)
	}

	switch c.Database.Driver {
	case "", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	enabled := 0
	names := map[string]struct{}{}
	kinds := map[string]string{}
	for i, a := range c.Adapters {
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Kind) == "" {
			return fmt.Errorf("adapter #%d: name and kind are required", i+1)
		}
		if _, dup := names[a.Name]; dup {
			return fmt.Errorf("adapter %q declared twice", a.Name)
		}
		names[a.Name] = struct{}{}
		if !a.IsEnabled() {
			continue
		}
		if other, dup := kinds[a.Kind]; dup {
			return fmt.Errorf("adapters %q and %q both enable kind %s", other, a.Name, a.Kind)
		}
		kinds[a.Kind] = a.Name
		enabled++
	}
	if enabled == 0 {
		return ErrNoAdapters
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(logFormatEnv); v != "" {
		c.Logging.Format = v
	}

	if v := os.Getenv(httpAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(databaseDriverEnv); v != "" {
		c.Database.Driver = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	newsKey := os.Getenv(newsAPIKeyEnv)
	serpKey := os.Getenv(serpAPIKeyEnv)
	for i := range c.Adapters {
		a := &c.Adapters[i]
		switch {
		case a.Kind == KindNewsAPI && a.APIKey == "" && newsKey != "":
			a.APIKey = newsKey
		case a.Kind == KindSerpAPI && a.APIKey == "" && serpKey != "":
			a.APIKey = serpKey
		}
	}

	if v := os.Getenv(mlInferenceURLEnv); v != "" {
		c.ML.InferenceURL = v
	}

	if v := os.Getenv(mlAPIKeyEnv); v != "" {
		c.ML.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

// decodeOver unmarshals raw on top of base so absent keys keep their defaults.
// Lists (adapters, watch claims) are replaced as a whole.
func decodeOver(base Config, raw []byte) (Config, error) {
	merged := base
	merged.Adapters = nil
	merged.Watch.Claims = nil
	merged.Credibility.Sources = nil

	if err := yaml.Unmarshal(raw, &merged); err != nil {
		return base, err
	}

	if merged.Adapters == nil {
		merged.Adapters = base.Adapters
	}
	if merged.Watch.Claims == nil {
		merged.Watch.Claims = base.Watch.Claims
	}
	return merged, nil
}

func seconds(value, def int) time.Duration {
	if value <= 0 {
		value = def
	}
	return time.Duration(value) * time.Second
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:               ":8080",
			ReadTimeoutSec:     15,
			WriteTimeoutSec:    60,
			ShutdownTimeoutSec: 10,
		},
		Database: DatabaseConfig{Driver: "sqlite", DSN: "newsverifier.db"},
		Aggregation: AggregationConfig{
			AdapterTimeoutSec:   10,
			ResultLimit:         10,
			TopN:                verdict.DefaultTopN,
			MinTitleLength:      10,
			CredibleThreshold:   70,
			TargetDiversity:     5,
			SingleSourceScore:   20,
			ContradictionSpread: 60,
			Weights: WeightsConfig{
				SourceCredibility:      0.25,
				CrossSourceConsistency: 0.25,
				FactChecking:           0.25,
				ContentQuality:         0.25,
			},
		},
		Cache:       CacheConfig{Enabled: true, TTLSec: 300, MaxSize: 1000},
		Credibility: CredibilityConfig{Fallback: 40},
		Adapters: []AdapterConfig{
			{Name: "NewsAPI", Kind: KindNewsAPI, Endpoint: "https://newsapi.org/v2/everything", RatePerMinute: 100},
			{Name: "GoogleNewsRSS", Kind: KindGoogleNews, Endpoint: "https://news.google.com/rss", RatePerMinute: 60},
			{Name: "ReutersScrape", Kind: KindReuters, Endpoint: "https://www.reuters.com/search/news", RatePerMinute: 30},
			{Name: "SerpAPI", Kind: KindSerpAPI, RatePerMinute: 30},
		},
		ChatGPT: ChatGPTConfig{
			Endpoint:     "https://api.openai.com/v1/chat/completions",
			Model:        "gpt-4o-mini",
			SystemPrompt: "You condense fact-check digests into a short briefing.",
		},
		Scheduler: SchedulerConfig{CronExpression: "0 8 * * *", Timezone: defaultTimezone, location: tz},
	}
}
