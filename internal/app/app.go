package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/credibility"
	"NewsVerifier/internal/infrastructure/llm"
	"NewsVerifier/internal/infrastructure/ml"
	"NewsVerifier/internal/infrastructure/rss"
	"NewsVerifier/internal/infrastructure/scheduler"
	"NewsVerifier/internal/infrastructure/storage"
	"NewsVerifier/internal/infrastructure/telegram"
	"NewsVerifier/internal/logging"
	"NewsVerifier/internal/ports"
	"NewsVerifier/internal/server"
	"NewsVerifier/internal/usecase"
)

const storageInitTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	verifier  *usecase.Verifier
	pipeline  *usecase.WatchPipeline
	scheduler *usecase.Scheduler
	db        *sql.DB
}

// New validates cfg and builds every component. Any returned error is a
// configuration fault.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	table, err := credibilityTable(cfg.Credibility)
	if err != nil {
		return nil, fmt.Errorf("credibility: %w", err)
	}

	registry := newRegistry(cfg.Adapters, baseLogger.With("component", "registry"))
	sources, err := buildSources(registry, cfg.Adapters, baseLogger.With("component", "source"))
	if err != nil {
		return nil, err
	}

	aggregator, err := usecase.NewAggregator(usecase.AggregatorDeps{
		Sources:        sources,
		Credibility:    table,
		Scoring:        cfg.Aggregation.ScoringParams(),
		Verdict:        cfg.Aggregation.VerdictConfig(),
		ResultLimit:    cfg.Aggregation.ResultLimit,
		MinTitleLength: cfg.Aggregation.MinTitleLength,
		Timeout:        cfg.Aggregation.AdapterTimeout(),
		Logger:         baseLogger.With("component", "aggregator"),
	})
	if err != nil {
		return nil, fmt.Errorf("aggregator: %w", err)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	deps := usecase.VerifierDeps{
		Aggregator: aggregator,
		Headlines:  rss.NewGoogleNews(headlineEndpoint(cfg.Adapters), nil),
		Logger:     baseLogger.With("component", "verifier"),
	}
	if cfg.Cache.Enabled {
		deps.CacheSize = cfg.Cache.MaxSize
		deps.CacheTTL = cfg.Cache.TTL()
	}
	if cfg.ML.InferenceURL != "" {
		deps.Classifier = ml.NewClient(cfg.ML.InferenceURL, cfg.ML.APIKey)
	}
	if cfg.Database.DSN != "" {
		repo, err := a.openHistory(cfg.Database)
		if err != nil {
			return nil, err
		}
		deps.History = repo
	}

	a.verifier, err = usecase.NewVerifier(deps)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("verifier: %w", err)
	}

	if len(cfg.Watch.Claims) > 0 {
		if err := a.buildWatch(cfg); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	baseLogger.Info("application ready",
		"adapters", aggregator.SourceNames(),
		"classifier", deps.Classifier != nil,
		"history", deps.History != nil,
		"watch_claims", len(cfg.Watch.Claims),
	)
	return a, nil
}

// Verifier exposes the verification service for the CLI.
func (a *Application) Verifier() *usecase.Verifier {
	return a.verifier
}

// Run serves HTTP and drives the watch scheduler until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      server.NewRouter(a.verifier, a.logger.With("component", "http")),
		ReadTimeout:  time.Duration(a.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Server.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.scheduler != nil {
		if err := a.scheduler.Start(gctx); err != nil {
			_ = srv.Close()
			_ = g.Wait()
			return fmt.Errorf("start scheduler: %w", err)
		}
		a.logger.Info("watch scheduler started", "cron", a.cfg.Scheduler.CronExpression, "timezone", a.cfg.Scheduler.Location().String())
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout())
		defer cancel()

		if a.scheduler != nil {
			if err := a.scheduler.Stop(shutdownCtx); err != nil {
				a.logger.Warn("scheduler stop", "error", err)
			}
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		a.logger.Info("http server stopped")
		return nil
	})

	return g.Wait()
}

// RunWatchOnce executes the watch pipeline immediately.
func (a *Application) RunWatchOnce(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}
	return a.pipeline.Run(ctx, time.Now().In(a.cfg.Scheduler.Location()))
}

// Close releases the history database.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func (a *Application) openHistory(cfg config.DatabaseConfig) (*storage.SQLRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storageInitTimeout)
	defer cancel()

	db, err := storage.Open(ctx, cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}

	driver := cfg.Driver
	if driver == "" {
		driver = storage.DriverSQLite
	}
	repo := storage.NewSQLRepository(db, driver)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history store: %w", err)
	}

	a.db = db
	return repo, nil
}

func (a *Application) buildWatch(cfg config.Config) error {
	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
	if err := driver.Validate(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	var summarizer ports.DigestSummarizer
	if cfg.ChatGPT.APIKey != "" {
		summarizer = llm.NewChatGPTClient(cfg.ChatGPT)
	}

	var notifier ports.Notifier
	if tg := cfg.Notifications.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg)
	} else {
		a.logger.Warn("telegram is not configured, watch digests will only be logged")
	}

	a.pipeline = usecase.NewWatchPipeline(usecase.PipelineDeps{
		Verifier:   a.verifier,
		Claims:     cfg.Watch.Claims,
		Summarizer: summarizer,
		Notifier:   notifier,
		Logger:     a.logger.With("component", "watch"),
	})
	a.scheduler = usecase.NewScheduler(driver, a.pipeline, a.logger.With("component", "scheduler"))
	return nil
}

func credibilityTable(cfg config.CredibilityConfig) (*credibility.Table, error) {
	if cfg.ReplaceDefaults {
		return credibility.NewTable(cfg.Sources, cfg.Fallback)
	}
	return credibility.Default().WithOverrides(cfg.Sources, cfg.Fallback)
}

func headlineEndpoint(adapters []config.AdapterConfig) string {
	for _, ac := range adapters {
		if ac.Kind == config.KindGoogleNews && ac.Endpoint != "" {
			return ac.Endpoint
		}
	}
	return rss.DefaultEndpoint
}
