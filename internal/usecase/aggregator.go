package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"NewsVerifier/internal/adapter"
	"NewsVerifier/internal/credibility"
	"NewsVerifier/internal/dedupe"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/scoring"
	"NewsVerifier/internal/verdict"
)

const defaultAdapterTimeout = 10 * time.Second

// Source binds a configured adapter name to its implementation. Sources are
// evaluated in slice order regardless of completion order.
type Source struct {
	Name    string
	Adapter adapter.Adapter
	Timeout time.Duration
}

// AggregatorDeps wires the orchestrator.
type AggregatorDeps struct {
	Sources        []Source
	Credibility    *credibility.Table
	Scoring        scoring.Params
	Verdict        verdict.Config
	ResultLimit    int
	MinTitleLength int
	Timeout        time.Duration
	Logger         *slog.Logger
}

// Aggregator fans a query out to adapters and drives dedup, scoring and synthesis.
type Aggregator struct {
	sources        []Source
	table          *credibility.Table
	scoring        scoring.Params
	verdict        verdict.Config
	limit          int
	minTitleLength int
	timeout        time.Duration
	logger         *slog.Logger
}

// NewAggregator validates deps. A missing or empty credibility table is a
// configuration fault.
func NewAggregator(deps AggregatorDeps) (*Aggregator, error) {
	if deps.Credibility == nil || deps.Credibility.Len() == 0 {
		return nil, credibility.ErrEmptyTable
	}
	for _, src := range deps.Sources {
		if src.Adapter == nil {
			return nil, fmt.Errorf("source %q has no adapter", src.Name)
		}
	}

	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultAdapterTimeout
	}

	return &Aggregator{
		sources:        append([]Source(nil), deps.Sources...),
		table:          deps.Credibility,
		scoring:        deps.Scoring,
		verdict:        deps.Verdict,
		limit:          deps.ResultLimit,
		minTitleLength: deps.MinTitleLength,
		timeout:        timeout,
		logger:         deps.Logger,
	}, nil
}

// SourceNames lists the configured adapter names in evaluation order.
func (a *Aggregator) SourceNames() []string {
	names := make([]string, 0, len(a.sources))
	for _, src := range a.sources {
		names = append(names, src.Name)
	}
	return names
}

// Aggregate runs the whole pipeline for query. The only error is caller
// cancellation; adapter faults end up in the result.
func (a *Aggregator) Aggregate(ctx context.Context, query string) (domain.VerdictResult, error) {
	outcomes, err := a.Collect(ctx, query)
	if err != nil {
		return domain.VerdictResult{}, err
	}
	return a.Evaluate(outcomes), nil
}

// Collect invokes every adapter concurrently and returns outcomes in
// configured order.
func (a *Aggregator) Collect(ctx context.Context, query string) ([]domain.AdapterOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := adapter.Request{Query: query, Limit: a.limit}
	outcomes := make([]domain.AdapterOutcome, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = a.invoke(ctx, src, req)
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.debug("adapters collected", "query", query, "adapters", len(outcomes), "succeeded", domain.SucceededCount(outcomes))
	return outcomes, nil
}

// Evaluate is the synchronous tail of the pipeline: dedup, sub-scores, verdict.
func (a *Aggregator) Evaluate(outcomes []domain.AdapterOutcome) domain.VerdictResult {
	var combined []domain.Article
	for _, o := range outcomes {
		if o.Failed() {
			continue
		}
		combined = append(combined, o.Articles...)
	}

	canonical := dedupe.Dedupe(combined)
	sub := scoring.Compute(canonical, a.scoring)
	return verdict.Synthesize(sub, canonical, outcomes, a.verdict)
}

type searchResult struct {
	articles []domain.Article
	err      error
}

func (a *Aggregator) invoke(ctx context.Context, src Source, req adapter.Request) domain.AdapterOutcome {
	timeout := src.Timeout
	if timeout <= 0 {
		timeout = a.timeout
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan searchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- searchResult{err: fmt.Errorf("adapter panic: %v", r)}
			}
		}()
		articles, err := src.Adapter.Search(callCtx, req)
		done <- searchResult{articles: articles, err: err}
	}()

	var res searchResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res.err = callCtx.Err()
	}

	if res.err != nil {
		if errors.Is(res.err, context.DeadlineExceeded) && ctx.Err() == nil {
			res.err = fmt.Errorf("timeout after %s", timeout)
		}
		a.warn("adapter failed", "adapter", src.Name, "error", res.err)
		return domain.AdapterOutcome{Adapter: src.Name, Err: res.err}
	}

	articles := a.admit(src.Name, res.articles, req.EffectiveLimit())
	a.debug("adapter returned articles", "adapter", src.Name, "raw", len(res.articles), "admitted", len(articles))
	return domain.AdapterOutcome{Adapter: src.Name, Articles: articles}
}

// admit normalizes adapter records at the boundary: provenance and
// credibility are stamped here, unusable titles are dropped.
func (a *Aggregator) admit(adapterName string, raw []domain.Article, limit int) []domain.Article {
	admitted := make([]domain.Article, 0, len(raw))
	for _, article := range raw {
		if len(admitted) == limit {
			break
		}

		article.Title = strings.TrimSpace(article.Title)
		if article.Title == "" || utf8.RuneCountInString(article.Title) < a.minTitleLength {
			continue
		}
		if dedupe.NormalizeTitle(article.Title) == "" {
			continue
		}

		article.SourceName = strings.TrimSpace(article.SourceName)
		if article.SourceName == "" {
			article.SourceName = domain.UnknownSource
		}
		article.AdapterName = adapterName
		article.Credibility = a.table.Lookup(article.SourceName)

		admitted = append(admitted, article)
	}
	return admitted
}

func (a *Aggregator) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}

func (a *Aggregator) warn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}
