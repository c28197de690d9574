package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
	"NewsVerifier/internal/scoring"
)

const (
	defaultHeadlineLimit = 10
	maxHeadlineLimit     = 50
	defaultHistoryLimit  = 20
	maxHistoryLimit      = 100
	predictionWorkers    = 4
)

var (
	// ErrEmptyClaim is returned when the submitted claim has no text.
	ErrEmptyClaim = errors.New("claim text is empty")
	// ErrNotConfigured is returned when an optional collaborator is absent.
	ErrNotConfigured = errors.New("collaborator is not configured")
)

// Report is one verification of a claim against live coverage.
type Report struct {
	Claim      string               `json:"claim"`
	Result     domain.VerdictResult `json:"result"`
	Signals    scoring.ClaimSignals `json:"claimSignals"`
	Prediction *domain.Prediction   `json:"mlPrediction,omitempty"`
	CheckedAt  time.Time            `json:"checkedAt"`
}

// VerifierDeps wires the verification service. Everything except the
// Aggregator is optional.
type VerifierDeps struct {
	Aggregator *Aggregator
	Classifier ports.Classifier
	Headlines  ports.HeadlineSource
	History    ports.VerificationRepository
	CacheSize  int
	CacheTTL   time.Duration
	Logger     *slog.Logger
	Clock      func() time.Time
}

// Verifier is the application service behind the HTTP and CLI surfaces.
type Verifier struct {
	aggregator *Aggregator
	classifier ports.Classifier
	headlines  ports.HeadlineSource
	history    ports.VerificationRepository
	cache      *expirable.LRU[string, Report]
	inflight   singleflight.Group
	logger     *slog.Logger
	clock      func() time.Time
}

// NewVerifier constructs the service. A zero CacheSize disables caching.
func NewVerifier(deps VerifierDeps) (*Verifier, error) {
	if deps.Aggregator == nil {
		return nil, fmt.Errorf("verifier requires an aggregator")
	}

	v := &Verifier{
		aggregator: deps.Aggregator,
		classifier: deps.Classifier,
		headlines:  deps.Headlines,
		history:    deps.History,
		logger:     deps.Logger,
		clock:      deps.Clock,
	}
	if v.logger == nil {
		v.logger = slog.New(slog.DiscardHandler)
	}
	if v.clock == nil {
		v.clock = time.Now
	}
	if deps.CacheSize > 0 {
		v.cache = expirable.NewLRU[string, Report](deps.CacheSize, nil, deps.CacheTTL)
	}

	return v, nil
}

// HasClassifier reports whether predictions are available.
func (v *Verifier) HasClassifier() bool {
	return v.classifier != nil
}

// VerifyOnline aggregates live coverage for claim and synthesizes a verdict.
func (v *Verifier) VerifyOnline(ctx context.Context, claim string) (Report, error) {
	claim = strings.TrimSpace(claim)
	if claim == "" {
		return Report{}, ErrEmptyClaim
	}

	key := cacheKey(claim)
	if v.cache != nil {
		if cached, ok := v.cache.Get(key); ok {
			v.logger.Debug("verification cache hit", "claim", claim)
			cached.Claim = claim
			return cached, nil
		}
	}

	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("aggregate %q: %w", claim, err)
	}

	// The shared aggregation outlives any single caller; adapter timeouts bound it.
	shared := context.WithoutCancel(ctx)
	ch := v.inflight.DoChan(key, func() (any, error) {
		result, err := v.aggregator.Aggregate(shared, claim)
		if err != nil {
			return nil, err
		}

		report := Report{
			Claim:     claim,
			Result:    result,
			Signals:   scoring.AnalyzeClaim(claim),
			CheckedAt: v.clock().UTC(),
		}
		if v.cache != nil {
			v.cache.Add(key, report)
		}
		v.persist(shared, report)
		return report, nil
	})

	select {
	case <-ctx.Done():
		return Report{}, fmt.Errorf("aggregate %q: %w", claim, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return Report{}, fmt.Errorf("aggregate %q: %w", claim, res.Err)
		}
		report := res.Val.(Report)
		report.Claim = claim
		return report, nil
	}
}

// Verify is VerifyOnline plus an optional classifier opinion on the claim.
func (v *Verifier) Verify(ctx context.Context, claim string) (Report, error) {
	report, err := v.VerifyOnline(ctx, claim)
	if err != nil {
		return Report{}, err
	}

	if v.classifier == nil {
		return report, nil
	}

	prediction, err := v.classifier.Predict(ctx, report.Claim)
	if err != nil {
		v.logger.Warn("classifier failed", "error", err)
		return report, nil
	}
	report.Prediction = &prediction
	return report, nil
}

// Predict runs only the classifier.
func (v *Verifier) Predict(ctx context.Context, text string) (domain.Prediction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Prediction{}, ErrEmptyClaim
	}
	if v.classifier == nil {
		return domain.Prediction{}, fmt.Errorf("classifier: %w", ErrNotConfigured)
	}

	prediction, err := v.classifier.Predict(ctx, text)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("predict: %w", err)
	}
	return prediction, nil
}

// LiveNews returns current top stories, each annotated by the classifier
// when one is configured.
func (v *Verifier) LiveNews(ctx context.Context, limit int) ([]domain.Headline, error) {
	if v.headlines == nil {
		return nil, fmt.Errorf("headline source: %w", ErrNotConfigured)
	}
	limit = clampLimit(limit, defaultHeadlineLimit, maxHeadlineLimit)

	headlines, err := v.headlines.TopStories(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top stories: %w", err)
	}
	if len(headlines) > limit {
		headlines = headlines[:limit]
	}
	if headlines == nil {
		headlines = []domain.Headline{}
	}

	if v.classifier == nil {
		return headlines, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(predictionWorkers)
	for i := range headlines {
		g.Go(func() error {
			prediction, err := v.classifier.Predict(gctx, headlines[i].Title)
			if err != nil {
				v.logger.Debug("headline prediction failed", "title", headlines[i].Title, "error", err)
				return nil
			}
			headlines[i].Prediction = &prediction
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return headlines, nil
}

// History lists the most recent stored verifications, newest first.
func (v *Verifier) History(ctx context.Context, limit int) ([]domain.VerificationRecord, error) {
	if v.history == nil {
		return []domain.VerificationRecord{}, nil
	}

	records, err := v.history.RecentVerifications(ctx, clampLimit(limit, defaultHistoryLimit, maxHistoryLimit))
	if err != nil {
		return nil, fmt.Errorf("recent verifications: %w", err)
	}
	if records == nil {
		records = []domain.VerificationRecord{}
	}
	return records, nil
}

func (v *Verifier) persist(ctx context.Context, report Report) {
	if v.history == nil {
		return
	}

	record := domain.VerificationRecord{
		ID:          uuid.NewString(),
		Claim:       report.Claim,
		Verdict:     report.Result.Verdict,
		Confidence:  report.Result.Confidence,
		FinalScore:  report.Result.FinalScore,
		SourceCount: report.Result.ArticleCount,
		Explanation: report.Result.Explanation,
		CreatedAt:   report.CheckedAt,
	}
	if err := v.history.SaveVerification(ctx, record); err != nil {
		v.logger.Warn("persist verification", "claim", report.Claim, "error", err)
	}
}

func cacheKey(claim string) string {
	return strings.Join(strings.Fields(strings.ToLower(claim)), " ")
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
