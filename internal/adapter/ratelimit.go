package adapter

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"NewsVerifier/internal/domain"
)

// RateLimited wraps an Adapter so calls are spaced by a token bucket.
type RateLimited struct {
	next    Adapter
	limiter *rate.Limiter
}

var _ Adapter = (*RateLimited)(nil)

// WithRateLimit allows perMinute calls per minute; a non-positive value
// returns next unchanged.
func WithRateLimit(next Adapter, perMinute int) Adapter {
	if perMinute <= 0 {
		return next
	}
	every := time.Minute / time.Duration(perMinute)
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

// Kind delegates to the wrapped adapter.
func (r *RateLimited) Kind() string {
	return r.next.Kind()
}

// Search waits for a token, then delegates.
func (r *RateLimited) Search(ctx context.Context, req Request) ([]domain.Article, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Search(ctx, req)
}
