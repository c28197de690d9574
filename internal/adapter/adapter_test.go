package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"NewsVerifier/internal/domain"
)

type stubAdapter struct {
	kind  string
	calls int
}

func (s *stubAdapter) Kind() string { return s.kind }

func (s *stubAdapter) Search(_ context.Context, req Request) ([]domain.Article, error) {
	s.calls++
	return []domain.Article{{Title: req.Query, SourceName: "Stub"}}, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubAdapter{kind: "rss"})
	reg.Register(&stubAdapter{kind: "newsapi"})

	a, err := reg.Resolve("rss")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if a.Kind() != "rss" {
		t.Fatalf("unexpected kind: %s", a.Kind())
	}

	if _, err := reg.Resolve("missing"); !errors.Is(err, ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}

	kinds := reg.Kinds()
	if len(kinds) != 2 || kinds[0] != "newsapi" || kinds[1] != "rss" {
		t.Fatalf("unexpected kinds: %v", kinds)
	}
}

func TestRequestEffectiveLimit(t *testing.T) {
	t.Parallel()

	if got := (Request{}).EffectiveLimit(); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := (Request{Limit: 3}).EffectiveLimit(); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
}

func TestWithRateLimitDisabled(t *testing.T) {
	t.Parallel()

	stub := &stubAdapter{kind: "rss"}
	if got := WithRateLimit(stub, 0); got != Adapter(stub) {
		t.Fatalf("expected adapter to be returned unchanged")
	}
}

func TestWithRateLimitBlocksUntilContextDone(t *testing.T) {
	t.Parallel()

	stub := &stubAdapter{kind: "rss"}
	limited := WithRateLimit(stub, 1)

	if _, err := limited.Search(context.Background(), Request{Query: "q"}); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := limited.Search(ctx, Request{Query: "q"}); err == nil {
		t.Fatalf("expected rate limit error")
	}
	if stub.calls != 1 {
		t.Fatalf("expected 1 delegated call, got %d", stub.calls)
	}
	if limited.Kind() != "rss" {
		t.Fatalf("kind not delegated")
	}
}
