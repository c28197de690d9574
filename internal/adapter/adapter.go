// Package adapter defines the collaborator contract for article sources and
// the registry that resolves configured adapters by kind.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"NewsVerifier/internal/domain"
)

// DefaultLimit is the result-limit hint used when none is configured.
const DefaultLimit = 10

// ErrNotRegistered is returned when configuration names an unknown kind.
var ErrNotRegistered = errors.New("adapter kind is not registered")

// Request carries the query and the optional page-size hint.
type Request struct {
	Query string
	Limit int
}

// EffectiveLimit returns Limit or DefaultLimit when unset.
func (r Request) EffectiveLimit() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

// Adapter fetches coverage for a query from one source (API, RSS, scrape).
// Records must carry at least Title and SourceName; AdapterName and
// Credibility are stamped by the caller.
type Adapter interface {
	Kind() string
	Search(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from adapter kinds to their implementations.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]Adapter{}}
}

// Register adds or replaces an adapter implementation.
func (r *Registry) Register(a Adapter) {
	if r.adapters == nil {
		r.adapters = map[string]Adapter{}
	}
	r.adapters[a.Kind()] = a
}

// Resolve returns an adapter by kind or ErrNotRegistered.
func (r *Registry) Resolve(kind string) (Adapter, error) {
	if a, ok := r.adapters[kind]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotRegistered, kind)
}

// Kinds lists registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.adapters))
	for k := range r.adapters {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
