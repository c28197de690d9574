package app

import (
	"fmt"
	"log/slog"
	"strings"

	"NewsVerifier/internal/adapter"
	"NewsVerifier/internal/config"
	"NewsVerifier/internal/infrastructure/newsapi"
	"NewsVerifier/internal/infrastructure/parser"
	"NewsVerifier/internal/infrastructure/rss"
	"NewsVerifier/internal/infrastructure/serpapi"
	"NewsVerifier/internal/usecase"
)

// newRegistry instantiates one adapter per enabled kind from its config entry.
// Key-based kinds without a key are left out.
func newRegistry(adapters []config.AdapterConfig, logger *slog.Logger) *adapter.Registry {
	reg := adapter.NewRegistry()

	for _, ac := range adapters {
		if !ac.IsEnabled() {
			continue
		}

		switch ac.Kind {
		case config.KindNewsAPI:
			if missingKey(ac, logger) {
				continue
			}
			reg.Register(newsapi.NewClient(ac.Endpoint, ac.APIKey, nil))
		case config.KindGoogleNews:
			reg.Register(rss.NewGoogleNews(ac.Endpoint, nil))
		case config.KindReuters:
			reg.Register(parser.NewReutersScanner(nil, ac.Endpoint))
		case config.KindSerpAPI:
			if missingKey(ac, logger) {
				continue
			}
			reg.Register(serpapi.NewClient(ac.APIKey))
		}
	}

	logger.Debug("adapter registry built", "kinds", reg.Kinds())
	return reg
}

// buildSources resolves configured adapters in config order.
func buildSources(reg *adapter.Registry, adapters []config.AdapterConfig, logger *slog.Logger) ([]usecase.Source, error) {
	sources := make([]usecase.Source, 0, len(adapters))

	for _, ac := range adapters {
		if !ac.IsEnabled() {
			logger.Debug("adapter disabled", "adapter", ac.Name)
			continue
		}
		if requiresKey(ac.Kind) && strings.TrimSpace(ac.APIKey) == "" {
			continue
		}

		impl, err := reg.Resolve(ac.Kind)
		if err != nil {
			return nil, fmt.Errorf("adapter %s: %w", ac.Name, err)
		}

		sources = append(sources, usecase.Source{
			Name:    ac.Name,
			Adapter: adapter.WithRateLimit(impl, ac.RatePerMinute),
			Timeout: ac.Timeout(),
		})
		logger.Debug("adapter enabled", "adapter", ac.Name, "kind", ac.Kind, "rate_per_minute", ac.RatePerMinute)
	}

	if len(sources) == 0 {
		return nil, config.ErrNoAdapters
	}
	return sources, nil
}

func requiresKey(kind string) bool {
	return kind == config.KindNewsAPI || kind == config.KindSerpAPI
}

func missingKey(ac config.AdapterConfig, logger *slog.Logger) bool {
	if strings.TrimSpace(ac.APIKey) != "" {
		return false
	}
	logger.Warn("adapter skipped, api key is not set", "adapter", ac.Name, "kind", ac.Kind)
	return true
}
