package serpapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	g "github.com/serpapi/google-search-results-golang"

	"NewsVerifier/internal/adapter"
	"NewsVerifier/internal/domain"
)

// SearchFunc runs one SerpApi query and returns the decoded JSON body.
type SearchFunc func(parameter map[string]string, apiKey string) (map[string]interface{}, error)

// Client searches the Google News tab through SerpApi.
type Client struct {
	apiKey string
	search SearchFunc
}

var _ adapter.Adapter = (*Client)(nil)

// NewClient creates a new SerpApi client backed by the official SDK.
func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey, search: googleSearch}
}

// WithSearchFunc swaps the transport, mostly for tests.
func (c *Client) WithSearchFunc(fn SearchFunc) *Client {
	c.search = fn
	return c
}

// Kind identifies the strategy inside the registry.
func (c *Client) Kind() string {
	return "serpapi"
}

// Search performs a Google News search and maps news_results into articles.
func (c *Client) Search(ctx context.Context, req adapter.Request) ([]domain.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serpapi key is not set")
	}

	parameter := map[string]string{
		"engine": "google",
		"q":      req.Query,
		"tbm":    "nws",
		"gl":     "us",
		"hl":     "en",
		"num":    strconv.Itoa(req.EffectiveLimit()),
	}

	type outcome struct {
		results map[string]interface{}
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		results, err := c.search(parameter, c.apiKey)
		done <- outcome{results: results, err: err}
	}()

	var res outcome
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("serpapi search failed: %w", res.err)
	}
	if msg, ok := res.results["error"].(string); ok && msg != "" {
		return nil, fmt.Errorf("serpapi error: %s", msg)
	}

	newsResults, ok := res.results["news_results"].([]interface{})
	if !ok {
		return []domain.Article{}, nil
	}

	limit := req.EffectiveLimit()
	articles := make([]domain.Article, 0, limit)
	for _, item := range newsResults {
		if len(articles) == limit {
			break
		}
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		title, _ := entry["title"].(string)
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		link, _ := entry["link"].(string)

		article := domain.Article{
			Title:      title,
			SourceName: sourceName(entry["source"]),
			URL:        link,
		}
		if iso, _ := entry["iso_date"].(string); iso != "" {
			if parsed, err := time.Parse(time.RFC3339, iso); err == nil {
				parsed = parsed.UTC()
				article.PublishedAt = &parsed
			}
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// sourceName accepts both the flat string and the {"name": ...} object layouts.
func sourceName(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]interface{}:
		name, _ := v["name"].(string)
		return strings.TrimSpace(name)
	default:
		return ""
	}
}

func googleSearch(parameter map[string]string, apiKey string) (map[string]interface{}, error) {
	search := g.NewGoogleSearch(parameter, apiKey)
	results, err := search.GetJSON()
	if err != nil {
		return nil, err
	}
	return map[string]interface{}(results), nil
}
