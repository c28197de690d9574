package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	feedrss "github.com/mmcdole/gofeed/rss"

	"NewsVerifier/internal/adapter"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

// DefaultEndpoint is the Google News RSS root.
const DefaultEndpoint = "https://news.google.com/rss"

// GoogleNews searches Google News through its public RSS feeds.
type GoogleNews struct {
	endpoint string
	client   *http.Client
}

var (
	_ adapter.Adapter      = (*GoogleNews)(nil)
	_ ports.HeadlineSource = (*GoogleNews)(nil)
)

// NewGoogleNews wires an HTTP client; endpoint defaults to the public feed root.
func NewGoogleNews(endpoint string, client *http.Client) *GoogleNews {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleNews{endpoint: endpoint, client: client}
}

// Kind identifies the strategy inside the registry.
func (g *GoogleNews) Kind() string {
	return "googlenews"
}

// Search reads the search feed for the query.
func (g *GoogleNews) Search(ctx context.Context, req adapter.Request) ([]domain.Article, error) {
	values := url.Values{}
	values.Set("q", req.Query)
	values.Set("hl", "en-US")
	values.Set("gl", "US")
	values.Set("ceid", "US:en")

	items, err := g.fetch(ctx, g.endpoint+"/search?"+values.Encode())
	if err != nil {
		return nil, err
	}

	limit := req.EffectiveLimit()
	articles := make([]domain.Article, 0, limit)
	for _, item := range items {
		if len(articles) == limit {
			break
		}
		title, source := splitItem(item)
		if title == "" {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       title,
			SourceName:  source,
			URL:         item.Link,
			PublishedAt: item.PubDateParsed,
		})
	}

	return articles, nil
}

// TopStories reads the top stories feed for the live-news surface.
func (g *GoogleNews) TopStories(ctx context.Context, limit int) ([]domain.Headline, error) {
	items, err := g.fetch(ctx, g.endpoint+"/topstories?hl=en-US&gl=US&ceid=US:en")
	if err != nil {
		return nil, err
	}

	headlines := make([]domain.Headline, 0, len(items))
	for _, item := range items {
		if limit > 0 && len(headlines) == limit {
			break
		}
		title, source := splitItem(item)
		if title == "" {
			continue
		}
		if source == "" {
			source = domain.UnknownSource
		}
		headlines = append(headlines, domain.Headline{
			Title:       title,
			SourceName:  source,
			URL:         item.Link,
			PublishedAt: item.PubDateParsed,
		})
	}

	return headlines, nil
}

func (g *GoogleNews) fetch(ctx context.Context, feedURL string) ([]*feedrss.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsVerifier/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news returned %s", resp.Status)
	}

	parser := feedrss.Parser{}
	feed, err := parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return feed.Items, nil
}

// splitItem returns the headline without the " - Publisher" suffix Google
// appends, and the publisher from the <source> element.
func splitItem(item *feedrss.Item) (string, string) {
	title := strings.TrimSpace(item.Title)
	var source string
	if item.Source != nil {
		source = strings.TrimSpace(item.Source.Title)
	}

	if source != "" {
		title = strings.TrimSpace(strings.TrimSuffix(title, " - "+source))
	} else if idx := strings.LastIndex(title, " - "); idx > 0 {
		source = strings.TrimSpace(title[idx+3:])
		title = strings.TrimSpace(title[:idx])
	}

	return title, source
}
