package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"NewsVerifier/internal/adapter"
	"NewsVerifier/internal/domain"
)

// DefaultEndpoint is the NewsAPI full-text search endpoint.
const DefaultEndpoint = "https://newsapi.org/v2/everything"

const removedTitle = "[Removed]"

// Client implements adapter.Adapter over the NewsAPI "everything" search.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ adapter.Adapter = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string, httpClient *http.Client) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, http: httpClient}
}

// Kind identifies the strategy inside the registry.
func (c *Client) Kind() string {
	return "newsapi"
}

type searchResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search queries NewsAPI ordered by relevancy.
func (c *Client) Search(ctx context.Context, req adapter.Request) ([]domain.Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("newsapi key is not configured")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %s: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("q", req.Query)
	q.Set("language", "en")
	q.Set("sortBy", "relevancy")
	q.Set("pageSize", strconv.Itoa(req.EffectiveLimit()))
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("newsapi error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("newsapi error %s: %s", body.Code, body.Message)
	}

	articles := make([]domain.Article, 0, len(body.Articles))
	for _, item := range body.Articles {
		title := strings.TrimSpace(item.Title)
		if title == "" || title == removedTitle {
			continue
		}

		article := domain.Article{
			Title:      title,
			SourceName: strings.TrimSpace(item.Source.Name),
			URL:        item.URL,
		}
		if published, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			published = published.UTC()
			article.PublishedAt = &published
		}
		articles = append(articles, article)
	}

	return articles, nil
}
