package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsVerifier/internal/adapter"
	"NewsVerifier/internal/domain"
)

const (
	// DefaultReutersSearchURL is the public search page scraped by ReutersScanner.
	DefaultReutersSearchURL = "https://www.reuters.com/search/news"
	reutersSource           = "Reuters"
	browserUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// ReutersScanner scrapes the Reuters search page for article links.
type ReutersScanner struct {
	client    *http.Client
	searchURL string
}

var _ adapter.Adapter = (*ReutersScanner)(nil)

// NewReutersScanner wires an HTTP client; searchURL defaults to the public page.
func NewReutersScanner(client *http.Client, searchURL string) *ReutersScanner {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if strings.TrimSpace(searchURL) == "" {
		searchURL = DefaultReutersSearchURL
	}
	return &ReutersScanner{client: client, searchURL: searchURL}
}

// Kind identifies the strategy inside the registry.
func (r *ReutersScanner) Kind() string {
	return "reuters"
}

// Search fetches the result page for the query and extracts article anchors.
func (r *ReutersScanner) Search(ctx context.Context, req adapter.Request) ([]domain.Article, error) {
	pageURL, err := buildSearchURL(r.searchURL, req.Query)
	if err != nil {
		return nil, err
	}

	doc, err := r.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(pageURL)
	return extractArticles(doc, base, req.EffectiveLimit()), nil
}

func (r *ReutersScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reuters returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractArticles(doc *goquery.Document, base *url.URL, limit int) []domain.Article {
	collected := make([]domain.Article, 0, limit)
	seen := map[string]struct{}{}

	doc.Find(`a[href*="/article/"]`).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		article, ok := parseEntry(link, base)
		if !ok {
			return true
		}
		if _, dup := seen[article.URL]; dup {
			return true
		}
		seen[article.URL] = struct{}{}
		collected = append(collected, article)
		return len(collected) < limit
	})

	return collected
}

func parseEntry(link *goquery.Selection, base *url.URL) (domain.Article, bool) {
	title := strings.Join(strings.Fields(link.Text()), " ")
	if title == "" {
		return domain.Article{}, false
	}

	href, _ := link.Attr("href")
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return domain.Article{}, false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	ref.RawQuery = ""
	ref.Fragment = ""

	article := domain.Article{
		Title:      title,
		SourceName: reutersSource,
		URL:        ref.String(),
	}

	if stamp, ok := link.Closest("div, li, article").Find("time[datetime]").First().Attr("datetime"); ok {
		if parsed, err := time.Parse(time.RFC3339, stamp); err == nil {
			parsed = parsed.UTC()
			article.PublishedAt = &parsed
		}
	}

	return article, true
}

func buildSearchURL(base, query string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url %s: %w", base, err)
	}

	values := parsed.Query()
	values.Set("blob", query)
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}
