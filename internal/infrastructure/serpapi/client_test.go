package serpapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"NewsVerifier/internal/adapter"
)

func TestClientSearchMapsNewsResults(t *testing.T) {
	t.Parallel()

	var gotParams map[string]string
	client := NewClient("key").WithSearchFunc(func(parameter map[string]string, apiKey string) (map[string]interface{}, error) {
		gotParams = parameter
		if apiKey != "key" {
			t.Errorf("unexpected api key %q", apiKey)
		}
		return map[string]interface{}{
			"news_results": []interface{}{
				map[string]interface{}{"title": "Senate passes budget bill", "link": "https://apnews.com/a", "source": "AP News", "iso_date": "2024-02-01T10:00:00Z"},
				map[string]interface{}{"title": "Budget heads to the president", "link": "https://nytimes.com/b", "source": map[string]interface{}{"name": "The New York Times"}},
				map[string]interface{}{"title": "  ", "link": "https://x.com"},
				"garbage",
			},
		}, nil
	})

	articles, err := client.Search(context.Background(), adapter.Request{Query: "budget bill"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if gotParams["tbm"] != "nws" || gotParams["q"] != "budget bill" || gotParams["num"] != "10" {
		t.Fatalf("unexpected params: %v", gotParams)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].SourceName != "AP News" || articles[0].PublishedAt == nil {
		t.Fatalf("unexpected first article: %+v", articles[0])
	}
	if articles[1].SourceName != "The New York Times" {
		t.Fatalf("unexpected source: %s", articles[1].SourceName)
	}
}

func TestClientSearchErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("").Search(context.Background(), adapter.Request{Query: "q"}); err == nil {
		t.Fatalf("expected missing key error")
	}

	failing := NewClient("key").WithSearchFunc(func(map[string]string, string) (map[string]interface{}, error) {
		return nil, errors.New("quota exhausted")
	})
	if _, err := failing.Search(context.Background(), adapter.Request{Query: "q"}); err == nil {
		t.Fatalf("expected transport error")
	}

	apiErr := NewClient("key").WithSearchFunc(func(map[string]string, string) (map[string]interface{}, error) {
		return map[string]interface{}{"error": "Invalid API key."}, nil
	})
	if _, err := apiErr.Search(context.Background(), adapter.Request{Query: "q"}); err == nil {
		t.Fatalf("expected api error")
	}
}

func TestClientSearchHonorsContext(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	slow := NewClient("key").WithSearchFunc(func(map[string]string, string) (map[string]interface{}, error) {
		<-release
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := slow.Search(ctx, adapter.Request{Query: "q"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestClientSearchWithoutNewsResults(t *testing.T) {
	t.Parallel()

	empty := NewClient("key").WithSearchFunc(func(map[string]string, string) (map[string]interface{}, error) {
		return map[string]interface{}{"search_metadata": map[string]interface{}{}}, nil
	})
	articles, err := empty.Search(context.Background(), adapter.Request{Query: "q"})
	if err != nil || len(articles) != 0 {
		t.Fatalf("expected empty result, got %v %v", articles, err)
	}
}
