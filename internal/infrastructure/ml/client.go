package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

// Client talks to an external inference service that labels text real or fake.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Classifier = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type predictResponse struct {
	Prediction      string  `json:"prediction"`
	Confidence      float64 `json:"confidence"`
	ProbabilityReal float64 `json:"probability_real"`
	ProbabilityFake float64 `json:"probability_fake"`
}

// Predict sends the text for classification.
func (c *Client) Predict(ctx context.Context, text string) (domain.Prediction, error) {
	payload := map[string]any{"text": text}

	var resp predictResponse
	if err := c.post(ctx, "/predict", payload, &resp); err != nil {
		return domain.Prediction{}, err
	}

	label := strings.ToUpper(strings.TrimSpace(resp.Prediction))
	if label == "" {
		return domain.Prediction{}, fmt.Errorf("empty prediction label")
	}

	return domain.Prediction{
		Label:           label,
		Confidence:      resp.Confidence,
		ProbabilityReal: resp.ProbabilityReal,
		ProbabilityFake: resp.ProbabilityFake,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
