// Package collector is the HTTP client for the text collector service that
// supplies per-subject news and report corpora.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jonesrussell/esg-analyzer/internal/domain"
)

// ErrUnavailable indicates the collector service is unreachable.
var ErrUnavailable = errors.New("collector service unavailable")

const defaultTimeout = 10 * time.Second

// Client is an HTTP client for the collector service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// fetchRequest is the request body for POST /texts.
type fetchRequest struct {
	Subject  string `json:"subject"`
	MaxItems int    `json:"max_items"`
}

// fetchResponse is the response body from POST /texts.
type fetchResponse struct {
	Items []domain.TextItem `json:"items"`
}

// healthResponse is the JSON shape returned by GET /health.
type healthResponse struct {
	Status string `json:"status"`
}

// NewClient creates a collector client. timeout <= 0 uses the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchTexts retrieves up to maxItems texts about subject.
func (c *Client) FetchTexts(ctx context.Context, subject string, maxItems int) ([]domain.TextItem, error) {
	body, err := json.Marshal(fetchRequest{Subject: subject, MaxItems: maxItems})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/texts", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("collector returned %d", resp.StatusCode)
	}

	var out fetchResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	return out.Items, nil
}

// Health checks if the collector service is healthy.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}

	var health healthResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&health); decodeErr == nil && health.Status != "" && health.Status != "ok" {
		return fmt.Errorf("collector status %q", health.Status)
	}
	return nil
}
