// Package scheduler is the typed HTTP client for the scheduling service. It
// satisfies scheduling.PostRepository so the drag engine can run in a
// gateway or tool process away from the database.
package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/mcawcutt/socialspark-scheduler/internal/clients"
	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/models"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("scheduler API error (%d): %s", e.StatusCode, e.Message)
}

// Config configures the client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  logging.Logger
	Retry   *clients.RetryConfig
}

// Client talks to the scheduling service. Reads retry on transient failures;
// the reschedule mutation is issued exactly once.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      logging.Logger
	retryPolicy retrypolicy.RetryPolicy[*http.Response]
}

// NewClient creates a scheduler API client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	retryCfg := clients.DefaultRetryConfig()
	if cfg.Retry != nil {
		retryCfg = *cfg.Retry
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: clients.DefaultTransport(),
		},
		logger:      cfg.Logger,
		retryPolicy: clients.NewRetryPolicy(retryCfg),
	}
}

// GetByBrand fetches a brand's full post collection.
func (c *Client) GetByBrand(ctx context.Context, brandID string) ([]models.ContentPost, error) {
	endpoint := fmt.Sprintf("%s/content-posts?brand_id=%s", c.baseURL, url.QueryEscape(brandID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := clients.DoWithRetry(ctx, c.httpClient, req, c.retryPolicy)
	if err != nil {
		return nil, fmt.Errorf("failed to call scheduler: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var list models.PostListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return list.Posts, nil
}

// GetByID fetches a single post.
func (c *Client) GetByID(ctx context.Context, id string) (*models.ContentPost, error) {
	endpoint := fmt.Sprintf("%s/content-posts/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := clients.DoWithRetry(ctx, c.httpClient, req, c.retryPolicy)
	if err != nil {
		return nil, fmt.Errorf("failed to call scheduler: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var post models.ContentPost
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &post, nil
}

// Reschedule issues the reschedule command. Not retried: the mutation has no
// version token, so a blind second attempt could mask a concurrent write.
func (c *Client) Reschedule(ctx context.Context, id string, newDate time.Time) (*models.ContentPost, error) {
	body, err := json.Marshal(models.RescheduleRequest{NewDate: newDate})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/content-posts/%s/reschedule", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call scheduler: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var post models.ContentPost
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &post, nil
}

// Delete removes a post.
func (c *Client) Delete(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("%s/content-posts/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call scheduler: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var payload models.ErrorResponse
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
}
