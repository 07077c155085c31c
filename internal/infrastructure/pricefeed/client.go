package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/skifa/recipescaler/internal/domain"
)

const maxAttempts = 3

// Client pulls the supplier price lists from the wholesaler's HTTP feed
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
	backoff     func(attempt int) time.Duration
}

// NewClient creates a feed client limited to requestsPerHour.
// A non-positive limit falls back to 1000 requests per hour.
func NewClient(apiKey, baseURL string, requestsPerHour int, logger *zap.Logger) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	// rate.Limit is per second
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: limiter,
		logger:      logger,
		backoff:     exponentialBackoff,
	}
}

// SetDebug toggles request-level debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

type packagedResponse struct {
	Items []domain.CatalogEntry `json:"items"`
}

type freshResponse struct {
	Items []domain.FreshProduceEntry `json:"items"`
}

// LoadPackaged fetches the packaged goods price list
func (c *Client) LoadPackaged(ctx context.Context) ([]domain.CatalogEntry, error) {
	var resp packagedResponse
	if err := c.fetch(ctx, "/v1/catalog/packaged", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// LoadFresh fetches the fresh produce price list
func (c *Client) LoadFresh(ctx context.Context) ([]domain.FreshProduceEntry, error) {
	var resp freshResponse
	if err := c.fetch(ctx, "/v1/catalog/fresh", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// fetch GETs path and decodes the JSON body into out.
// 429 and 5xx responses and transport errors are retried; other statuses are not.
func (c *Client) fetch(ctx context.Context, path string, out interface{}) error {
	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		if c.debug {
			c.logger.Debug("[FEED] request", zap.String("url", reqURL), zap.Int("attempt", attempt))
		}

		status, body, err := c.doRequest(ctx, reqURL)
		switch {
		case err != nil:
			lastErr = err
		case status == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%w: failed to decode response: %v", domain.ErrPriceFeedFailure, err)
			}
			return nil
		case status == http.StatusNotFound:
			return fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, path)
		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = fmt.Errorf("%w: status %d", domain.ErrPriceFeedFailure, status)
		default:
			return fmt.Errorf("%w: status %d, body: %s", domain.ErrPriceFeedFailure, status, truncate(body, 200))
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		c.logger.Warn("price feed request failed",
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	return lastErr
}

// doRequest executes an HTTP GET request and reads the whole body
func (c *Client) doRequest(ctx context.Context, reqURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "RecipeScaler/1.0")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", domain.ErrPriceFeedFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading body: %v", domain.ErrPriceFeedFailure, err)
	}
	return resp.StatusCode, body, nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
