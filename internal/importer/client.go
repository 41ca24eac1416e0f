package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/marketpulse/pulse-api/internal/config"
	"github.com/marketpulse/pulse-api/internal/models"
	"go.uber.org/zap"
)

// Client pulls daily metric reports from an advertising platform's report
// endpoint.  Transient failures (5xx, 429, network) are retried with
// exponential backoff and jitter; 4xx responses are terminal.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	httpClient *http.Client
	logger     *zap.Logger
}

// reportResponse is the platform report envelope.
type reportResponse struct {
	Records []models.RawMetricRecord `json:"records"`
}

func NewClient(cfg config.ImporterConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// FetchDaily retrieves the account's daily records for [from, to].
func (c *Client) FetchDaily(ctx context.Context, accountID, from, to string) ([]models.RawMetricRecord, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("importer base URL not configured")
	}

	endpoint := fmt.Sprintf("%s/reports/daily", c.baseURL)
	q := url.Values{}
	q.Set("account_id", accountID)
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}
	reqURL := endpoint + "?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(attempt)
			c.logger.Warn("report fetch retry",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		records, retryable, err := c.fetchOnce(ctx, reqURL)
		if err == nil {
			return records, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("report fetch failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, reqURL string) (records []models.RawMetricRecord, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("platform returned %d", resp.StatusCode)
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("platform returned %d", resp.StatusCode)
	}

	var payload reportResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("decode report: %w", err)
	}
	return payload.Records, false, nil
}

// backoff returns 1s, 2s, 4s, ... capped at 30s, with up to 25% jitter.
func backoff(attempt int) time.Duration {
	d := time.Second << (attempt - 1)
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(d) / 4))
	return d + jitter
}
