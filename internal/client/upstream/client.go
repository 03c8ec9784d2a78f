package upstream

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

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/finsight-hq/finsight-api/internal/logger"
	"github.com/finsight-hq/finsight-api/internal/types/business"
)

// HTTPError represents an error response from the upstream payments API
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s failed with status %d %s: %s", e.URL, e.StatusCode, e.Status, e.Body)
}

// RetryConfig configures the retry behavior
type RetryConfig struct {
	MaxRetries           int
	InitialInterval      time.Duration
	MaxInterval          time.Duration
	Multiplier           float64
	MaxElapsedTime       time.Duration
	RetryableStatusCodes []int
}

// DefaultRetryConfig provides sensible defaults for retries
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:           3,
		InitialInterval:      100 * time.Millisecond,
		MaxInterval:          10 * time.Second,
		Multiplier:           2.0,
		MaxElapsedTime:       30 * time.Second,
		RetryableStatusCodes: []int{408, 429, 500, 502, 503, 504},
	}
}

// Client is the HTTP implementation of PageFetcher against the upstream
// payments API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	authToken   string
	retryConfig *RetryConfig
}

// ClientOption modifies the client during construction
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetryConfig sets the retry configuration
func WithRetryConfig(config *RetryConfig) ClientOption {
	return func(c *Client) {
		c.retryConfig = config
	}
}

// NewClient creates an upstream API client with bearer authentication
func NewClient(baseURL, authToken string, options ...ClientOption) *Client {
	client := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		authToken:   authToken,
		retryConfig: DefaultRetryConfig(),
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// pageEnvelope is the upstream list response wrapper
type pageEnvelope struct {
	Status  bool                  `json:"status"`
	Message string                `json:"message"`
	Data    []business.RawRecord  `json:"data"`
	Meta    business.PageMeta     `json:"meta"`
}

// FetchPage requests one page of records from the given collection endpoint
func (c *Client) FetchPage(ctx context.Context, endpoint string, params FetchParams) ([]business.RawRecord, business.PageMeta, error) {
	fullURL := c.baseURL + endpoint + "?" + buildQuery(params)

	var envelope pageEnvelope
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.authToken)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("http request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			httpErr := &HTTPError{
				StatusCode: resp.StatusCode,
				Status:     resp.Status,
				URL:        fullURL,
				Body:       string(bodyBytes),
			}
			if c.isRetryable(resp.StatusCode) {
				return httpErr
			}
			return backoff.Permanent(httpErr)
		}

		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode page response: %w", err))
		}
		return nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.retryConfig.InitialInterval
	expBackoff.MaxInterval = c.retryConfig.MaxInterval
	expBackoff.Multiplier = c.retryConfig.Multiplier
	expBackoff.MaxElapsedTime = c.retryConfig.MaxElapsedTime

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(c.retryConfig.MaxRetries)), ctx))
	if err != nil {
		logger.Error("upstream page fetch failed",
			zap.String("url", fullURL),
			zap.Int("page", params.Page),
			zap.Error(err))
		return nil, business.PageMeta{}, err
	}

	logger.Debug("upstream page fetched",
		zap.String("endpoint", endpoint),
		zap.Int("page", params.Page),
		zap.Int("records", len(envelope.Data)))

	return envelope.Data, envelope.Meta, nil
}

func (c *Client) isRetryable(statusCode int) bool {
	for _, code := range c.retryConfig.RetryableStatusCodes {
		if code == statusCode {
			return true
		}
	}
	return false
}

func buildQuery(params FetchParams) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("perPage", strconv.Itoa(params.PerPage))
	if params.From != "" {
		query.Set("from", params.From)
	}
	if params.To != "" {
		query.Set("to", params.To)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Currency != "" {
		query.Set("currency", params.Currency)
	}
	if params.Channel != "" {
		query.Set("channel", params.Channel)
	}
	return query.Encode()
}
