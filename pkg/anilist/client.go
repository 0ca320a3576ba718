// Package anilist provides the AniList GraphQL page fetcher with
// rate-limit handling and error classification.
package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/anidata/anilist-compiler/pkg/ratelimit"
	"github.com/anidata/anilist-compiler/pkg/window"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for AniList client operations.
var (
	anilistRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anilist_requests_total",
		Help: "Total AniList requests by HTTP status",
	}, []string{"status"})

	anilistRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anilist_request_duration_seconds",
		Help:    "AniList request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	anilistErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anilist_errors_total",
		Help: "Total AniList fetch errors by class",
	}, []string{"class"})

	anilistRateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anilist_rate_limit_wait_seconds",
		Help:    "Server-directed wait duration for 429 responses",
		Buckets: []float64{1, 2, 5, 10, 30, 60, 120},
	})

	anilistRateLimitExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anilist_rate_limit_exhausted_total",
		Help: "Total number of times the 429 retry budget was exhausted",
	})
)

// MaxPerPage is the page size ceiling imposed by the AniList API.
const MaxPerPage = 50

// Config holds the client configuration.
type Config struct {
	// BaseURL is the GraphQL endpoint.
	BaseURL string

	// UserAgent identifies this collector to the API.
	UserAgent string

	// PerPage is the page size (1..MaxPerPage).
	PerPage int

	// MaxRateLimitAttempts bounds how often one request is retried after 429.
	MaxRateLimitAttempts int

	// RetryAfterFallback is the wait applied when a 429 response carries no
	// Retry-After header.
	RetryAfterFallback time.Duration

	// PageDelay is the courtesy sleep after each successful fetch.
	PageDelay time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:              "https://graphql.anilist.co",
		UserAgent:            "anilist-compiler/0.1.0",
		PerPage:              MaxPerPage,
		MaxRateLimitAttempts: 5,
		RetryAfterFallback:   60 * time.Second,
		PageDelay:            1 * time.Second,
		Timeout:              30 * time.Second,
	}
}

// Client is the AniList GraphQL page fetcher.
type Client struct {
	httpClient *http.Client
	tracker    *ratelimit.Tracker
	config     Config
	logger     zerolog.Logger
}

// New creates a new AniList client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.PerPage < 1 || cfg.PerPage > MaxPerPage {
		return nil, fmt.Errorf("per_page must be in [1, %d] (got %d)", MaxPerPage, cfg.PerPage)
	}

	if cfg.MaxRateLimitAttempts < 1 {
		return nil, fmt.Errorf("max_rate_limit_attempts must be >= 1 (got %d)", cfg.MaxRateLimitAttempts)
	}

	logger := log.With().Str("component", "anilist-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		tracker: ratelimit.NewTracker(logger),
		config:  cfg,
		logger:  logger,
	}, nil
}

// FetchPage fetches one page of media for the given window.
// 429 responses are retried with the server-directed wait (Retry-After,
// falling back to RetryAfterFallback) up to MaxRateLimitAttempts; any other
// failure is returned immediately as an APIError and the caller decides how
// to degrade. A successful fetch is followed by the courtesy PageDelay.
func (c *Client) FetchPage(ctx context.Context, w window.Window, page int) (*Page, error) {
	startTime := time.Now()
	defer func() {
		anilistRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	body, err := c.buildRequestBody(w, page)
	if err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}

	for attempt := 1; attempt <= c.config.MaxRateLimitAttempts; attempt++ {
		// Proactive throttling based on the advertised request budget.
		if err := c.tracker.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.post(ctx, body)
		if err != nil {
			anilistErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			anilistRequestsTotal.WithLabelValues("network_error").Inc()
			c.logger.Error().Err(err).
				Str("window", w.Key()).
				Int("page", page).
				Msg("HTTP request failed")
			return nil, &APIError{
				ErrorClass: ErrorClassNetwork,
				Message:    "request failed",
				Err:        err,
			}
		}

		if err := c.tracker.UpdateFromHeaders(resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update rate limit state from headers")
		}

		anilistRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusOK {
			class := classifyStatus(resp.StatusCode)
			anilistErrorsTotal.WithLabelValues(string(class)).Inc()

			if shouldRetry(class) {
				resp.Body.Close()

				wait := c.retryAfter(resp.Header)
				anilistRateLimitWaitSeconds.Observe(wait.Seconds())

				c.logger.Warn().
					Str("window", w.Key()).
					Int("page", page).
					Int("attempt", attempt).
					Dur("wait", wait).
					Msg("Rate limited - waiting before retry")

				if err := c.sleep(ctx, wait); err != nil {
					return nil, err
				}
				continue
			}

			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()

			c.logger.Warn().
				Str("window", w.Key()).
				Int("page", page).
				Int("status", resp.StatusCode).
				Str("body", string(detail)).
				Msg("AniList request error")

			return nil, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: class,
				Message:    resp.Status,
			}
		}

		pageData, err := decodePage(resp.Body)
		resp.Body.Close()
		if err != nil {
			anilistErrorsTotal.WithLabelValues(string(ErrorClassMalformed)).Inc()

			c.logger.Warn().Err(err).
				Str("window", w.Key()).
				Int("page", page).
				Msg("Malformed AniList response")

			return nil, &APIError{
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassMalformed,
				Message:    "decode response",
				Err:        err,
			}
		}

		c.logger.Debug().
			Str("window", w.Key()).
			Int("page", page).
			Int("items", len(pageData.Media)).
			Bool("has_next_page", pageData.PageInfo.HasNextPage).
			Msg("Fetched page")

		// Courtesy delay between successful requests.
		if err := c.sleep(ctx, c.config.PageDelay); err != nil {
			return pageData, nil
		}

		return pageData, nil
	}

	anilistRateLimitExhaustedTotal.Inc()
	c.logger.Error().
		Str("window", w.Key()).
		Int("page", page).
		Int("max_attempts", c.config.MaxRateLimitAttempts).
		Msg("Rate limit retry attempts exhausted")

	return nil, fmt.Errorf("%w after %d attempts", ErrRateLimitExhausted, c.config.MaxRateLimitAttempts)
}

// buildRequestBody marshals the GraphQL payload for one (window, page) pair.
// Open window bounds leave the corresponding date variable absent.
func (c *Client) buildRequestBody(w window.Window, page int) ([]byte, error) {
	variables := map[string]interface{}{
		"page":    page,
		"perPage": c.config.PerPage,
	}
	if start, ok := w.StartDate(); ok {
		variables["startDate"] = int(start)
	}
	if end, ok := w.EndDate(); ok {
		variables["endDate"] = int(end)
	}

	return json.Marshal(map[string]interface{}{
		"query":     mediaQuery,
		"variables": variables,
	})
}

// post issues the GraphQL POST request.
func (c *Client) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	return c.httpClient.Do(req)
}

// retryAfter reads the server-provided wait duration from a 429 response,
// falling back to the configured default when the header is absent or bad.
func (c *Client) retryAfter(headers http.Header) time.Duration {
	value := headers.Get("Retry-After")
	if value == "" {
		return c.config.RetryAfterFallback
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return c.config.RetryAfterFallback
	}

	return time.Duration(seconds) * time.Second
}

// sleep waits for the given duration with context cancellation support.
func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// decodePage unwraps the GraphQL envelope and validates the expected keys.
func decodePage(r io.Reader) (*Page, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if env.Data == nil || env.Data.Page == nil {
		return nil, fmt.Errorf("%w: missing data.Page", ErrMalformedResponse)
	}

	return env.Data.Page, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
