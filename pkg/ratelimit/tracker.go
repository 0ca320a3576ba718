package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit tracking.
var (
	anilistBudgetRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "anilist_budget_remaining",
		Help: "Number of requests remaining in the current AniList rate limit window",
	})

	anilistRateLimitBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anilist_rate_limit_blocks_total",
		Help: "Total number of requests paused until the budget window reset",
	})

	anilistRateLimitThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anilist_rate_limit_throttles_total",
		Help: "Total number of requests throttled due to a low budget",
	})
)

// staleAfter is how long header-derived state stays authoritative. The
// AniList window is one minute, so older state no longer says anything.
const staleAfter = 90 * time.Second

// throttleSleep is the slow-down applied in the warning band.
const throttleSleep = 1 * time.Second

// Tracker monitors the AniList request budget and gates requests.
// State lives in process; the pipeline runs a single sequential worker,
// so no cross-process sharing is needed.
type Tracker struct {
	mu     sync.Mutex
	state  State
	logger zerolog.Logger
}

// NewTracker creates a new rate limit tracker with a healthy initial state.
func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{
		state: State{
			Limit:      DefaultBudget,
			Remaining:  DefaultBudget,
			LastUpdate: time.Now(),
			IsHealthy:  true,
		},
		logger: logger,
	}
}

// State returns a copy of the current budget state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// UpdateFromHeaders parses AniList rate limit headers and updates the state.
// Responses without the headers (proxies, error pages) are ignored.
func (t *Tracker) UpdateFromHeaders(headers http.Header) error {
	remainStr := headers.Get("X-RateLimit-Remaining")
	if remainStr == "" {
		return nil
	}

	remaining, err := strconv.Atoi(remainStr)
	if err != nil {
		return fmt.Errorf("parse X-RateLimit-Remaining header: %w", err)
	}

	limit := DefaultBudget
	if limitStr := headers.Get("X-RateLimit-Limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	var resetAt time.Time
	if resetStr := headers.Get("X-RateLimit-Reset"); resetStr != "" {
		if unix, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(unix, 0)
		}
	}

	t.mu.Lock()
	t.state = State{
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		LastUpdate: time.Now(),
	}
	t.state.UpdateHealth()
	state := t.state
	t.mu.Unlock()

	anilistBudgetRemaining.Set(float64(remaining))

	switch {
	case state.NeedsBlock():
		t.logger.Warn().
			Int("remaining", remaining).
			Time("reset_at", state.ResetAt).
			Msg("AniList budget critical - requests will pause until reset")
	case state.NeedsThrottle():
		t.logger.Warn().
			Int("remaining", remaining).
			Msg("AniList budget low - requests will be throttled")
	default:
		t.logger.Debug().
			Int("remaining", remaining).
			Int("limit", limit).
			Msg("AniList budget updated")
	}

	return nil
}

// Wait blocks the caller as long as the current budget state demands:
// until the window reset in the critical band, for a short throttle sleep
// in the warning band, not at all otherwise. Stale state is ignored.
func (t *Tracker) Wait(ctx context.Context) error {
	state := t.State()

	if state.IsStale(staleAfter) {
		return nil
	}

	var wait time.Duration
	switch {
	case state.NeedsBlock():
		wait = state.TimeUntilReset()
		if wait <= 0 {
			wait = throttleSleep
		}
		anilistRateLimitBlocksTotal.Inc()
		t.logger.Warn().
			Int("remaining", state.Remaining).
			Dur("wait", wait).
			Msg("AniList budget critical - pausing request")
	case state.NeedsThrottle():
		wait = throttleSleep
		anilistRateLimitThrottlesTotal.Inc()
		t.logger.Debug().
			Int("remaining", state.Remaining).
			Msg("AniList budget low - throttling request")
	default:
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}
