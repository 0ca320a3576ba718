// Package ratelimit tracks the AniList request budget advertised by the
// X-RateLimit-Limit and X-RateLimit-Remaining response headers, and slows
// requests down before the API starts answering with 429.
package ratelimit

import (
	"time"
)

// Thresholds for rate limit decisions.
const (
	// BudgetCritical blocks until the window resets when the remaining
	// budget falls below this value. This avoids burning the last requests
	// of a window and the 429 storm that follows.
	BudgetCritical = 3

	// BudgetWarning applies throttling when the remaining budget falls
	// below this value.
	BudgetWarning = 10

	// BudgetHealthy indicates normal operation.
	BudgetHealthy = 30
)

// DefaultBudget is assumed until the first response headers arrive.
// AniList grants 90 requests per minute.
const DefaultBudget = 90

// State represents the current AniList request budget.
type State struct {
	// Limit is the per-window request allowance (X-RateLimit-Limit).
	Limit int

	// Remaining is the number of requests left in the current window
	// (X-RateLimit-Remaining).
	Remaining int

	// ResetAt is when the budget window rolls over (X-RateLimit-Reset,
	// a unix timestamp). Zero when the API did not advertise it.
	ResetAt time.Time

	// LastUpdate is when this state was last refreshed from headers.
	LastUpdate time.Time

	// IsHealthy is true when Remaining >= BudgetHealthy.
	IsHealthy bool
}

// IsStale returns true if the state is older than the given duration.
// A stale state is treated as healthy: the budget window has rotated since.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsBlock returns true if requests should pause until the window resets.
func (s *State) NeedsBlock() bool {
	return s.Remaining < BudgetCritical
}

// NeedsThrottle returns true if requests should be slowed down.
func (s *State) NeedsThrottle() bool {
	return s.Remaining < BudgetWarning && !s.NeedsBlock()
}

// TimeUntilReset returns the duration until the budget window resets.
// Returns 0 if the reset time is unknown or has already passed.
func (s *State) TimeUntilReset() time.Duration {
	if s.ResetAt.IsZero() {
		return 0
	}
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field based on the current Remaining.
func (s *State) UpdateHealth() {
	s.IsHealthy = s.Remaining >= BudgetHealthy
}
