package ratelimit

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestNewTracker_DefaultState(t *testing.T) {
	tracker := NewTracker(testLogger())

	state := tracker.State()
	if state.Remaining != DefaultBudget {
		t.Errorf("Remaining = %d, want %d", state.Remaining, DefaultBudget)
	}
	if !state.IsHealthy {
		t.Error("initial state should be healthy")
	}
}

func TestUpdateFromHeaders(t *testing.T) {
	tests := []struct {
		name              string
		remaining         string
		limit             string
		expectedRemaining int
		expectedLimit     int
		expectedHealthy   bool
		shouldError       bool
	}{
		{
			name:              "healthy state",
			remaining:         "85",
			limit:             "90",
			expectedRemaining: 85,
			expectedLimit:     90,
			expectedHealthy:   true,
		},
		{
			name:              "warning state",
			remaining:         "7",
			limit:             "90",
			expectedRemaining: 7,
			expectedLimit:     90,
			expectedHealthy:   false,
		},
		{
			name:              "critical state",
			remaining:         "1",
			limit:             "90",
			expectedRemaining: 1,
			expectedLimit:     90,
			expectedHealthy:   false,
		},
		{
			name:              "missing limit falls back to default",
			remaining:         "40",
			expectedRemaining: 40,
			expectedLimit:     DefaultBudget,
			expectedHealthy:   true,
		},
		{
			name:        "unparsable remaining",
			remaining:   "not-a-number",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewTracker(testLogger())

			headers := http.Header{}
			headers.Set("X-RateLimit-Remaining", tt.remaining)
			if tt.limit != "" {
				headers.Set("X-RateLimit-Limit", tt.limit)
			}

			err := tracker.UpdateFromHeaders(headers)
			if tt.shouldError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateFromHeaders() error: %v", err)
			}

			state := tracker.State()
			if state.Remaining != tt.expectedRemaining {
				t.Errorf("Remaining = %d, want %d", state.Remaining, tt.expectedRemaining)
			}
			if state.Limit != tt.expectedLimit {
				t.Errorf("Limit = %d, want %d", state.Limit, tt.expectedLimit)
			}
			if state.IsHealthy != tt.expectedHealthy {
				t.Errorf("IsHealthy = %v, want %v", state.IsHealthy, tt.expectedHealthy)
			}
		})
	}
}

func TestUpdateFromHeaders_NoHeadersIsNoop(t *testing.T) {
	tracker := NewTracker(testLogger())

	if err := tracker.UpdateFromHeaders(http.Header{}); err != nil {
		t.Fatalf("UpdateFromHeaders() error: %v", err)
	}

	state := tracker.State()
	if state.Remaining != DefaultBudget {
		t.Errorf("Remaining = %d, want untouched default %d", state.Remaining, DefaultBudget)
	}
}

func TestUpdateFromHeaders_ParsesReset(t *testing.T) {
	tracker := NewTracker(testLogger())

	reset := time.Now().Add(45 * time.Second)
	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "2")
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

	if err := tracker.UpdateFromHeaders(headers); err != nil {
		t.Fatalf("UpdateFromHeaders() error: %v", err)
	}

	state := tracker.State()
	if state.ResetAt.Unix() != reset.Unix() {
		t.Errorf("ResetAt = %v, want %v", state.ResetAt, reset)
	}
}

func TestWait_HealthyDoesNotSleep(t *testing.T) {
	tracker := NewTracker(testLogger())

	start := time.Now()
	if err := tracker.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Wait() slept %v in healthy state", elapsed)
	}
}

func TestWait_ThrottlesInWarningBand(t *testing.T) {
	tracker := NewTracker(testLogger())

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "5")
	if err := tracker.UpdateFromHeaders(headers); err != nil {
		t.Fatalf("UpdateFromHeaders() error: %v", err)
	}

	start := time.Now()
	if err := tracker.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < throttleSleep {
		t.Errorf("Wait() slept %v, want at least %v", elapsed, throttleSleep)
	}
}

func TestWait_BlocksUntilReset(t *testing.T) {
	tracker := NewTracker(testLogger())

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "0")
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(2*time.Second).Unix(), 10))
	if err := tracker.UpdateFromHeaders(headers); err != nil {
		t.Fatalf("UpdateFromHeaders() error: %v", err)
	}

	start := time.Now()
	if err := tracker.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 1*time.Second {
		t.Errorf("Wait() slept %v, want to block until reset (about 2s)", elapsed)
	}
}

func TestWait_ContextCancelled(t *testing.T) {
	tracker := NewTracker(testLogger())

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "0")
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(30*time.Second).Unix(), 10))
	if err := tracker.UpdateFromHeaders(headers); err != nil {
		t.Fatalf("UpdateFromHeaders() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := tracker.Wait(ctx); err == nil {
		t.Error("Wait() should surface context cancellation during a block")
	}
}

func TestWait_StaleStateIsIgnored(t *testing.T) {
	tracker := NewTracker(testLogger())

	headers := http.Header{}
	headers.Set("X-RateLimit-Remaining", "0")
	if err := tracker.UpdateFromHeaders(headers); err != nil {
		t.Fatalf("UpdateFromHeaders() error: %v", err)
	}

	// Age the state past the staleness horizon.
	tracker.mu.Lock()
	tracker.state.LastUpdate = time.Now().Add(-2 * staleAfter)
	tracker.mu.Unlock()

	start := time.Now()
	if err := tracker.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Wait() slept %v on stale state", elapsed)
	}
}
