package anilist

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRateLimitExhausted is returned when the bounded 429 retry budget is spent.
	ErrRateLimitExhausted = errors.New("rate limit retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during a wait.
	ErrContextCancelled = errors.New("context cancelled")

	// ErrMalformedResponse is returned when the GraphQL envelope is missing
	// the expected data.Page keys.
	ErrMalformedResponse = errors.New("malformed response")
)

// ErrorClass represents a classification of fetch failures.
type ErrorClass string

const (
	// ErrorClassRateLimit represents HTTP 429 responses. Retried with
	// server-directed backoff up to a bounded attempt ceiling.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassTransient represents non-success HTTP statuses other than 429.
	// Not retried; the window continues with partial data.
	ErrorClassTransient ErrorClass = "transient"

	// ErrorClassMalformed represents responses missing expected JSON keys.
	ErrorClassMalformed ErrorClass = "malformed"

	// ErrorClassNetwork represents connection-level failures.
	ErrorClassNetwork ErrorClass = "network"
)

// APIError represents an AniList fetch failure with additional context.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("anilist %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("anilist %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-success HTTP status to its failure class.
func classifyStatus(statusCode int) ErrorClass {
	if statusCode == http.StatusTooManyRequests {
		return ErrorClassRateLimit
	}
	return ErrorClassTransient
}

// shouldRetry determines if a failure should be retried based on its class.
// Only rate limiting is retried; everything else degrades the current
// window to a partial result.
func shouldRetry(errorClass ErrorClass) bool {
	return errorClass == ErrorClassRateLimit
}
