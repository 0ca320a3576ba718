// Package testutil provides testing utilities for the catalog compiler.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for one mock AniList reply.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// capturedRequest is one recorded GraphQL request.
type capturedRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// MockAniList is a scriptable mock of the AniList GraphQL endpoint.
// Responses are served from a FIFO queue; when the queue is empty an
// empty last page is returned.
type MockAniList struct {
	server *httptest.Server
	mu     sync.Mutex
	queue  []MockResponse

	// Tracking
	RequestCount  int
	LastVariables map[string]interface{}
	Requests      []map[string]interface{}
}

// NewMockAniList creates a new mock AniList server.
func NewMockAniList() *MockAniList {
	mock := &MockAniList{}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		json.NewDecoder(r.Body).Decode(&req)

		mock.mu.Lock()
		mock.RequestCount++
		mock.LastVariables = req.Variables
		mock.Requests = append(mock.Requests, req.Variables)

		var resp MockResponse
		if len(mock.queue) > 0 {
			resp = mock.queue[0]
			mock.queue = mock.queue[1:]
		} else {
			resp = NewPageResponse(nil, 1, 1, false)
		}
		mock.mu.Unlock()

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAniList) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAniList) Close() {
	m.server.Close()
}

// Reset clears the queue and all tracking state.
func (m *MockAniList) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
	m.RequestCount = 0
	m.LastVariables = nil
	m.Requests = nil
}

// Enqueue appends responses to the reply queue.
func (m *MockAniList) Enqueue(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// GetRequestCount returns the number of requests received.
func (m *MockAniList) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RequestCount
}

// healthyHeaders is the budget header set of an unconstrained client.
func healthyHeaders() map[string]string {
	return map[string]string{
		"X-RateLimit-Limit":     "90",
		"X-RateLimit-Remaining": "85",
		"Content-Type":          "application/json",
	}
}

// NewPageResponse creates a 200 response carrying a media page with the
// given ids.
func NewPageResponse(ids []int, currentPage, lastPage int, hasNext bool) MockResponse {
	media := make([]string, len(ids))
	for i, id := range ids {
		media[i] = fmt.Sprintf(`{"id": %d}`, id)
	}

	body := fmt.Sprintf(
		`{"data": {"Page": {"pageInfo": {"total": %d, "currentPage": %d, "lastPage": %d, "hasNextPage": %t, "perPage": 50}, "media": [%s]}}}`,
		len(ids)*lastPage, currentPage, lastPage, hasNext, strings.Join(media, ","))

	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers:    healthyHeaders(),
	}
}

// NewRateLimitResponse creates a 429 response with a Retry-After header.
func NewRateLimitResponse(retryAfterSeconds int) MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Too Many Requests"}`,
		Headers: map[string]string{
			"Retry-After":           fmt.Sprintf("%d", retryAfterSeconds),
			"X-RateLimit-Limit":     "90",
			"X-RateLimit-Remaining": "0",
			"Content-Type":          "application/json",
		},
	}
}

// NewServerErrorResponse creates a 500 response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal Server Error"}`,
		Headers:    healthyHeaders(),
	}
}

// NewMalformedResponse creates a 200 response missing the data.Page keys.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"data": {}}`,
		Headers:    healthyHeaders(),
	}
}
