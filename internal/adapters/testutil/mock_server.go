// Package testutil provides a fake docflow API for backend tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockResponse defines a response for a mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       interface{} // Will be JSON encoded if not a string
}

// RecordedRequest captures details about a request made to the mock server.
type RecordedRequest struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// Decode unmarshals the recorded JSON body into v.
func (r RecordedRequest) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// MockServer is an httptest server speaking the docflow API routes. It records
// all requests and answers POSTs with configured responses.
type MockServer struct {
	*httptest.Server
	mu        sync.Mutex
	responses map[string]MockResponse // path -> response
	requests  []RecordedRequest
}

// NewMockServer creates a new mock API server.
func NewMockServer() *MockServer {
	m := &MockServer{
		responses: make(map[string]MockResponse),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handleRequest))
	return m
}

// ExpectPOST configures the response for a POST to path.
func (m *MockServer) ExpectPOST(path string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = resp
}

// ExpectDecision configures the decision endpoint of documentID.
func (m *MockServer) ExpectDecision(documentID string, resp MockResponse) {
	m.ExpectPOST(fmt.Sprintf("/documents/%s/decisions", documentID), resp)
}

// ExpectBulk configures the bulk endpoint of screen and action.
func (m *MockServer) ExpectBulk(screen, action string, resp MockResponse) {
	m.ExpectPOST(fmt.Sprintf("/bulk/%s/%s", screen, action), resp)
}

func (m *MockServer) handleRequest(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
		Body:    body,
	})
	resp, ok := m.responses[r.URL.Path]
	m.mu.Unlock()

	if !ok || r.Method != http.MethodPost {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no mock response configured"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	w.WriteHeader(resp.StatusCode)

	switch b := resp.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(b))
	default:
		_ = json.NewEncoder(w).Encode(b)
	}
}

// RequestCount returns the number of requests received.
func (m *MockServer) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request, or nil if none.
func (m *MockServer) LastRequest() *RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.requests) == 0 {
		return nil
	}
	last := m.requests[len(m.requests)-1]
	return &last
}
