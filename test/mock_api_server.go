// Package test provides a scriptable stand-in for the blog content API.
package test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// BasePath is the path prefix the mock serves the API under
const BasePath = "/v1"

// MockAPIServer implements a mock content API server for testing
type MockAPIServer struct {
	server       *httptest.Server
	mu           sync.RWMutex
	requestCount int64
	latency      time.Duration
	routes       map[string][]MockResponse
	requestLog   []APIRequest
}

// APIRequest represents a logged API request
type APIRequest struct {
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Query     string            `json:"query"`
	Headers   map[string]string `json:"headers"`
	Body      string            `json:"body"`
	Timestamp time.Time         `json:"timestamp"`
}

// QueryValues parses the raw query string
func (r APIRequest) QueryValues() url.Values {
	values, err := url.ParseQuery(r.Query)
	if err != nil {
		return url.Values{}
	}
	return values
}

// MockResponse represents a configured response
type MockResponse struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	Cookie     *http.Cookie      `json:"-"`
}

// JSON builds a response whose body is v encoded as JSON
func JSON(status int, v any) MockResponse {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return MockResponse{StatusCode: status, Body: string(data)}
}

// Raw builds a response with a literal body
func Raw(status int, body string) MockResponse {
	return MockResponse{StatusCode: status, Body: body}
}

// NewMockAPIServer starts a mock server that is closed when the test ends
func NewMockAPIServer(t testing.TB) *MockAPIServer {
	t.Helper()

	s := &MockAPIServer{
		routes:     make(map[string][]MockResponse),
		requestLog: make([]APIRequest, 0),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handleWithMiddleware))
	t.Cleanup(s.server.Close)

	return s
}

// URL returns the base URL clients should be configured with
func (s *MockAPIServer) URL() string {
	return s.server.URL + BasePath
}

// Close stops the server early, e.g. to provoke connection errors
func (s *MockAPIServer) Close() {
	s.server.Close()
}

// On scripts the responses for method and path (relative to BasePath).
// Responses are served in order; the last one repeats.
func (s *MockAPIServer) On(method, path string, responses ...MockResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[routeKey(method, BasePath+path)] = responses
}

// SetLatency delays every response
func (s *MockAPIServer) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// GetRequestLog returns a copy of every request received
func (s *MockAPIServer) GetRequestLog() []APIRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]APIRequest, len(s.requestLog))
	copy(out, s.requestLog)
	return out
}

// RequestsTo returns the logged requests for method and path (relative to BasePath)
func (s *MockAPIServer) RequestsTo(method, path string) []APIRequest {
	var out []APIRequest
	for _, r := range s.GetRequestLog() {
		if r.Method == method && r.Path == BasePath+path {
			out = append(out, r)
		}
	}
	return out
}

// RequestCount returns the number of requests served
func (s *MockAPIServer) RequestCount() int {
	return int(atomic.LoadInt64(&s.requestCount))
}

func (s *MockAPIServer) handleWithMiddleware(w http.ResponseWriter, r *http.Request) {
	s.logRequest(r)
	atomic.AddInt64(&s.requestCount, 1)

	s.mu.RLock()
	latency := s.latency
	s.mu.RUnlock()
	if latency > 0 {
		time.Sleep(latency)
	}

	resp, ok := s.nextResponse(r.Method, r.URL.Path)
	if !ok {
		resp = JSON(http.StatusNotFound, map[string]string{"message": "no route for " + r.Method + " " + r.URL.Path})
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	if resp.Cookie != nil {
		http.SetCookie(w, resp.Cookie)
	}
	w.WriteHeader(resp.StatusCode)
	io.WriteString(w, resp.Body)
}

func (s *MockAPIServer) nextResponse(method, path string) (MockResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := routeKey(method, path)
	queue := s.routes[key]
	if len(queue) == 0 {
		return MockResponse{}, false
	}
	resp := queue[0]
	if len(queue) > 1 {
		s.routes[key] = queue[1:]
	}
	return resp, true
}

// logRequest logs an API request
func (s *MockAPIServer) logRequest(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(strings.NewReader(string(body)))

	headers := make(map[string]string)
	for key, values := range r.Header {
		headers[key] = strings.Join(values, ", ")
	}

	request := APIRequest{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Headers:   headers,
		Body:      string(body),
		Timestamp: time.Now(),
	}

	s.mu.Lock()
	s.requestLog = append(s.requestLog, request)
	s.mu.Unlock()
}

func routeKey(method, path string) string {
	return method + " " + path
}
