package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/core/textutil"
)

const tracerName = "aiinsights.blog/cli/internal/infrastructure/api"

// maxPreview bounds, in runes, the body excerpts written to debug logs
const maxPreview = 1000

// Transport performs a single exchange with the content API and decodes a
// successful response into out. Failures are returned as *Failure.
type Transport interface {
	Do(ctx context.Context, req Request, out any) error
}

// HTTPDoer is satisfied by *http.Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPTransport implements Transport over net/http
type HTTPTransport struct {
	baseURL   *url.URL
	client    HTTPDoer
	logger    ports.LoggingGateway
	userAgent string
	tracer    trace.Tracer
}

// NewHTTPTransport creates a transport bound to baseURL. The base URL is
// fixed for the lifetime of the transport.
func NewHTTPTransport(baseURL string, client HTTPDoer, logger ports.LoggingGateway, userAgent string) (*HTTPTransport, error) {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if client == nil {
		client = NewHTTPClient(30 * time.Second)
	}
	if userAgent == "" {
		userAgent = "insights-cli"
	}

	return &HTTPTransport{
		baseURL:   u,
		client:    client,
		logger:    logger,
		userAgent: userAgent,
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// ParseBaseURL checks that the base URL is an absolute http(s) URL
func ParseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL must include a host, got %q", raw)
	}
	return u, nil
}

// BaseURL returns the origin requests are resolved against
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL.String()
}

// URLFor resolves a request to its absolute URL
func (t *HTTPTransport) URLFor(req Request) string {
	return joinURL(t.baseURL, req.Path, req.Query)
}

// Do performs the exchange described by req
func (t *HTTPTransport) Do(ctx context.Context, req Request, out any) error {
	ctx, span := t.tracer.Start(ctx, "content-api "+req.Operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
			attribute.String("content_api.operation", req.Operation),
		),
	)
	defer span.End()

	httpReq, payload, err := t.newHTTPRequest(ctx, req)
	if err != nil {
		return t.fail(span, req, newTransportFailure(err))
	}

	t.logHTTPRequest(httpReq, payload)

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	latency := time.Since(start)
	if err != nil {
		return t.fail(span, req, newTransportFailure(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return t.fail(span, req, newTransportFailure(fmt.Errorf("failed to read response body: %w", err)))
	}

	t.logHTTPResponse(resp, body, latency)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return t.fail(span, req, newServerFailure(resp.StatusCode, errorMessage(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return t.fail(span, req, newDecodeFailure(resp.StatusCode, err))
	}

	return nil
}

func (t *HTTPTransport) newHTTPRequest(ctx context.Context, req Request) (*http.Request, []byte, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	defaults := map[string]string{
		"Accept":     "application/json",
		"User-Agent": t.userAgent,
	}

	var payload []byte
	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = data
		body = bytes.NewReader(data)
		defaults["Content-Type"] = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, t.URLFor(req), body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range MergeHeaders(defaults, req.Headers) {
		httpReq.Header.Set(k, v)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	return httpReq, payload, nil
}

// fail logs the failure and records it on the span before handing it back
func (t *HTTPTransport) fail(span trace.Span, req Request, f *Failure) error {
	span.RecordError(f)
	span.SetStatus(codes.Error, f.Message)
	span.SetAttributes(attribute.String("content_api.failure_origin", string(f.Origin)))

	if t.logger != nil {
		fields := map[string]interface{}{
			"operation": req.Operation,
			"method":    req.Method,
			"path":      req.Path,
			"origin":    string(f.Origin),
			"message":   f.Message,
		}
		if f.Status != 0 {
			fields["status"] = f.Status
		}
		t.logger.Log(ports.LogLevelError, "API call failed", fields)
	}

	return f
}

// errorMessage extracts {"message": "..."} (or {"error": "..."}) from an
// error body. It returns "" when the body carries neither.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if s, ok := payload.Error.(string); ok {
		return s
	}
	return ""
}

func (t *HTTPTransport) isDebugEnabled() bool {
	return t.logger != nil && t.logger.GetLogLevel() == ports.LogLevelDebug
}

func (t *HTTPTransport) logHTTPRequest(req *http.Request, body []byte) {
	if !t.isDebugEnabled() {
		return
	}

	t.logger.Log(ports.LogLevelDebug, "HTTP Request", map[string]interface{}{
		"method":       req.Method,
		"url":          req.URL.String(),
		"request_id":   req.Header.Get("X-Request-ID"),
		"body_size":    len(body),
		"body_preview": preview(body),
	})
}

func (t *HTTPTransport) logHTTPResponse(resp *http.Response, body []byte, latency time.Duration) {
	if !t.isDebugEnabled() {
		return
	}

	t.logger.Log(ports.LogLevelDebug, "HTTP Response", map[string]interface{}{
		"status_code":  resp.StatusCode,
		"body_size":    len(body),
		"body_preview": preview(body),
		"latency_ms":   latency.Milliseconds(),
	})
}

func preview(body []byte) string {
	return textutil.TruncateText(string(body), maxPreview)
}

var _ Transport = (*HTTPTransport)(nil)
