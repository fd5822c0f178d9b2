// Package httputil implements the HTTP plumbing shared by all Alto service
// clients: JSON POST/GET helpers, the streaming (SSE) request path, and the
// SSE event scanner. It knows nothing about individual services beyond the
// Alto header conventions.
package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/altoai/alto-go/observability"
)

// Alto protocol headers. Async task submission and SSE streaming are opted
// into per request; the workspace header scopes the call to a workspace.
const (
	HeaderAsync     = "X-Alto-Async"
	HeaderSSE       = "X-Alto-SSE"
	HeaderWorkspace = "X-Alto-Workspace"
)

// maxResponseBodySize caps body reads (10 MB) to prevent unbounded memory
// allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// maxErrorPreviewLength caps the response preview included in decode errors.
const maxErrorPreviewLength = 500

// HeaderOption is an extra request header applied after the defaults, so it
// can override them when needed.
type HeaderOption struct {
	Key   string
	Value string
}

// Workspace returns a HeaderOption scoping the request to an Alto workspace.
func Workspace(workspaceID string) HeaderOption {
	return HeaderOption{Key: HeaderWorkspace, Value: workspaceID}
}

// Async returns the HeaderOption that turns a submission into an async task.
func Async() HeaderOption {
	return HeaderOption{Key: HeaderAsync, Value: "enable"}
}

// DoPostSync performs a synchronous JSON POST and decodes the response body
// into OutputStruct.
//
// Error handling strategy:
//   - context errors (timeout, cancellation) propagate immediately
//   - connection failures and non-2xx statuses return an error carrying the
//     response body
//   - body close errors are logged, never override the primary error
//   - decode errors include a response preview for debugging
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, requestURL string, apiKey string, body any, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	applyAuth(request, apiKey)
	for _, header := range headers {
		request.Header.Set(header.Key, header.Value)
	}

	return doSync[OutputStruct](ctx, client, request, len(jsonBody))
}

// DoGetSync performs a synchronous GET with optional query parameters and
// decodes the response body into OutputStruct.
func DoGetSync[OutputStruct any](ctx context.Context, client *http.Client, requestURL string, apiKey string, query url.Values, headers ...HeaderOption) (*http.Response, *OutputStruct, error) {
	if len(query) > 0 {
		requestURL = requestURL + "?" + query.Encode()
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	request.Header.Set("Accept", "application/json")
	applyAuth(request, apiKey)
	for _, header := range headers {
		request.Header.Set(header.Key, header.Value)
	}

	return doSync[OutputStruct](ctx, client, request, 0)
}

func doSync[OutputStruct any](ctx context.Context, client *http.Client, request *http.Request, requestBodySize int) (*http.Response, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, request.Method),
			observability.String(observability.AttrHTTPURL, request.URL.String()),
			observability.Int(observability.AttrHTTPRequestBodySize, requestBodySize),
		)
	}

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	requestStart := time.Now()
	response, err := httpClient.Do(request)
	requestDuration := time.Since(requestStart)
	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", requestDuration),
			)
		}
		return response, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer CloseWithLog(response.Body)

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
	if err != nil {
		return response, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(responseBody)),
			observability.Duration("http.request.duration", requestDuration),
		)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return response, nil, fmt.Errorf("non-2xx status %d: %s", response.StatusCode, string(responseBody))
	}

	var decoded OutputStruct
	if err = json.Unmarshal(responseBody, &decoded); err != nil {
		return response, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s",
			response.StatusCode, err, observability.TruncateString(string(responseBody), maxErrorPreviewLength))
	}
	return response, &decoded, nil
}

func applyAuth(request *http.Request, apiKey string) {
	if apiKey != "" {
		request.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

// CloseWithLog closes the given closer, logging failures instead of
// propagating them so they never override a primary error.
func CloseWithLog(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}
