package httputil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---- SSEScanner -------------------------------------------------------------

// TestSSEScanner_EventSequence verifies ordered delivery of events, comment
// skipping, and io.EOF at end of input.
func TestSSEScanner_EventSequence(t *testing.T) {
	input := ": keepalive\ndata: {\"output\":{\"text\":\"a\"}}\n\ndata: {\"output\":{\"text\":\"b\"}}\n\n"
	scanner := NewSSEScanner(strings.NewReader(input))

	for _, expected := range []string{`{"output":{"text":"a"}}`, `{"output":{"text":"b"}}`} {
		payload, err := scanner.Next()
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		if payload != expected {
			t.Errorf("expected %q, got %q", expected, payload)
		}
	}

	if _, err := scanner.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after last event, got %v", err)
	}
}

// TestSSEScanner_MultiLineData verifies that consecutive data lines of one
// event are joined with newlines.
func TestSSEScanner_MultiLineData(t *testing.T) {
	scanner := NewSSEScanner(strings.NewReader("data: line1\ndata: line2\n\n"))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payload != "line1\nline2" {
		t.Errorf("expected joined payload, got %q", payload)
	}
}

// TestSSEScanner_DoneSentinel verifies that the [DONE] sentinel terminates
// the stream with io.EOF.
func TestSSEScanner_DoneSentinel(t *testing.T) {
	scanner := NewSSEScanner(strings.NewReader("data: payload\n\ndata: [DONE]\n\ndata: after\n\n"))

	if _, err := scanner.Next(); err != nil {
		t.Fatalf("expected nil error on first event, got %v", err)
	}
	if _, err := scanner.Next(); err != io.EOF {
		t.Errorf("expected io.EOF at [DONE], got %v", err)
	}
}

// TestSSEScanner_UnterminatedFinalEvent verifies that data lines not followed
// by a blank line are still flushed when the stream ends.
func TestSSEScanner_UnterminatedFinalEvent(t *testing.T) {
	scanner := NewSSEScanner(strings.NewReader("data: tail"))

	payload, err := scanner.Next()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if payload != "tail" {
		t.Errorf("expected %q, got %q", "tail", payload)
	}
}

// ---- DoPostStream -----------------------------------------------------------

// TestDoPostStream_SetsProtocolHeaders verifies that streaming requests carry
// the SSE opt-in headers and bearer auth, and that the body stays readable.
func TestDoPostStream_SetsProtocolHeaders(t *testing.T) {
	var captured http.Header
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		captured = request.Header.Clone()
		writer.Header().Set("Content-Type", "text/event-stream")
		_, _ = writer.Write([]byte("data: chunk1\n\n"))
	}))
	defer server.Close()

	response, err := DoPostStream(context.Background(), server.Client(), server.URL, "sk-test", map[string]string{"model": "alto-turbo"})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	defer CloseWithLog(response.Body)

	if got := captured.Get(HeaderSSE); got != "enable" {
		t.Errorf("expected %s header %q, got %q", HeaderSSE, "enable", got)
	}
	if got := captured.Get("Accept"); got != "text/event-stream" {
		t.Errorf("expected Accept %q, got %q", "text/event-stream", got)
	}
	if got := captured.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("expected bearer auth, got %q", got)
	}

	payload, err := NewSSEScanner(response.Body).Next()
	if err != nil {
		t.Fatalf("expected readable body, got %v", err)
	}
	if payload != "chunk1" {
		t.Errorf("expected %q, got %q", "chunk1", payload)
	}
}

// TestDoPostStream_Non2xxReturnsBodyInError verifies that error responses are
// consumed, closed, and surfaced through the returned error.
func TestDoPostStream_Non2xxReturnsBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTooManyRequests)
		_, _ = writer.Write([]byte(`{"code":"Throttling","message":"rate limited"}`))
	}))
	defer server.Close()

	_, err := DoPostStream(context.Background(), server.Client(), server.URL, "sk-test", nil)
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !strings.Contains(err.Error(), "Throttling") {
		t.Errorf("expected error to carry response body, got %v", err)
	}
}

// ---- DoPostSync / DoGetSync -------------------------------------------------

// TestDoPostSync_DecodesResponse verifies JSON decoding and header options.
func TestDoPostSync_DecodesResponse(t *testing.T) {
	type payload struct {
		RequestID string `json:"request_id"`
	}
	var capturedWorkspace string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		capturedWorkspace = request.Header.Get(HeaderWorkspace)
		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"request_id":"req-42"}`))
	}))
	defer server.Close()

	_, decoded, err := DoPostSync[payload](context.Background(), server.Client(), server.URL, "sk-test", nil, Workspace("ws-1"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if decoded.RequestID != "req-42" {
		t.Errorf("expected request id %q, got %q", "req-42", decoded.RequestID)
	}
	if capturedWorkspace != "ws-1" {
		t.Errorf("expected workspace header %q, got %q", "ws-1", capturedWorkspace)
	}
}

// TestDoPostSync_MalformedJSONIncludesPreview verifies that decode failures
// include a response preview for debugging.
func TestDoPostSync_MalformedJSONIncludesPreview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte("not json at all"))
	}))
	defer server.Close()

	_, _, err := DoPostSync[struct{}](context.Background(), server.Client(), server.URL, "", nil)
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !strings.Contains(err.Error(), "not json at all") {
		t.Errorf("expected response preview in error, got %v", err)
	}
}

// TestDoGetSync_EncodesQuery verifies that query values end up on the URL.
func TestDoGetSync_EncodesQuery(t *testing.T) {
	var capturedQuery string
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		capturedQuery = request.URL.RawQuery
		_, _ = writer.Write([]byte(`{}`))
	}))
	defer server.Close()

	query := map[string][]string{"page_no": {"2"}, "status": {"SUCCEEDED"}}
	_, _, err := DoGetSync[struct{}](context.Background(), server.Client(), server.URL, "", query)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.Contains(capturedQuery, "page_no=2") || !strings.Contains(capturedQuery, "status=SUCCEEDED") {
		t.Errorf("expected encoded query, got %q", capturedQuery)
	}
}
