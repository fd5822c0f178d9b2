package multimodal

import (
	"context"
	"fmt"
	"net/http"

	"github.com/altoai/alto-go"
	"github.com/altoai/alto-go/api"
	"github.com/altoai/alto-go/internal/httputil"
	"github.com/altoai/alto-go/internal/streaming"
	"github.com/altoai/alto-go/observability"
)

const multimodalEndpoint = "/services/aigc/multimodal-generation/generation"

// Client calls the Alto multimodal conversation service.
type Client struct {
	apiKey    string
	baseURL   string
	workspace string
	client    *http.Client
}

// NewClient creates a multimodal client with defaults from the environment.
func NewClient() *Client {
	return &Client{
		apiKey:    alto.APIKey(),
		baseURL:   alto.BaseURL(),
		workspace: alto.Workspace(),
		client:    &http.Client{},
	}
}

// WithAPIKey sets the API key used for authenticating requests.
func (multimodalClient *Client) WithAPIKey(apiKey string) *Client {
	multimodalClient.apiKey = apiKey
	return multimodalClient
}

// WithBaseURL overrides the default base URL.
func (multimodalClient *Client) WithBaseURL(baseURL string) *Client {
	multimodalClient.baseURL = baseURL
	return multimodalClient
}

// WithWorkspace scopes all calls to the given workspace.
func (multimodalClient *Client) WithWorkspace(workspaceID string) *Client {
	multimodalClient.workspace = workspaceID
	return multimodalClient
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (multimodalClient *Client) WithHttpClient(httpClient *http.Client) *Client {
	multimodalClient.client = httpClient
	return multimodalClient
}

// Call sends a multimodal request and returns the completed response. For
// speech synthesis models the result arrives under Output.Audio.
func (multimodalClient *Client) Call(ctx context.Context, request Request) (*api.Response, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrService, "multimodal-generation"),
			observability.String(observability.AttrEndpoint, multimodalClient.baseURL),
			observability.String(observability.AttrModel, request.Model),
		)
	}
	if observer != nil {
		observer.Trace(ctx, "multimodal request prepared",
			observability.String(observability.AttrService, "multimodal-generation"),
			observability.String(observability.AttrModel, request.Model),
			observability.Int("request.messages.count", len(request.Input.Messages)),
		)
	}

	if multimodalClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	httpResponse, response, err := httputil.DoPostSync[api.Response](
		ctx, multimodalClient.client, multimodalClient.baseURL+multimodalEndpoint,
		multimodalClient.apiKey, request, multimodalClient.headers()...)
	if err != nil {
		return nil, fmt.Errorf("multimodal call failed: %w", err)
	}
	if response == nil {
		return nil, fmt.Errorf("empty response from multimodal service: %s", httpResponse.Status)
	}
	response.StatusCode = httpResponse.StatusCode

	if span != nil {
		span.AddEvent(observability.EventRequestEnd,
			observability.String(observability.AttrRequestID, response.RequestID),
		)
	}
	return response, nil
}

// Stream sends a multimodal request with SSE delivery enabled and returns a
// stream of cumulative snapshots. Multimodal conversations always carry a
// single choice, so no completion gating applies.
func (multimodalClient *Client) Stream(ctx context.Context, request Request) (*api.Stream, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventStreamStart)
		span.SetAttributes(
			observability.String(observability.AttrService, "multimodal-generation"),
			observability.String(observability.AttrModel, request.Model),
		)
	}

	if multimodalClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	if request.Parameters == nil {
		request.Parameters = &Parameters{}
	}
	request.Parameters.IncrementalOutput = true

	httpResponse, err := httputil.DoPostStream(
		ctx, multimodalClient.client, multimodalClient.baseURL+multimodalEndpoint,
		multimodalClient.apiKey, request, multimodalClient.headers()...)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "streaming request failed", observability.Error(err))
		}
		return nil, err
	}

	iterator := streaming.SnapshotIterator(ctx, httpResponse, 1, "multimodal-generation")
	return api.NewStream(iterator), nil
}

func (multimodalClient *Client) headers() []httputil.HeaderOption {
	if multimodalClient.workspace == "" {
		return nil
	}
	return []httputil.HeaderOption{httputil.Workspace(multimodalClient.workspace)}
}
