package generation

import (
	"context"
	"fmt"
	"net/http"

	"github.com/altoai/alto-go"
	"github.com/altoai/alto-go/api"
	"github.com/altoai/alto-go/internal/httputil"
	"github.com/altoai/alto-go/observability"
)

const generationEndpoint = "/services/aigc/text-generation/generation"

// Client calls the Alto text generation service.
type Client struct {
	apiKey    string
	baseURL   string
	workspace string
	client    *http.Client
}

// NewClient creates a generation client with defaults from the environment.
func NewClient() *Client {
	return &Client{
		apiKey:    alto.APIKey(),
		baseURL:   alto.BaseURL(),
		workspace: alto.Workspace(),
		client:    &http.Client{},
	}
}

// WithAPIKey sets the API key used for authenticating requests.
func (generationClient *Client) WithAPIKey(apiKey string) *Client {
	generationClient.apiKey = apiKey
	return generationClient
}

// WithBaseURL overrides the default base URL.
func (generationClient *Client) WithBaseURL(baseURL string) *Client {
	generationClient.baseURL = baseURL
	return generationClient
}

// WithWorkspace scopes all calls to the given workspace.
func (generationClient *Client) WithWorkspace(workspaceID string) *Client {
	generationClient.workspace = workspaceID
	return generationClient
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (generationClient *Client) WithHttpClient(httpClient *http.Client) *Client {
	generationClient.client = httpClient
	return generationClient
}

// Call sends a generation request and returns the completed response.
func (generationClient *Client) Call(ctx context.Context, request Request) (*api.Response, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrService, "text-generation"),
			observability.String(observability.AttrEndpoint, generationClient.baseURL),
			observability.String(observability.AttrModel, request.Model),
		)
	}
	if observer != nil {
		observer.Trace(ctx, "generation request prepared",
			observability.String(observability.AttrService, "text-generation"),
			observability.String(observability.AttrModel, request.Model),
			observability.Int("request.messages.count", len(request.Input.Messages)),
		)
	}

	if generationClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	httpResponse, response, err := httputil.DoPostSync[api.Response](
		ctx, generationClient.client, generationClient.baseURL+generationEndpoint,
		generationClient.apiKey, request, generationClient.headers()...)
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}
	if response == nil {
		return nil, fmt.Errorf("empty response from generation service: %s", httpResponse.Status)
	}
	response.StatusCode = httpResponse.StatusCode

	if span != nil {
		span.AddEvent(observability.EventRequestEnd,
			observability.String(observability.AttrRequestID, response.RequestID),
		)
	}
	return response, nil
}

func (generationClient *Client) headers() []httputil.HeaderOption {
	if generationClient.workspace == "" {
		return nil
	}
	return []httputil.HeaderOption{httputil.Workspace(generationClient.workspace)}
}
