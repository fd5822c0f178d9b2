// Package imagesynthesis provides the client for text-to-image generation.
// Synthesis runs asynchronously: AsyncCall submits a job and returns a task,
// Call submits and blocks until the images are ready.
package imagesynthesis

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/altoai/alto-go"
	"github.com/altoai/alto-go/internal/httputil"
	"github.com/altoai/alto-go/observability"
	"github.com/altoai/alto-go/tasks"
)

const imageSynthesisEndpoint = "/services/aigc/text2image/image-synthesis"

// Request is the image synthesis request envelope.
type Request struct {
	Model      string      `json:"model"`
	Input      Input       `json:"input"`
	Parameters *Parameters `json:"parameters,omitempty"`
}

// Input carries the prompts driving the synthesis.
type Input struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	// RefImage is an optional reference image URL guiding the style or
	// content of the output.
	RefImage string `json:"ref_img,omitempty"`
}

// Parameters tunes the synthesis job.
type Parameters struct {
	// Size is the output resolution, formatted as "1024*1024".
	Size         string  `json:"size,omitempty"`
	N            int     `json:"n,omitempty"`
	Style        string  `json:"style,omitempty"`
	Seed         int     `json:"seed,omitempty"`
	Steps        int     `json:"steps,omitempty"`
	Scale        float64 `json:"scale,omitempty"`
	RefStrength  float64 `json:"ref_strength,omitempty"`
	RefMode      string  `json:"ref_mode,omitempty"`
	PromptExtend *bool   `json:"prompt_extend,omitempty"`
	Watermark    *bool   `json:"watermark,omitempty"`
}

// Result is the service-specific portion of a finished task output.
type Result struct {
	Results []ResultEntry `json:"results"`
	// TaskMetrics summarizes per-image success counts for batch jobs.
	TaskMetrics *TaskMetrics `json:"task_metrics,omitempty"`
}

// ResultEntry is a single generated image, or the failure that took its
// place.
type ResultEntry struct {
	URL string `json:"url,omitempty"`
	// ActualPrompt is the rewritten prompt when prompt extension is on.
	ActualPrompt string `json:"actual_prompt,omitempty"`
	Code         string `json:"code,omitempty"`
	Message      string `json:"message,omitempty"`
}

// TaskMetrics counts per-image outcomes within one job.
type TaskMetrics struct {
	Total     int `json:"TOTAL"`
	Succeeded int `json:"SUCCEEDED"`
	Failed    int `json:"FAILED"`
}

// ResultOf decodes the image results from a finished task.
func ResultOf(task *tasks.Task) (*Result, error) {
	if task == nil {
		return nil, fmt.Errorf("task is nil")
	}
	if task.Output.TaskStatus != tasks.StatusSucceeded {
		return nil, fmt.Errorf("task %s is %s, not succeeded", task.Output.TaskID, task.Output.TaskStatus)
	}
	var result Result
	if err := task.Output.DecodeResult(&result); err != nil {
		return nil, fmt.Errorf("failed to decode image results: %w", err)
	}
	return &result, nil
}

// Client calls the Alto image synthesis service.
type Client struct {
	apiKey    string
	baseURL   string
	workspace string
	client    *http.Client
	tasks     *tasks.Client
}

// NewClient creates an image synthesis client with defaults from the
// environment.
func NewClient() *Client {
	return &Client{
		apiKey:    alto.APIKey(),
		baseURL:   alto.BaseURL(),
		workspace: alto.Workspace(),
		client:    &http.Client{},
		tasks:     tasks.NewClient(),
	}
}

// WithAPIKey sets the API key used for authenticating requests.
func (imageClient *Client) WithAPIKey(apiKey string) *Client {
	imageClient.apiKey = apiKey
	imageClient.tasks.WithAPIKey(apiKey)
	return imageClient
}

// WithBaseURL overrides the default base URL.
func (imageClient *Client) WithBaseURL(baseURL string) *Client {
	imageClient.baseURL = baseURL
	imageClient.tasks.WithBaseURL(baseURL)
	return imageClient
}

// WithWorkspace scopes all calls to the given workspace.
func (imageClient *Client) WithWorkspace(workspaceID string) *Client {
	imageClient.workspace = workspaceID
	imageClient.tasks.WithWorkspace(workspaceID)
	return imageClient
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (imageClient *Client) WithHttpClient(httpClient *http.Client) *Client {
	imageClient.client = httpClient
	imageClient.tasks.WithHttpClient(httpClient)
	return imageClient
}

// WithPollInterval sets the delay between status checks while waiting.
func (imageClient *Client) WithPollInterval(interval time.Duration) *Client {
	imageClient.tasks.WithPollInterval(interval)
	return imageClient
}

// AsyncCall submits a synthesis job and returns immediately with the task
// handle.
func (imageClient *Client) AsyncCall(ctx context.Context, request Request) (*tasks.Task, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrService, "image-synthesis"),
			observability.String(observability.AttrModel, request.Model),
		)
	}

	if imageClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	httpResponse, task, err := httputil.DoPostSync[tasks.Task](
		ctx, imageClient.client, imageClient.baseURL+imageSynthesisEndpoint,
		imageClient.apiKey, request, imageClient.headers()...)
	if err != nil {
		return nil, fmt.Errorf("image synthesis submit failed: %w", err)
	}
	task.StatusCode = httpResponse.StatusCode

	if span != nil {
		span.AddEvent(observability.EventTaskSubmitted,
			observability.String(observability.AttrTaskID, task.Output.TaskID),
		)
	}
	return task, nil
}

// Call submits a synthesis job and waits for its completion.
func (imageClient *Client) Call(ctx context.Context, request Request) (*tasks.Task, error) {
	submitted, err := imageClient.AsyncCall(ctx, request)
	if err != nil {
		return nil, err
	}
	return imageClient.Wait(ctx, submitted.Output.TaskID)
}

// Fetch returns the current state of a synthesis task.
func (imageClient *Client) Fetch(ctx context.Context, taskID string) (*tasks.Task, error) {
	return imageClient.tasks.Fetch(ctx, taskID)
}

// Wait blocks until the synthesis task reaches a terminal state.
func (imageClient *Client) Wait(ctx context.Context, taskID string) (*tasks.Task, error) {
	return imageClient.tasks.Wait(ctx, taskID)
}

// Cancel requests cancellation of a pending synthesis task.
func (imageClient *Client) Cancel(ctx context.Context, taskID string) (*tasks.Task, error) {
	return imageClient.tasks.Cancel(ctx, taskID)
}

func (imageClient *Client) headers() []httputil.HeaderOption {
	headers := []httputil.HeaderOption{httputil.Async()}
	if imageClient.workspace != "" {
		headers = append(headers, httputil.Workspace(imageClient.workspace))
	}
	return headers
}
