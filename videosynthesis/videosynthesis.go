// Package videosynthesis provides the client for text-to-video and
// image-to-video generation. Like image synthesis, jobs run asynchronously:
// AsyncCall submits and returns a task, Call submits and blocks until the
// video is ready.
package videosynthesis

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

const videoSynthesisEndpoint = "/services/aigc/video-generation/video-synthesis"

// Request is the video synthesis request envelope.
type Request struct {
	Model      string      `json:"model"`
	Input      Input       `json:"input"`
	Parameters *Parameters `json:"parameters,omitempty"`
}

// Input carries the prompts and source material. ImageURL switches the job
// to image-to-video mode; Template selects a predefined motion effect.
type Input struct {
	Prompt         string `json:"prompt,omitempty"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	ImageURL       string `json:"img_url,omitempty"`
	Template       string `json:"template,omitempty"`
}

// Parameters tunes the synthesis job.
type Parameters struct {
	// Size is the output resolution, formatted as "1280*720".
	Size string `json:"size,omitempty"`
	// Duration is the clip length in seconds.
	Duration     int   `json:"duration,omitempty"`
	Seed         int   `json:"seed,omitempty"`
	ExtendPrompt *bool `json:"prompt_extend,omitempty"`
	Watermark    *bool `json:"watermark,omitempty"`
}

// Result is the service-specific portion of a finished task output.
type Result struct {
	VideoURL string `json:"video_url"`
	// OrigPrompt and ActualPrompt record the prompt before and after
	// rewriting when prompt extension is on.
	OrigPrompt   string `json:"orig_prompt,omitempty"`
	ActualPrompt string `json:"actual_prompt,omitempty"`
}

// ResultOf decodes the video result from a finished task.
func ResultOf(task *tasks.Task) (*Result, error) {
	if task == nil {
		return nil, fmt.Errorf("task is nil")
	}
	if task.Output.TaskStatus != tasks.StatusSucceeded {
		return nil, fmt.Errorf("task %s is %s, not succeeded", task.Output.TaskID, task.Output.TaskStatus)
	}
	var result Result
	if err := task.Output.DecodeResult(&result); err != nil {
		return nil, fmt.Errorf("failed to decode video result: %w", err)
	}
	return &result, nil
}

// Client calls the Alto video synthesis service.
type Client struct {
	apiKey    string
	baseURL   string
	workspace string
	client    *http.Client
	tasks     *tasks.Client
}

// NewClient creates a video synthesis client with defaults from the
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
func (videoClient *Client) WithAPIKey(apiKey string) *Client {
	videoClient.apiKey = apiKey
	videoClient.tasks.WithAPIKey(apiKey)
	return videoClient
}

// WithBaseURL overrides the default base URL.
func (videoClient *Client) WithBaseURL(baseURL string) *Client {
	videoClient.baseURL = baseURL
	videoClient.tasks.WithBaseURL(baseURL)
	return videoClient
}

// WithWorkspace scopes all calls to the given workspace.
func (videoClient *Client) WithWorkspace(workspaceID string) *Client {
	videoClient.workspace = workspaceID
	videoClient.tasks.WithWorkspace(workspaceID)
	return videoClient
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (videoClient *Client) WithHttpClient(httpClient *http.Client) *Client {
	videoClient.client = httpClient
	videoClient.tasks.WithHttpClient(httpClient)
	return videoClient
}

// WithPollInterval sets the delay between status checks while waiting.
// Video jobs run for minutes; a longer interval than the default is usually
// appropriate.
func (videoClient *Client) WithPollInterval(interval time.Duration) *Client {
	videoClient.tasks.WithPollInterval(interval)
	return videoClient
}

// AsyncCall submits a synthesis job and returns immediately with the task
// handle.
func (videoClient *Client) AsyncCall(ctx context.Context, request Request) (*tasks.Task, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventRequestStart)
		span.SetAttributes(
			observability.String(observability.AttrService, "video-synthesis"),
			observability.String(observability.AttrModel, request.Model),
		)
	}

	if videoClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}
	if request.Input.Prompt == "" && request.Input.ImageURL == "" {
		return nil, fmt.Errorf("either a prompt or an image URL is required")
	}

	httpResponse, task, err := httputil.DoPostSync[tasks.Task](
		ctx, videoClient.client, videoClient.baseURL+videoSynthesisEndpoint,
		videoClient.apiKey, request, videoClient.headers()...)
	if err != nil {
		return nil, fmt.Errorf("video synthesis submit failed: %w", err)
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
func (videoClient *Client) Call(ctx context.Context, request Request) (*tasks.Task, error) {
	submitted, err := videoClient.AsyncCall(ctx, request)
	if err != nil {
		return nil, err
	}
	return videoClient.Wait(ctx, submitted.Output.TaskID)
}

// Fetch returns the current state of a synthesis task.
func (videoClient *Client) Fetch(ctx context.Context, taskID string) (*tasks.Task, error) {
	return videoClient.tasks.Fetch(ctx, taskID)
}

// Wait blocks until the synthesis task reaches a terminal state.
func (videoClient *Client) Wait(ctx context.Context, taskID string) (*tasks.Task, error) {
	return videoClient.tasks.Wait(ctx, taskID)
}

// Cancel requests cancellation of a pending synthesis task.
func (videoClient *Client) Cancel(ctx context.Context, taskID string) (*tasks.Task, error) {
	return videoClient.tasks.Cancel(ctx, taskID)
}

func (videoClient *Client) headers() []httputil.HeaderOption {
	headers := []httputil.HeaderOption{httputil.Async()}
	if videoClient.workspace != "" {
		headers = append(headers, httputil.Workspace(videoClient.workspace))
	}
	return headers
}
