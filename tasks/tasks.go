package tasks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/altoai/alto-go"
	"github.com/altoai/alto-go/internal/httputil"
	"github.com/altoai/alto-go/observability"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultWaitAllSize  = 8
)

// Client queries and manages asynchronous tasks.
type Client struct {
	apiKey       string
	baseURL      string
	workspace    string
	client       *http.Client
	pollInterval time.Duration
}

// NewClient creates a task client with defaults from the environment.
func NewClient() *Client {
	return &Client{
		apiKey:       alto.APIKey(),
		baseURL:      alto.BaseURL(),
		workspace:    alto.Workspace(),
		client:       &http.Client{},
		pollInterval: defaultPollInterval,
	}
}

// WithAPIKey sets the API key used for authenticating requests.
func (taskClient *Client) WithAPIKey(apiKey string) *Client {
	taskClient.apiKey = apiKey
	return taskClient
}

// WithBaseURL overrides the default base URL.
func (taskClient *Client) WithBaseURL(baseURL string) *Client {
	taskClient.baseURL = baseURL
	return taskClient
}

// WithWorkspace scopes all calls to the given workspace.
func (taskClient *Client) WithWorkspace(workspaceID string) *Client {
	taskClient.workspace = workspaceID
	return taskClient
}

// WithHttpClient sets the HTTP client used for outbound requests.
func (taskClient *Client) WithHttpClient(httpClient *http.Client) *Client {
	taskClient.client = httpClient
	return taskClient
}

// WithPollInterval sets the delay between status checks in Wait.
func (taskClient *Client) WithPollInterval(interval time.Duration) *Client {
	taskClient.pollInterval = interval
	return taskClient
}

// Fetch returns the current state of a task.
func (taskClient *Client) Fetch(ctx context.Context, taskID string) (*Task, error) {
	if taskClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}
	if taskID == "" {
		return nil, fmt.Errorf("task ID is empty")
	}

	httpResponse, task, err := httputil.DoGetSync[Task](
		ctx, taskClient.client, taskClient.baseURL+"/tasks/"+url.PathEscape(taskID),
		taskClient.apiKey, nil, taskClient.headers()...)
	if err != nil {
		return nil, fmt.Errorf("task fetch failed: %w", err)
	}
	task.StatusCode = httpResponse.StatusCode

	if span := observability.SpanFromContext(ctx); span != nil {
		span.AddEvent(observability.EventTaskPolled,
			observability.String(observability.AttrTaskID, taskID),
			observability.String(observability.AttrTaskStatus, string(task.Output.TaskStatus)),
		)
	}
	return task, nil
}

// Wait polls the task until it reaches a terminal state and returns its
// final snapshot. Cancellation of ctx stops the polling and returns the
// context error.
func (taskClient *Client) Wait(ctx context.Context, taskID string) (*Task, error) {
	observer := observability.ObserverFromContext(ctx)

	ticker := time.NewTicker(taskClient.pollInterval)
	defer ticker.Stop()

	for {
		task, err := taskClient.Fetch(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if task.Output.TaskStatus.Terminal() {
			if observer != nil {
				observer.Debug(ctx, "task finished",
					observability.String(observability.AttrTaskID, taskID),
					observability.String(observability.AttrTaskStatus, string(task.Output.TaskStatus)),
				)
			}
			return task, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Cancel requests cancellation of a task. Only tasks still in the PENDING
// state can be canceled; the service rejects cancellation of running tasks.
func (taskClient *Client) Cancel(ctx context.Context, taskID string) (*Task, error) {
	if taskClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}
	if taskID == "" {
		return nil, fmt.Errorf("task ID is empty")
	}

	httpResponse, task, err := httputil.DoPostSync[Task](
		ctx, taskClient.client, taskClient.baseURL+"/tasks/"+url.PathEscape(taskID)+"/cancel",
		taskClient.apiKey, struct{}{}, taskClient.headers()...)
	if err != nil {
		return nil, fmt.Errorf("task cancel failed: %w", err)
	}
	task.StatusCode = httpResponse.StatusCode
	return task, nil
}

// ListTasks returns one page of historical tasks matching params.
func (taskClient *Client) ListTasks(ctx context.Context, params ListParams) (*List, error) {
	if taskClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	query := url.Values{}
	setQuery := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}
	setQuery("start_time", params.StartTime)
	setQuery("end_time", params.EndTime)
	setQuery("model_name", params.Model)
	setQuery("api_key_id", params.APIKeyID)
	setQuery("region", params.Region)
	setQuery("status", string(params.Status))
	if params.PageNo > 0 {
		query.Set("page_no", strconv.Itoa(params.PageNo))
	}
	if params.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(params.PageSize))
	}

	httpResponse, page, err := httputil.DoGetSync[List](
		ctx, taskClient.client, taskClient.baseURL+"/tasks",
		taskClient.apiKey, query, taskClient.headers()...)
	if err != nil {
		return nil, fmt.Errorf("task list failed: %w", err)
	}
	page.StatusCode = httpResponse.StatusCode
	return page, nil
}

// WaitResult pairs a task ID with the outcome of waiting on it.
type WaitResult struct {
	TaskID string
	Task   *Task
	Err    error
}

// WaitAll waits on many tasks concurrently and returns a result per task ID,
// in input order. Polling runs on a bounded worker pool of size concurrency
// (a value below one falls back to the default). Individual failures are
// reported per task rather than aborting the batch.
func (taskClient *Client) WaitAll(ctx context.Context, taskIDs []string, concurrency int) ([]WaitResult, error) {
	if concurrency < 1 {
		concurrency = defaultWaitAllSize
	}
	pool, err := ants.NewPool(concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]WaitResult, len(taskIDs))
	var waitGroup sync.WaitGroup
	for position, taskID := range taskIDs {
		waitGroup.Add(1)
		submitErr := pool.Submit(func() {
			defer waitGroup.Done()
			task, waitErr := taskClient.Wait(ctx, taskID)
			results[position] = WaitResult{TaskID: taskID, Task: task, Err: waitErr}
		})
		if submitErr != nil {
			waitGroup.Done()
			results[position] = WaitResult{TaskID: taskID, Err: submitErr}
		}
	}
	waitGroup.Wait()
	return results, nil
}

func (taskClient *Client) headers() []httputil.HeaderOption {
	if taskClient.workspace == "" {
		return nil
	}
	return []httputil.HeaderOption{httputil.Workspace(taskClient.workspace)}
}
