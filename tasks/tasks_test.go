package tasks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestFetch_DecodesTaskEnvelope verifies the common fields and the raw
// output payload both survive decoding.
func TestFetch_DecodesTaskEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/tasks/task-1" {
			t.Errorf("unexpected path %q", request.URL.Path)
		}
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"request_id":"req-1","output":{"task_id":"task-1","task_status":"SUCCEEDED","submit_time":"2025-10-20 10:00:00","results":[{"url":"https://cdn.example.com/img/1.png"}]}}`)
	}))
	defer server.Close()

	taskClient := NewClient().WithAPIKey("test-key").WithBaseURL(server.URL)

	task, err := taskClient.Fetch(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if task.Output.TaskStatus != StatusSucceeded {
		t.Errorf("status = %q, want SUCCEEDED", task.Output.TaskStatus)
	}

	var result struct {
		Results []struct {
			URL string `json:"url"`
		} `json:"results"`
	}
	if err := task.Output.DecodeResult(&result); err != nil {
		t.Fatalf("DecodeResult failed: %v", err)
	}
	if len(result.Results) != 1 || result.Results[0].URL == "" {
		t.Errorf("raw output not preserved: %+v", result)
	}
}

// TestWait_PollsUntilTerminal verifies the poll loop stops on the first
// terminal status.
func TestWait_PollsUntilTerminal(t *testing.T) {
	var polls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		status := StatusRunning
		if polls.Add(1) >= 3 {
			status = StatusSucceeded
		}
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(writer, `{"output":{"task_id":"task-2","task_status":%q}}`, status)
	}))
	defer server.Close()

	taskClient := NewClient().WithAPIKey("test-key").WithBaseURL(server.URL).
		WithPollInterval(5 * time.Millisecond)

	task, err := taskClient.Wait(context.Background(), "task-2")
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if task.Output.TaskStatus != StatusSucceeded {
		t.Errorf("status = %q, want SUCCEEDED", task.Output.TaskStatus)
	}
	if polls.Load() < 3 {
		t.Errorf("polled %d times, want at least 3", polls.Load())
	}
}

// TestWait_ContextCancellation verifies an in-flight wait stops when the
// context is canceled.
func TestWait_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"output":{"task_id":"task-3","task_status":"RUNNING"}}`)
	}))
	defer server.Close()

	taskClient := NewClient().WithAPIKey("test-key").WithBaseURL(server.URL).
		WithPollInterval(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := taskClient.Wait(ctx, "task-3"); err != context.Canceled {
		t.Fatalf("Wait error = %v, want context.Canceled", err)
	}
}

// TestCancel_PostsToCancelEndpoint verifies the cancel request shape.
func TestCancel_PostsToCancelEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost || request.URL.Path != "/tasks/task-4/cancel" {
			t.Errorf("unexpected %s %s", request.Method, request.URL.Path)
		}
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"output":{"task_id":"task-4","task_status":"CANCELED"}}`)
	}))
	defer server.Close()

	taskClient := NewClient().WithAPIKey("test-key").WithBaseURL(server.URL)

	task, err := taskClient.Cancel(context.Background(), "task-4")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if task.Output.TaskStatus != StatusCanceled {
		t.Errorf("status = %q, want CANCELED", task.Output.TaskStatus)
	}
}

// TestListTasks_EncodesFilters verifies paging and filter parameters reach
// the query string.
func TestListTasks_EncodesFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		if query.Get("status") != "FAILED" || query.Get("page_no") != "2" || query.Get("page_size") != "10" {
			t.Errorf("unexpected query %v", query)
		}
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"data":[{"task_id":"task-5","status":"FAILED"}],"page_no":2,"page_size":10,"total":11}`)
	}))
	defer server.Close()

	taskClient := NewClient().WithAPIKey("test-key").WithBaseURL(server.URL)

	page, err := taskClient.ListTasks(context.Background(), ListParams{
		Status: StatusFailed, PageNo: 2, PageSize: 10,
	})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if page.Total != 11 || len(page.Data) != 1 || page.Data[0].TaskStatus != StatusFailed {
		t.Errorf("page = %+v", page)
	}
}

// TestWaitAll_BoundedConcurrency verifies every task gets a result and the
// worker pool resolves them concurrently.
func TestWaitAll_BoundedConcurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		taskID := request.URL.Path[len("/tasks/"):]
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(writer, `{"output":{"task_id":%q,"task_status":"SUCCEEDED"}}`, taskID)
	}))
	defer server.Close()

	taskClient := NewClient().WithAPIKey("test-key").WithBaseURL(server.URL).
		WithPollInterval(time.Millisecond)

	taskIDs := []string{"w-1", "w-2", "w-3", "w-4", "w-5"}
	results, err := taskClient.WaitAll(context.Background(), taskIDs, 2)
	if err != nil {
		t.Fatalf("WaitAll failed: %v", err)
	}
	if len(results) != len(taskIDs) {
		t.Fatalf("got %d results, want %d", len(results), len(taskIDs))
	}
	for position, result := range results {
		if result.Err != nil {
			t.Errorf("task %q failed: %v", result.TaskID, result.Err)
		}
		if result.TaskID != taskIDs[position] {
			t.Errorf("result %d is for %q, want %q", position, result.TaskID, taskIDs[position])
		}
		if result.Task == nil || result.Task.Output.TaskStatus != StatusSucceeded {
			t.Errorf("task %q not succeeded: %+v", result.TaskID, result.Task)
		}
	}
}

// TestStatus_Terminal covers the terminal state classification.
func TestStatus_Terminal(t *testing.T) {
	terminal := []Status{StatusSucceeded, StatusFailed, StatusCanceled}
	for _, status := range terminal {
		if !status.Terminal() {
			t.Errorf("%s should be terminal", status)
		}
	}
	live := []Status{StatusPending, StatusRunning, StatusSuspended, StatusUnknown, Status("")}
	for _, status := range live {
		if status.Terminal() {
			t.Errorf("%s should not be terminal", status)
		}
	}
}
