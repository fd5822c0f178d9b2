package imagesynthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/altoai/alto-go/tasks"
)

// TestAsyncCall_SubmitsWithAsyncHeader verifies the submit request carries
// the async protocol header and returns the task handle.
func TestAsyncCall_SubmitsWithAsyncHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/services/aigc/text2image/image-synthesis" {
			t.Errorf("unexpected path %q", request.URL.Path)
		}
		if got := request.Header.Get("X-Alto-Async"); got != "enable" {
			t.Errorf("X-Alto-Async = %q, want enable", got)
		}
		var decoded Request
		if err := json.NewDecoder(request.Body).Decode(&decoded); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if decoded.Input.Prompt != "a lighthouse at dusk" {
			t.Errorf("prompt = %q", decoded.Input.Prompt)
		}
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"request_id":"req-1","output":{"task_id":"img-task-1","task_status":"PENDING"}}`)
	}))
	defer server.Close()

	imageClient := NewClient().WithAPIKey("test-key").WithBaseURL(server.URL)

	task, err := imageClient.AsyncCall(context.Background(), Request{
		Model:      "alto-image",
		Input:      Input{Prompt: "a lighthouse at dusk"},
		Parameters: &Parameters{Size: "1024*1024", N: 2},
	})
	if err != nil {
		t.Fatalf("AsyncCall failed: %v", err)
	}
	if task.Output.TaskID != "img-task-1" || task.Output.TaskStatus != tasks.StatusPending {
		t.Errorf("task = %+v", task.Output)
	}
}

// TestCall_SubmitsAndWaits verifies the blocking path runs the job to
// completion and the image URLs decode from the finished task.
func TestCall_SubmitsAndWaits(t *testing.T) {
	fetches := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		switch {
		case request.Method == http.MethodPost:
			fmt.Fprint(writer, `{"output":{"task_id":"img-task-2","task_status":"PENDING"}}`)
		default:
			fetches++
			if fetches < 2 {
				fmt.Fprint(writer, `{"output":{"task_id":"img-task-2","task_status":"RUNNING"}}`)
				return
			}
			fmt.Fprint(writer, `{"output":{"task_id":"img-task-2","task_status":"SUCCEEDED","results":[{"url":"https://cdn.example.com/img/a.png"},{"code":"InternalError","message":"one image failed"}],"task_metrics":{"TOTAL":2,"SUCCEEDED":1,"FAILED":1}}}`)
		}
	}))
	defer server.Close()

	imageClient := NewClient().WithAPIKey("test-key").WithBaseURL(server.URL).
		WithPollInterval(5 * time.Millisecond)

	task, err := imageClient.Call(context.Background(), Request{
		Model: "alto-image",
		Input: Input{Prompt: "a lighthouse"},
	})
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	result, err := ResultOf(task)
	if err != nil {
		t.Fatalf("ResultOf failed: %v", err)
	}
	if len(result.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(result.Results))
	}
	if result.Results[0].URL != "https://cdn.example.com/img/a.png" {
		t.Errorf("url = %q", result.Results[0].URL)
	}
	if result.Results[1].Code != "InternalError" {
		t.Errorf("per-image failure not preserved: %+v", result.Results[1])
	}
	if result.TaskMetrics == nil || result.TaskMetrics.Failed != 1 {
		t.Errorf("metrics = %+v", result.TaskMetrics)
	}
}

// TestResultOf_RejectsUnfinishedTask verifies results cannot be decoded from
// a task that has not succeeded.
func TestResultOf_RejectsUnfinishedTask(t *testing.T) {
	task := &tasks.Task{}
	task.Output.TaskID = "img-task-3"
	task.Output.TaskStatus = tasks.StatusRunning
	if _, err := ResultOf(task); err == nil {
		t.Fatal("expected error for running task")
	}
	if _, err := ResultOf(nil); err == nil {
		t.Fatal("expected error for nil task")
	}
}
