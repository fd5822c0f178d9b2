package tasks

import "encoding/json"

// Status is the lifecycle state of an asynchronous task.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusSuspended Status = "SUSPENDED"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
	StatusCanceled  Status = "CANCELED"
	StatusUnknown   Status = "UNKNOWN"
)

// Terminal reports whether the task has reached a final state. An empty or
// unknown status is not terminal: the service may not have registered the
// task yet.
func (status Status) Terminal() bool {
	switch status {
	case StatusSucceeded, StatusFailed, StatusCanceled:
		return true
	}
	return false
}

// Task is a fetched task envelope. Output.Raw keeps the service-specific
// result payload for the owning service package to decode.
type Task struct {
	RequestID  string          `json:"request_id,omitempty"`
	StatusCode int             `json:"-"`
	Code       string          `json:"code,omitempty"`
	Message    string          `json:"message,omitempty"`
	Output     Output          `json:"output"`
	Usage      json.RawMessage `json:"usage,omitempty"`
}

// Output carries the task bookkeeping fields common to every service. Raw
// holds the complete output object, including the service-specific result
// fields not modeled here.
type Output struct {
	TaskID        string          `json:"task_id"`
	TaskStatus    Status          `json:"task_status"`
	SubmitTime    string          `json:"submit_time,omitempty"`
	ScheduledTime string          `json:"scheduled_time,omitempty"`
	EndTime       string          `json:"end_time,omitempty"`
	Code          string          `json:"code,omitempty"`
	Message       string          `json:"message,omitempty"`
	Raw           json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the common fields and retains the raw output object.
func (output *Output) UnmarshalJSON(data []byte) error {
	type plain Output
	if err := json.Unmarshal(data, (*plain)(output)); err != nil {
		return err
	}
	output.Raw = json.RawMessage(append([]byte(nil), data...))
	return nil
}

// DecodeResult unmarshals the service-specific portion of a task output into
// result, typically a struct from the imagesynthesis or videosynthesis
// package.
func (output Output) DecodeResult(result any) error {
	return json.Unmarshal(output.Raw, result)
}

// List is one page of historical tasks.
type List struct {
	RequestID  string      `json:"request_id,omitempty"`
	StatusCode int         `json:"-"`
	Data       []ListEntry `json:"data"`
	PageNo     int         `json:"page_no"`
	PageSize   int         `json:"page_size"`
	Total      int         `json:"total"`
}

// ListEntry is the summary row returned by the task listing endpoint.
type ListEntry struct {
	TaskID        string `json:"task_id"`
	TaskStatus    Status `json:"status"`
	Model         string `json:"model_name,omitempty"`
	APIKeyID      string `json:"api_key_id,omitempty"`
	Region        string `json:"region,omitempty"`
	GmtCreate     string `json:"gmt_create,omitempty"`
	GmtEnd        string `json:"gmt_end,omitempty"`
	CallerUID     string `json:"caller_uid,omitempty"`
	CallerSubUID  string `json:"caller_sub_uid,omitempty"`
	RequestMethod string `json:"request_method,omitempty"`
}

// ListParams filters and pages the task listing endpoint. Zero values are
// omitted from the query.
type ListParams struct {
	StartTime string // inclusive lower bound, format 20060102150405
	EndTime   string // inclusive upper bound, format 20060102150405
	Model     string
	APIKeyID  string
	Region    string
	Status    Status
	PageNo    int
	PageSize  int
}
