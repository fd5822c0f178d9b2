package observability

// Semantic conventions for attribute names, kept consistent across the
// service clients, the transport layer, and application code.

// --- Service call attributes ---

const (
	// AttrService is the Alto service being called (e.g. "generation",
	// "multimodal-generation", "image-synthesis").
	AttrService = "alto.service"

	// AttrModel is the model identifier (e.g. "alto-turbo").
	AttrModel = "alto.model"

	// AttrEndpoint is the API endpoint URL.
	AttrEndpoint = "alto.endpoint"

	// AttrRequestID is the request identifier returned by the service.
	AttrRequestID = "alto.request_id"

	// AttrTaskID is the asynchronous task identifier.
	AttrTaskID = "alto.task_id"

	// AttrTaskStatus is the asynchronous task status.
	AttrTaskStatus = "alto.task_status"

	// AttrFinishReason is the reason generation finished.
	AttrFinishReason = "alto.finish_reason"

	// AttrExpectedChoices is the number of parallel candidates requested.
	AttrExpectedChoices = "alto.expected_choices"
)

// --- Streaming attributes ---

const (
	// AttrStreamChunks is the number of chunks received on a stream.
	AttrStreamChunks = "alto.stream.chunks"

	// AttrStreamSuppressed is the number of chunks suppressed by merging.
	AttrStreamSuppressed = "alto.stream.suppressed"
)

// --- HTTP attributes ---

const (
	AttrHTTPMethod           = "http.method"
	AttrHTTPURL              = "http.url"
	AttrHTTPStatusCode       = "http.status_code"
	AttrHTTPRequestBodySize  = "http.request.body.size"
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- Span event names ---

const (
	EventRequestStart  = "alto.request.start"
	EventRequestEnd    = "alto.request.end"
	EventStreamStart   = "alto.stream.start"
	EventStreamEnd     = "alto.stream.end"
	EventTaskSubmitted = "alto.task.submitted"
	EventTaskPolled    = "alto.task.polled"
)
