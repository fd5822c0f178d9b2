package api

// Finish reasons reported per choice (or on Output.FinishReason in
// undifferentiated-text mode). The service reports the literal string "null"
// while a choice is still generating; only a different non-empty value marks
// the choice as finished.
const (
	FinishReasonNull          = "null"
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonToolCalls     = "tool_calls"
	FinishReasonContentFilter = "content_filter"
)

// Ptr returns a pointer to v, for populating optional request fields from
// literals.
func Ptr[T any](v T) *T {
	return &v
}

// IsFinishReasonSet reports whether reason is a real terminal finish reason,
// as opposed to absent or the "null" in-flight sentinel.
func IsFinishReasonSet(reason string) bool {
	return reason != "" && reason != FinishReasonNull
}

// Response is a single parsed message from the service: the full body of a
// synchronous call, or one incremental chunk of a streamed call. StatusCode
// is filled in by the transport layer, not decoded from the body.
type Response struct {
	RequestID  string  `json:"request_id,omitempty"`
	StatusCode int     `json:"status_code,omitempty"`
	Code       string  `json:"code,omitempty"`
	Message    string  `json:"message,omitempty"`
	Output     *Output `json:"output,omitempty"`
	Usage      *Usage  `json:"usage,omitempty"`
}

// Output carries the model result. Exactly one of Text or Choices is
// populated for generation-style calls: Text when the request asked for the
// plain text result format, Choices for the message result format. Audio is
// present only for speech synthesis models and passes through streaming
// accumulation untouched.
type Output struct {
	Text         string       `json:"text,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
	Choices      []Choice     `json:"choices,omitempty"`
	Audio        *AudioOutput `json:"audio,omitempty"`
}

// Choice is one of possibly several parallel generation candidates.
// Index is optional on the wire; consumers fall back to the choice's position
// in the enclosing Choices slice when it is absent.
type Choice struct {
	Index        *int      `json:"index,omitempty"`
	Message      *Message  `json:"message,omitempty"`
	FinishReason string    `json:"finish_reason,omitempty"`
	Logprobs     *Logprobs `json:"logprobs,omitempty"`
}

// Message is a conversation message, either sent as input or received as
// (partial) model output.
type Message struct {
	Role             string         `json:"role,omitempty"`
	Content          MessageContent `json:"content,omitzero"`
	ReasoningContent string         `json:"reasoning_content,omitempty"`
	ToolCalls        []ToolCall     `json:"tool_calls,omitempty"`
}

// ToolCall describes one function call requested by the model. During
// streaming the Function fields arrive as fragments; Index identifies which
// of the parallel calls a fragment belongs to and is required for merging.
type ToolCall struct {
	Index    *int             `json:"index,omitempty"`
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type,omitempty"`
	Function ToolCallFunction `json:"function,omitzero"`
}

// ToolCallFunction holds the function name and its JSON-encoded arguments.
// Both are concatenated across streaming fragments.
type ToolCallFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// Logprobs holds per-token log probabilities for a choice.
type Logprobs struct {
	Content []LogprobContent `json:"content,omitempty"`
}

// LogprobContent is the log probability of a single generated token.
type LogprobContent struct {
	Token       string       `json:"token"`
	Logprob     float64      `json:"logprob"`
	Bytes       []int        `json:"bytes,omitempty"`
	TopLogprobs []TopLogprob `json:"top_logprobs,omitempty"`
}

// TopLogprob is an alternative token candidate with its log probability.
type TopLogprob struct {
	Token   string  `json:"token"`
	Logprob float64 `json:"logprob"`
	Bytes   []int   `json:"bytes,omitempty"`
}

// Usage reports token consumption. The streaming accumulator never touches
// it; each chunk's usage (when present) reflects the stream so far.
type Usage struct {
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
	TotalTokens  int `json:"total_tokens,omitempty"`
}

// AudioOutput is the speech synthesis result: a URL for synchronous calls, or
// base64 PCM data chunks plus an expiry timestamp when streaming.
type AudioOutput struct {
	ID        string `json:"id,omitempty"`
	URL       string `json:"url,omitempty"`
	Data      string `json:"data,omitempty"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}
