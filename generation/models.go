package generation

import (
	"encoding/json"

	"github.com/altoai/alto-go/api"
)

// Result formats controlling the shape of streamed and final output:
// "text" fills Output.Text (undifferentiated text mode), "message" fills
// Output.Choices with full conversation messages.
const (
	ResultFormatText    = "text"
	ResultFormatMessage = "message"
)

// Request is the body of a text generation call.
type Request struct {
	Model      string      `json:"model"`
	Input      Input       `json:"input"`
	Parameters *Parameters `json:"parameters,omitempty"`
}

// Input carries either a bare prompt or a structured conversation; the
// service rejects requests setting both.
type Input struct {
	Prompt   string        `json:"prompt,omitempty"`
	Messages []api.Message `json:"messages,omitempty"`
}

// Parameters tunes a generation call. Zero values are omitted and leave the
// service defaults in effect.
type Parameters struct {
	ResultFormat      string   `json:"result_format,omitempty"`
	N                 int      `json:"n,omitempty"` // number of parallel candidates
	Seed              int      `json:"seed,omitempty"`
	MaxTokens         int      `json:"max_tokens,omitempty"`
	Temperature       float32  `json:"temperature,omitempty"`
	TopP              float32  `json:"top_p,omitempty"`
	TopK              int      `json:"top_k,omitempty"`
	Stop              []string `json:"stop,omitempty"`
	EnableThinking    bool     `json:"enable_thinking,omitempty"`
	IncrementalOutput bool     `json:"incremental_output,omitempty"`
	Logprobs          bool     `json:"logprobs,omitempty"`
	TopLogprobs       int      `json:"top_logprobs,omitempty"`
	Tools             []Tool   `json:"tools,omitempty"`
}

// Tool describes a function the model may call.
type Tool struct {
	Type     string       `json:"type"` // "function"
	Function ToolFunction `json:"function"`
}

// ToolFunction is the function declaration exposed to the model. Parameters
// is a JSON Schema document.
type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// expectedChoices returns the number of parallel candidates the request asks
// for, for feeding the stream accumulator.
func (request Request) expectedChoices() int {
	if request.Parameters == nil || request.Parameters.N < 1 {
		return 1
	}
	return request.Parameters.N
}
