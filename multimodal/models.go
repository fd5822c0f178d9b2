package multimodal

import (
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/altoai/alto-go/api"
)

// Request is the multimodal conversation request envelope.
type Request struct {
	Model      string      `json:"model"`
	Input      Input       `json:"input"`
	Parameters *Parameters `json:"parameters,omitempty"`
}

// Input carries the conversation history. Every message uses structured
// content parts.
type Input struct {
	Messages []api.Message `json:"messages"`
}

// Parameters tunes a multimodal call. Zero values are omitted and leave the
// service defaults in effect.
type Parameters struct {
	Seed              int      `json:"seed,omitempty"`
	MaxTokens         int      `json:"max_tokens,omitempty"`
	Temperature       float64  `json:"temperature,omitempty"`
	TopP              float64  `json:"top_p,omitempty"`
	TopK              int      `json:"top_k,omitempty"`
	Stop              []string `json:"stop,omitempty"`
	EnableThinking    bool     `json:"enable_thinking,omitempty"`
	IncrementalOutput bool     `json:"incremental_output,omitempty"`
	// Voice selects the speaker for speech synthesis models. The synthesized
	// audio arrives in the response under output.audio.
	Voice string `json:"voice,omitempty"`
}

// TextPart builds a plain text content part.
func TextPart(text string) api.ContentPart {
	return api.ContentPart{Text: text}
}

// ImagePart builds an image content part from a URL or data URI.
func ImagePart(imageURL string) api.ContentPart {
	return api.ContentPart{Image: imageURL}
}

// AudioPart builds an audio content part from a URL or data URI.
func AudioPart(audioURL string) api.ContentPart {
	return api.ContentPart{Audio: audioURL}
}

// VideoPart builds a video content part from a URL or data URI.
func VideoPart(videoURL string) api.ContentPart {
	return api.ContentPart{Video: videoURL}
}

// TextPartFromHTML converts an HTML document to markdown and wraps it in a
// text content part. Markdown keeps the document structure visible to the
// model at a fraction of the token cost of raw HTML.
func TextPartFromHTML(rawHTML string) (api.ContentPart, error) {
	markdown, err := htmltomarkdown.ConvertString(rawHTML)
	if err != nil {
		return api.ContentPart{}, err
	}
	return api.ContentPart{Text: markdown}, nil
}

// SystemMessage builds a system message from content parts.
func SystemMessage(parts ...api.ContentPart) api.Message {
	return api.Message{Role: "system", Content: api.PartsContent(parts...)}
}

// UserMessage builds a user message from content parts.
func UserMessage(parts ...api.ContentPart) api.Message {
	return api.Message{Role: "user", Content: api.PartsContent(parts...)}
}

// AssistantMessage builds an assistant message from content parts. Used to
// replay prior turns of a conversation.
func AssistantMessage(parts ...api.ContentPart) api.Message {
	return api.Message{Role: "assistant", Content: api.PartsContent(parts...)}
}
