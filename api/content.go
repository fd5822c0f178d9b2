package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ContentKind discriminates the two wire shapes of message content.
type ContentKind int

const (
	// ContentKindNone means the content field was absent or null.
	ContentKindNone ContentKind = iota
	// ContentKindText means the content is a plain string.
	ContentKindText
	// ContentKindParts means the content is an ordered array of parts
	// (multimodal format, e.g. interleaved text and image references).
	ContentKindParts
)

// MessageContent is a tagged union over the two content shapes the service
// uses: a plain string, or an ordered array of multimodal parts. A stream
// uses exactly one shape per choice; the merge logic fixes the shape on the
// first non-empty fragment and keeps it for the rest of the stream.
type MessageContent struct {
	Kind  ContentKind
	Text  string
	Parts []ContentPart
}

// ContentPart is one element of multimodal content. Exactly one field is
// normally set. Only Text accumulates across streaming fragments; the media
// reference fields are carried as-is.
type ContentPart struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
	Audio string `json:"audio,omitempty"`
	Video string `json:"video,omitempty"`
}

// TextContent builds string-shaped content.
func TextContent(text string) MessageContent {
	return MessageContent{Kind: ContentKindText, Text: text}
}

// PartsContent builds array-shaped multimodal content.
func PartsContent(parts ...ContentPart) MessageContent {
	return MessageContent{Kind: ContentKindParts, Parts: parts}
}

// IsZero reports whether the content field was absent. It also drives the
// json omitzero option on Message.Content.
func (content MessageContent) IsZero() bool {
	return content.Kind == ContentKindNone
}

// Empty reports whether the content carries no payload at all: absent, an
// empty string, or an array with no non-empty parts.
func (content MessageContent) Empty() bool {
	switch content.Kind {
	case ContentKindText:
		return content.Text == ""
	case ContentKindParts:
		for _, part := range content.Parts {
			if part != (ContentPart{}) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// PlainText flattens the content to a display string: the string itself for
// text content, or the concatenation of the text parts for multimodal content.
func (content MessageContent) PlainText() string {
	switch content.Kind {
	case ContentKindText:
		return content.Text
	case ContentKindParts:
		var builder strings.Builder
		for _, part := range content.Parts {
			builder.WriteString(part.Text)
		}
		return builder.String()
	default:
		return ""
	}
}

// MarshalJSON writes the union in its wire shape.
func (content MessageContent) MarshalJSON() ([]byte, error) {
	switch content.Kind {
	case ContentKindParts:
		parts := content.Parts
		if parts == nil {
			parts = []ContentPart{}
		}
		return json.Marshal(parts)
	default:
		return json.Marshal(content.Text)
	}
}

// UnmarshalJSON resolves the wire shape from the leading token. Anything
// other than a string or an array (null, objects, numbers) is treated as
// absent content rather than a decode error, matching the service's loose
// schema for optional fields.
func (content *MessageContent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*content = MessageContent{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*content = MessageContent{Kind: ContentKindText, Text: text}
		return nil
	case '[':
		var parts []ContentPart
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return err
		}
		*content = MessageContent{Kind: ContentKindParts, Parts: parts}
		return nil
	default:
		// Unexpected shape; treat as absent.
		*content = MessageContent{}
		return nil
	}
}
