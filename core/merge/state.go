package merge

import (
	"slices"
	"strings"

	"github.com/altoai/alto-go/api"
)

// choiceState is the accumulated view of a single choice. One is created the
// first time a choice index appears and persists for the rest of the stream.
type choiceState struct {
	role string

	// contentKind is fixed by the first non-empty content fragment seen for
	// this choice. Fragments of the other shape arriving later are ignored.
	contentKind  api.ContentKind
	contentText  strings.Builder
	contentParts []api.ContentPart

	reasoning strings.Builder

	toolCalls     map[int]*toolCallState
	toolCallOrder []int

	logprobs []api.LogprobContent

	finished       bool
	finishReason   string
	allChoicesSent bool
}

// toolCallState accumulates one function call, keyed by the call's own index
// (its position among the parallel calls the model is emitting).
type toolCallState struct {
	id        string
	callType  string
	name      strings.Builder
	arguments strings.Builder
}

func newChoiceState() *choiceState {
	return &choiceState{toolCalls: make(map[int]*toolCallState)}
}

// mergeContent folds one content fragment into the accumulated content,
// resolving the shape on the first non-empty occurrence.
func (state *choiceState) mergeContent(incoming api.MessageContent) {
	if state.contentKind == api.ContentKindNone && !incoming.Empty() {
		state.contentKind = incoming.Kind
	}
	if incoming.Kind != state.contentKind {
		// Shape mismatch; first-seen shape wins.
		return
	}

	switch state.contentKind {
	case api.ContentKindText:
		state.contentText.WriteString(incoming.Text)
	case api.ContentKindParts:
		for len(state.contentParts) < len(incoming.Parts) {
			state.contentParts = append(state.contentParts, api.ContentPart{})
		}
		for partIndex, part := range incoming.Parts {
			accumulated := &state.contentParts[partIndex]
			accumulated.Text += part.Text
			if part.Image != "" {
				accumulated.Image = part.Image
			}
			if part.Audio != "" {
				accumulated.Audio = part.Audio
			}
			if part.Video != "" {
				accumulated.Video = part.Video
			}
		}
	}
}

// mergeToolCalls folds incoming tool call fragments into the accumulated
// calls. A fragment without an index cannot be matched to a call and is
// skipped; the rest of the chunk is still processed.
func (state *choiceState) mergeToolCalls(incoming []api.ToolCall) {
	for _, call := range incoming {
		if call.Index == nil {
			continue
		}
		callIndex := *call.Index

		accumulated, exists := state.toolCalls[callIndex]
		if !exists {
			accumulated = &toolCallState{}
			state.toolCalls[callIndex] = accumulated
			state.toolCallOrder = append(state.toolCallOrder, callIndex)
		}

		// name and arguments are fragments; everything else is
		// last-write-wins for non-empty values.
		accumulated.name.WriteString(call.Function.Name)
		accumulated.arguments.WriteString(call.Function.Arguments)
		if call.ID != "" {
			accumulated.id = call.ID
		}
		if call.Type != "" {
			accumulated.callType = call.Type
		}
	}
}

// mergeLogprobs appends a chunk's new logprob entries to the accumulated
// sequence.
func (state *choiceState) mergeLogprobs(incoming *api.Logprobs) {
	if incoming == nil || len(incoming.Content) == 0 {
		return
	}
	state.logprobs = append(state.logprobs, incoming.Content...)
}

// contentSnapshot returns the accumulated content as a fresh value that does
// not alias internal state.
func (state *choiceState) contentSnapshot() api.MessageContent {
	switch state.contentKind {
	case api.ContentKindText:
		return api.TextContent(state.contentText.String())
	case api.ContentKindParts:
		return api.PartsContent(slices.Clone(state.contentParts)...)
	default:
		return api.MessageContent{}
	}
}

// toolCallsSnapshot returns the accumulated tool calls in first-seen order.
func (state *choiceState) toolCallsSnapshot() []api.ToolCall {
	if len(state.toolCallOrder) == 0 {
		return nil
	}
	calls := make([]api.ToolCall, 0, len(state.toolCallOrder))
	for _, callIndex := range state.toolCallOrder {
		accumulated := state.toolCalls[callIndex]
		index := callIndex
		calls = append(calls, api.ToolCall{
			Index: &index,
			ID:    accumulated.id,
			Type:  accumulated.callType,
			Function: api.ToolCallFunction{
				Name:      accumulated.name.String(),
				Arguments: accumulated.arguments.String(),
			},
		})
	}
	return calls
}

// logprobsSnapshot returns the accumulated logprobs, or nil when none were
// ever received.
func (state *choiceState) logprobsSnapshot() *api.Logprobs {
	if len(state.logprobs) == 0 {
		return nil
	}
	return &api.Logprobs{Content: slices.Clone(state.logprobs)}
}

// messageSnapshot builds a complete message from the accumulated state. The
// role defaults to assistant when no chunk has carried one yet, which also
// covers choices whose chunks never included a message at all.
func (state *choiceState) messageSnapshot() *api.Message {
	role := state.role
	if role == "" {
		role = "assistant"
	}
	return &api.Message{
		Role:             role,
		Content:          state.contentSnapshot(),
		ReasoningContent: state.reasoning.String(),
		ToolCalls:        state.toolCallsSnapshot(),
	}
}
