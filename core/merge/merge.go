package merge

import (
	"sort"

	"github.com/altoai/alto-go/api"
)

// Accumulator owns the per-choice merge state of one logical streaming call.
// It is not safe for concurrent use and must not be reused across streams;
// create a fresh one per call and discard it when the stream ends.
type Accumulator struct {
	expectedChoices int
	choices         map[int]*choiceState
	order           []int // choice indices in first-seen order
	textMode        bool  // stream uses scalar output.text rather than choices
}

// NewAccumulator creates an accumulator for a stream that is expected to
// carry expectedChoices parallel generation candidates (the request's n
// parameter). Values below 1 are treated as 1; completion gating only
// applies when more than one choice was requested.
func NewAccumulator(expectedChoices int) *Accumulator {
	if expectedChoices < 1 {
		expectedChoices = 1
	}
	return &Accumulator{
		expectedChoices: expectedChoices,
		choices:         make(map[int]*choiceState),
	}
}

// Merge folds one parsed chunk into the accumulated state and returns a new
// response carrying the cumulative view of the stream so far, plus whether
// that snapshot should be emitted to the caller. A false result means the
// chunk is suppressed entirely (the returned response is nil) and the caller
// must wait for the next chunk. The input chunk is never mutated, and the
// returned response never aliases accumulator internals.
//
// Merge never fails: malformed optional fields are treated as absent and
// skipped, never propagated as errors.
func (accumulator *Accumulator) Merge(chunk *api.Response) (*api.Response, bool) {
	// Once the consolidated final snapshot has been emitted, every further
	// chunk of this stream is stale.
	if accumulator.expectedChoices > 1 && accumulator.finalSent() {
		return nil, false
	}

	if chunk == nil {
		return nil, true
	}
	merged := copyEnvelope(chunk)

	switch {
	case accumulator.isTextChunk(chunk):
		accumulator.mergeText(chunk, merged)
		return merged, true

	case chunk.Output != nil && len(chunk.Output.Choices) > 0:
		accumulator.mergeChoices(chunk, merged)
		if accumulator.expectedChoices > 1 {
			accumulator.gateChoices(merged)
		}
		return merged, true

	default:
		// Nothing to merge (usage-only or empty chunk); pass through.
		return merged, true
	}
}

// ExpectedChoices returns the number of parallel candidates the stream is
// expected to carry.
func (accumulator *Accumulator) ExpectedChoices() int {
	return accumulator.expectedChoices
}

func (accumulator *Accumulator) finalSent() bool {
	for _, state := range accumulator.choices {
		if state.allChoicesSent {
			return true
		}
	}
	return false
}

// isTextChunk reports whether the chunk belongs to the undifferentiated-text
// mode: a scalar output.text with no choices list. Trailing chunks of such a
// stream may carry an empty text fragment (finish reason only); they still
// take this path once text accumulation has started so that every emission
// carries the full text so far.
func (accumulator *Accumulator) isTextChunk(chunk *api.Response) bool {
	if chunk.Output == nil || len(chunk.Output.Choices) > 0 {
		return false
	}
	return chunk.Output.Text != "" || accumulator.textMode
}

// mergeText appends the chunk's text fragment to choice 0's accumulated
// content and rewrites the outgoing text to the full value.
func (accumulator *Accumulator) mergeText(chunk *api.Response, merged *api.Response) {
	accumulator.textMode = true
	state := accumulator.stateFor(0)
	if state.contentKind == api.ContentKindNone {
		state.contentKind = api.ContentKindText
	}
	if state.contentKind == api.ContentKindText {
		state.contentText.WriteString(chunk.Output.Text)
	}

	output := *chunk.Output
	output.Text = state.contentText.String()
	merged.Output = &output
}

// mergeChoices folds each choice of the chunk into its accumulated state and
// fills merged.Output.Choices with cumulative per-choice snapshots.
func (accumulator *Accumulator) mergeChoices(chunk *api.Response, merged *api.Response) {
	output := *chunk.Output
	output.Choices = make([]api.Choice, 0, len(chunk.Output.Choices))

	for position, incoming := range chunk.Output.Choices {
		// A choice's identity is its own index field when set, falling back
		// to its position within this chunk's choices list.
		choiceIndex := position
		if incoming.Index != nil {
			choiceIndex = *incoming.Index
		}
		state := accumulator.stateFor(choiceIndex)

		if incoming.Message != nil {
			if incoming.Message.Role != "" {
				state.role = incoming.Message.Role
			}
			state.mergeContent(incoming.Message.Content)
			state.reasoning.WriteString(incoming.Message.ReasoningContent)
			state.mergeToolCalls(incoming.Message.ToolCalls)
		}
		state.mergeLogprobs(incoming.Logprobs)

		// finish_reason is sticky: recorded once, never changed or cleared.
		if api.IsFinishReasonSet(incoming.FinishReason) && !state.finished {
			state.finished = true
			state.finishReason = incoming.FinishReason
		}

		output.Choices = append(output.Choices, accumulator.choiceSnapshot(choiceIndex, state, incoming))
	}

	merged.Output = &output
}

// choiceSnapshot builds the outgoing cumulative view of one choice. The
// message is always synthesized from the accumulated state, so chunks that
// carry no message at all (late finish_reason or logprobs only) still emit a
// complete one.
func (accumulator *Accumulator) choiceSnapshot(choiceIndex int, state *choiceState, incoming api.Choice) api.Choice {
	index := choiceIndex
	snapshot := api.Choice{
		Index:    &index,
		Message:  state.messageSnapshot(),
		Logprobs: state.logprobsSnapshot(),
	}

	if state.finished {
		snapshot.FinishReason = state.finishReason
	} else {
		snapshot.FinishReason = incoming.FinishReason
	}
	return snapshot
}

// gateChoices enforces multi-choice completion gating on the outgoing chunk:
// no finish reason is revealed until every expected choice has finished, and
// the moment they all have, the outgoing choices list is replaced wholesale
// with one consolidated final entry per accumulated choice.
func (accumulator *Accumulator) gateChoices(merged *api.Response) {
	finished := 0
	for _, state := range accumulator.choices {
		if state.finished {
			finished++
		}
	}

	if finished < accumulator.expectedChoices {
		for position := range merged.Output.Choices {
			merged.Output.Choices[position].FinishReason = api.FinishReasonNull
		}
		return
	}

	for _, state := range accumulator.choices {
		state.allChoicesSent = true
	}

	indices := make([]int, len(accumulator.order))
	copy(indices, accumulator.order)
	sort.Ints(indices)

	final := make([]api.Choice, 0, len(indices))
	for _, choiceIndex := range indices {
		state := accumulator.choices[choiceIndex]
		index := choiceIndex
		final = append(final, api.Choice{
			Index:        &index,
			FinishReason: state.finishReason,
			Message:      state.messageSnapshot(),
			Logprobs:     state.logprobsSnapshot(),
		})
	}
	merged.Output.Choices = final
}

func (accumulator *Accumulator) stateFor(choiceIndex int) *choiceState {
	state, exists := accumulator.choices[choiceIndex]
	if !exists {
		state = newChoiceState()
		accumulator.choices[choiceIndex] = state
		accumulator.order = append(accumulator.order, choiceIndex)
	}
	return state
}

// copyEnvelope duplicates the chunk's envelope fields into a fresh response.
// Usage is pass-through: it is copied as-is and never merged.
func copyEnvelope(chunk *api.Response) *api.Response {
	merged := &api.Response{
		RequestID:  chunk.RequestID,
		StatusCode: chunk.StatusCode,
		Code:       chunk.Code,
		Message:    chunk.Message,
	}
	if chunk.Usage != nil {
		usage := *chunk.Usage
		merged.Usage = &usage
	}
	if chunk.Output != nil {
		output := *chunk.Output
		merged.Output = &output
	}
	return merged
}
