// Package merge turns a sequence of incremental partial responses, as
// delivered over a streamed connection, into progressively complete
// cumulative snapshots.
//
// An [Accumulator] is created once per logical streaming call and fed every
// parsed chunk in arrival order. Each call to [Accumulator.Merge] returns a
// new response value reflecting the full history received so far, plus a
// decision on whether that snapshot should be emitted to the caller at all.
// The accumulator does no I/O, never returns an error, and must not be
// shared across concurrent streams.
//
// It handles the full shape of streamed output: undifferentiated text,
// multi-choice message deltas, string and multimodal-array content,
// reasoning content, fragmented tool-call arguments, and per-token log
// probabilities. When more than one parallel choice was requested, per-choice
// finish reasons are withheld until every choice has finished, at which point
// a single consolidated terminal snapshot is produced and all later chunks
// are suppressed.
package merge
