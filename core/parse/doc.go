// Package parse converts model-produced text into structured values.
// Tool call arguments glued together from stream fragments, and JSON the
// model wraps in markdown code fences, are frequently malformed; this
// package strips fences and applies automatic JSON repair before giving up.
//
// The main entry points are the generic [JSONAs] function and the
// [ToolArguments] helper for decoding an accumulated tool call.
package parse
