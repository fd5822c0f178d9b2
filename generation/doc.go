// Package generation implements the client for the Alto text generation
// service. It supports synchronous calls via [Client.Call] and SSE streaming
// via [Client.Stream]; streamed chunks are merged into cumulative snapshots
// by core/merge before they reach the caller, so every yielded response
// carries the full text, reasoning, tool calls, and logprobs received so far.
//
// The main entry point is [NewClient], which reads ALTO_API_KEY,
// ALTO_API_BASE_URL, and ALTO_WORKSPACE from the environment. Use
// [Client.WithAPIKey] and [Client.WithBaseURL] to override programmatically.
package generation
