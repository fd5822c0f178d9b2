// Package api defines the shared wire types exchanged with the Alto service.
// Every service client (generation, multimodal, image/video synthesis,
// realtime) decodes responses into these types; the streaming merge logic in
// core/merge operates on them directly, keeping the rest of the codebase
// decoupled from transport details.
//
// A [Response] is either a complete synchronous response or one incremental
// chunk of a streamed response. Message content is polymorphic on the wire
// (a plain string or an array of parts) and is modeled by the
// [MessageContent] union rather than inferred from structural presence.
package api
