// Package multimodal provides the client for the multimodal conversation
// service: chat over mixed text, image, audio, and video content, plus
// speech synthesis responses delivered through the same envelope.
//
// Messages carry structured content parts rather than plain strings. The
// part constructors in this package build them:
//
//	message := multimodal.UserMessage(
//	    multimodal.ImagePart("https://example.com/chart.png"),
//	    multimodal.TextPart("What does this chart show?"),
//	)
//
// Streaming calls behave like the generation package: each yielded response
// is a cumulative snapshot of everything received so far.
package multimodal
