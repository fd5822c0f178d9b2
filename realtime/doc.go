// Package realtime provides the bidirectional websocket client for live
// audio sessions: microphone audio goes up as binary frames, recognition
// and model events come back as JSON frames.
//
// Usage follows a callback model. Implement Callback, then:
//
//	session := realtime.NewSession("alto-realtime", callback)
//	if err := session.Start(ctx); err != nil { ... }
//	session.SendAudio(pcmChunk) // repeatedly
//	session.Stop()              // ask the service to finalize
//	session.Close()             // tear down the connection
package realtime
