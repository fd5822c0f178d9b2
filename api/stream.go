package api

import (
	"fmt"
	"iter"
)

// Stream wraps a streaming service call. Every yielded response is a
// cumulative snapshot: all previous chunks have already been folded into it,
// so rendering the latest snapshot is always sufficient.
//
// Callers must consume the stream, either by iterating with Iter() (breaking
// early is fine) or by calling Collect(); the underlying connection is
// released when the iterator completes or is abandoned via a loop break.
type Stream struct {
	iterator iter.Seq2[*Response, error]
}

// NewStream wraps a raw snapshot iterator. Used by the service clients and
// by tests that drive a stream from a canned chunk sequence.
func NewStream(iterator iter.Seq2[*Response, error]) *Stream {
	return &Stream{iterator: iterator}
}

// Iter returns the snapshot iterator for use with range-over-func loops.
//
// Example:
//
//	for snapshot, err := range stream.Iter() {
//	    if err != nil { handle error }
//	    fmt.Print(snapshot.Output.Text)
//	}
func (stream *Stream) Iter() iter.Seq2[*Response, error] {
	return stream.iterator
}

// Collect consumes the entire stream and returns the final snapshot, which
// carries the complete response. A mid-stream error returns the last good
// snapshot alongside the error.
func (stream *Stream) Collect() (*Response, error) {
	var last *Response
	for snapshot, err := range stream.iterator {
		if err != nil {
			return last, err
		}
		last = snapshot
	}
	if last == nil {
		return nil, fmt.Errorf("stream ended without any emission")
	}
	return last, nil
}
