// Package streaming turns an open SSE response into a sequence of cumulative
// response snapshots. It is the glue between the HTTP transport and the merge
// accumulator, shared by every service client that streams.
package streaming

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/altoai/alto-go/api"
	"github.com/altoai/alto-go/core/merge"
	"github.com/altoai/alto-go/internal/httputil"
	"github.com/altoai/alto-go/observability"
)

// SnapshotIterator reads SSE events from the open response body, parses each
// payload into an api.Response, feeds the merge accumulator, and yields the
// emitted cumulative snapshots. Suppressed chunks are counted but not
// yielded. The response body is closed when the iterator finishes or is
// abandoned.
func SnapshotIterator(ctx context.Context, httpResponse *http.Response, expectedChoices int, service string) iter.Seq2[*api.Response, error] {
	return func(yield func(*api.Response, error) bool) {
		defer httputil.CloseWithLog(httpResponse.Body)

		observer := observability.ObserverFromContext(ctx)
		span := observability.SpanFromContext(ctx)
		accumulator := merge.NewAccumulator(expectedChoices)
		sseScanner := httputil.NewSSEScanner(httpResponse.Body)

		chunks, suppressed := 0, 0
		defer func() {
			if span != nil {
				span.AddEvent(observability.EventStreamEnd,
					observability.Int(observability.AttrStreamChunks, chunks),
					observability.Int(observability.AttrStreamSuppressed, suppressed),
				)
			}
			if observer != nil {
				observer.Counter("alto.stream.chunks").Add(ctx, int64(chunks),
					observability.String(observability.AttrService, service))
			}
		}()

		for {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				return
			}
			if sseErr != nil {
				yield(nil, fmt.Errorf("SSE read error: %w", sseErr))
				return
			}
			chunks++

			var chunk api.Response
			if parseErr := json.Unmarshal([]byte(payload), &chunk); parseErr != nil {
				yield(nil, fmt.Errorf("failed to parse streaming chunk: %w", parseErr))
				return
			}
			chunk.StatusCode = httpResponse.StatusCode

			// Service-level errors arrive as chunks with a code; surface them
			// as stream errors rather than merging them.
			if chunk.Code != "" {
				yield(nil, fmt.Errorf("service error %s: %s", chunk.Code, chunk.Message))
				return
			}

			snapshot, emit := accumulator.Merge(&chunk)
			if !emit {
				suppressed++
				continue
			}
			if !yield(snapshot, nil) {
				return
			}
		}
	}
}
