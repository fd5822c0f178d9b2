package generation

import (
	"context"
	"fmt"

	"github.com/altoai/alto-go/api"
	"github.com/altoai/alto-go/internal/httputil"
	"github.com/altoai/alto-go/internal/streaming"
	"github.com/altoai/alto-go/observability"
)

// Stream sends a generation request with SSE delivery enabled and returns a
// stream of cumulative snapshots. The request's n parameter (parallel
// candidates) drives multi-choice completion gating: when n > 1, per-choice
// finish reasons are withheld until all candidates have finished.
func (generationClient *Client) Stream(ctx context.Context, request Request) (*api.Stream, error) {
	span := observability.SpanFromContext(ctx)
	observer := observability.ObserverFromContext(ctx)

	if span != nil {
		span.AddEvent(observability.EventStreamStart)
		span.SetAttributes(
			observability.String(observability.AttrService, "text-generation"),
			observability.String(observability.AttrModel, request.Model),
			observability.Int(observability.AttrExpectedChoices, request.expectedChoices()),
		)
	}

	if generationClient.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}

	// The service streams deltas; the accumulator rebuilds full snapshots.
	if request.Parameters == nil {
		request.Parameters = &Parameters{}
	}
	request.Parameters.IncrementalOutput = true

	httpResponse, err := httputil.DoPostStream(
		ctx, generationClient.client, generationClient.baseURL+generationEndpoint,
		generationClient.apiKey, request, generationClient.headers()...)
	if err != nil {
		if observer != nil {
			observer.Trace(ctx, "streaming request failed", observability.Error(err))
		}
		return nil, err
	}

	iterator := streaming.SnapshotIterator(ctx, httpResponse, request.expectedChoices(), "text-generation")
	return api.NewStream(iterator), nil
}
