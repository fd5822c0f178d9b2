// Package slogobs provides an observability.Provider backed by the standard
// library's log/slog. Spans are logged as start/end event pairs with their
// duration, counters as debug records. It is the default choice for
// applications that want SDK telemetry without an external tracing backend.
package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/altoai/alto-go/observability"
)

// Observer implements observability.Provider on top of slog.
type Observer struct {
	logger *slog.Logger

	mu       sync.Mutex
	counters map[string]*counter
}

var _ observability.Provider = (*Observer)(nil)

// New creates a slog-backed observer. A nil logger falls back to
// slog.Default().
func New(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{
		logger:   logger,
		counters: make(map[string]*counter),
	}
}

// --- TRACING ---

func (observer *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	span := &slogSpan{
		name:      name,
		startTime: time.Now(),
		logger:    observer.logger,
		attrs:     attrs,
	}
	observer.logger.LogAttrs(ctx, slog.LevelDebug, "span started", span.logAttrs("span.start")...)
	return observability.ContextWithSpan(ctx, span), span
}

type slogSpan struct {
	name      string
	startTime time.Time
	logger    *slog.Logger

	mu    sync.Mutex
	attrs []observability.Attribute
}

func (span *slogSpan) logAttrs(event string, extra ...observability.Attribute) []slog.Attr {
	logAttrs := []slog.Attr{
		slog.String("span", span.name),
		slog.String("event", event),
	}
	for _, attr := range span.attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	for _, attr := range extra {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	return logAttrs
}

func (span *slogSpan) End() {
	span.mu.Lock()
	defer span.mu.Unlock()
	span.logger.LogAttrs(context.Background(), slog.LevelInfo, "span ended",
		append(span.logAttrs("span.end"), slog.Duration("duration", time.Since(span.startTime)))...)
}

func (span *slogSpan) SetAttributes(attrs ...observability.Attribute) {
	span.mu.Lock()
	defer span.mu.Unlock()
	span.attrs = append(span.attrs, attrs...)
}

func (span *slogSpan) SetStatus(code observability.StatusCode, description string) {
	statusText := "unset"
	switch code {
	case observability.StatusOK:
		statusText = "ok"
	case observability.StatusError:
		statusText = "error"
	}
	span.mu.Lock()
	defer span.mu.Unlock()
	span.attrs = append(span.attrs, observability.String("status", statusText))
	if description != "" {
		span.attrs = append(span.attrs, observability.String("status.description", description))
	}
}

func (span *slogSpan) RecordError(err error) {
	if err == nil {
		return
	}
	span.mu.Lock()
	defer span.mu.Unlock()
	span.attrs = append(span.attrs, observability.Error(err))
	span.logger.LogAttrs(context.Background(), slog.LevelError, "span error", span.logAttrs("error")...)
}

func (span *slogSpan) AddEvent(name string, attrs ...observability.Attribute) {
	span.mu.Lock()
	defer span.mu.Unlock()
	logAttrs := []slog.Attr{
		slog.String("span", span.name),
		slog.String("event", name),
	}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	span.logger.LogAttrs(context.Background(), slog.LevelDebug, "span event", logAttrs...)
}

// --- METRICS ---

type counter struct {
	name   string
	logger *slog.Logger
}

func (observer *Observer) Counter(name string) observability.Counter {
	observer.mu.Lock()
	defer observer.mu.Unlock()
	existing, ok := observer.counters[name]
	if !ok {
		existing = &counter{name: name, logger: observer.logger}
		observer.counters[name] = existing
	}
	return existing
}

func (c *counter) Add(ctx context.Context, value int64, attrs ...observability.Attribute) {
	logAttrs := []slog.Attr{
		slog.String("counter", c.name),
		slog.Int64("value", value),
	}
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "counter", logAttrs...)
}

// --- LOGGING ---

// LevelTrace sits below slog.LevelDebug; trace records are dropped unless
// the handler is configured with a lower level.
const LevelTrace = slog.Level(-8)

func (observer *Observer) log(ctx context.Context, level slog.Level, msg string, attrs []observability.Attribute) {
	logAttrs := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		logAttrs = append(logAttrs, slog.Any(attr.Key, attr.Value))
	}
	observer.logger.LogAttrs(ctx, level, msg, logAttrs...)
}

func (observer *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	observer.log(ctx, LevelTrace, msg, attrs)
}

func (observer *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	observer.log(ctx, slog.LevelDebug, msg, attrs)
}

func (observer *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	observer.log(ctx, slog.LevelInfo, msg, attrs)
}

func (observer *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	observer.log(ctx, slog.LevelWarn, msg, attrs)
}

func (observer *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	observer.log(ctx, slog.LevelError, msg, attrs)
}
