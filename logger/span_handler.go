package logger

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SpanHandler stamps records logged under a valid span with trace_id and
// span_id. Records at or above eventLevel are also added to a recording span
// as "log" events carrying the message and the search context keys.
type SpanHandler struct {
	inner      slog.Handler
	eventLevel slog.Level
}

func NewSpanHandler(inner slog.Handler, eventLevel slog.Level) *SpanHandler {
	return &SpanHandler{inner: inner, eventLevel: eventLevel}
}

func (h *SpanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *SpanHandler) Handle(ctx context.Context, r slog.Record) error {
	span := trace.SpanFromContext(ctx)
	sc := span.SpanContext()
	if !sc.IsValid() {
		return h.inner.Handle(ctx, r)
	}

	r.AddAttrs(
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	)

	if r.Level >= h.eventLevel && span.IsRecording() {
		attrs := []attribute.KeyValue{
			attribute.String("log.severity", r.Level.String()),
			attribute.String("log.message", r.Message),
		}
		for _, key := range contextKeys {
			if v, ok := ctx.Value(key).(string); ok && v != "" {
				attrs = append(attrs, attribute.String(string(key), v))
			}
		}
		span.AddEvent("log", trace.WithAttributes(attrs...))
	}

	return h.inner.Handle(ctx, r)
}

func (h *SpanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SpanHandler{inner: h.inner.WithAttrs(attrs), eventLevel: h.eventLevel}
}

func (h *SpanHandler) WithGroup(name string) slog.Handler {
	return &SpanHandler{inner: h.inner.WithGroup(name), eventLevel: h.eventLevel}
}
