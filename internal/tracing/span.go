package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrBatchID    = attribute.Key("scrollfeed.batch.id")
	AttrBatchStart = attribute.Key("scrollfeed.batch.start")
	AttrBatchSize  = attribute.Key("scrollfeed.batch.size")
	AttrBatchItems = attribute.Key("scrollfeed.batch.items")
	AttrTotal      = attribute.Key("scrollfeed.total")
)

// StartFetchSpan starts a span covering one batch fetch.
func StartFetchSpan(ctx context.Context, tracer trace.Tracer, batchID string, start, size, total int) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "paginator.fetch",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		AttrBatchID.String(batchID),
		AttrBatchStart.Int(start),
		AttrBatchSize.Int(size),
		AttrTotal.Int(total),
	)
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
