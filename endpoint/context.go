package endpoint

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type ctxKey int

const (
	base ctxKey = iota + 1
)

// Values carries per-request metadata shared with responders.
type Values struct {
	TraceID string
	Now     time.Time
	Tracer  trace.Tracer
}

// GetValues retrieves the Values from the given context.
func GetValues(ctx context.Context) *Values {
	v, ok := ctx.Value(base).(*Values)
	if !ok {
		return &Values{
			TraceID: uuid.Nil.String(),
			Tracer:  noop.NewTracerProvider().Tracer(""),
			Now:     time.Now(),
		}
	}

	return v
}

// GetTraceID retrieves the current trace ID from the Values in the given context.
// We return an empty uuid for testing purposes if not set.
func GetTraceID(ctx context.Context) string {
	v, ok := ctx.Value(base).(*Values)
	if !ok {
		return uuid.Nil.String()
	}

	return v.TraceID
}

// AddSpan adds a span to the tracer, returning it and the context.
func AddSpan(ctx context.Context, spanName string, keyValues ...attribute.KeyValue) (context.Context, trace.Span) {
	v, ok := ctx.Value(base).(*Values)
	if !ok || v.Tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}

	ctx, span := v.Tracer.Start(ctx, spanName)
	span.SetAttributes(keyValues...)

	return ctx, span
}

// setValues sets the specified Values in the context.
func setValues(ctx context.Context, v *Values) context.Context {
	return context.WithValue(ctx, base, v)
}
