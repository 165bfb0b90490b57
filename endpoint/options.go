package endpoint

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for configuring an [Endpoint] via [New].
type Option func(*options)

// options represents optional parameters.
type options struct {
	logger          *slog.Logger
	tracer          trace.Tracer
	executor        Executor
	gate            Gate
	maxRequestBytes int64
}

// Executor runs responder work off the request goroutine, typically on
// a bounded worker pool.
type Executor interface {
	Submit(ctx context.Context, job func()) error
}

// Gate admits or delays requests before they are dispatched.
type Gate interface {
	Wait(ctx context.Context, name string) error
}

// WithLogger sets the logger used by the Endpoint for dispatch errors.
func WithLogger(log *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = log
	}
}

// WithTracer injects the given tracer into the Endpoint.
func WithTracer(tracer trace.Tracer) Option {
	return func(opts *options) {
		opts.tracer = tracer
	}
}

// WithExecutor runs responders on the given executor instead of inline
// on the request goroutine.
func WithExecutor(exec Executor) Option {
	return func(opts *options) {
		opts.executor = exec
	}
}

// WithGate throttles dispatch through the given gate. Requests that
// fail admission are rejected with 503 Service Unavailable.
func WithGate(gate Gate) Option {
	return func(opts *options) {
		opts.gate = gate
	}
}

// WithMaxRequestBytes caps the accepted request body size. Larger
// payloads are rejected with 413 Request Entity Too Large. Zero means
// no limit.
func WithMaxRequestBytes(n int64) Option {
	return func(opts *options) {
		opts.maxRequestBytes = n
	}
}
