package endpoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const contentTypeXML = "text/xml; charset=utf-8"

// Endpoint is the http.Handler that fronts a [Registry], dispatching
// each inbound request to the responder registered under its path.
type Endpoint struct {
	registry        *Registry
	logger          *slog.Logger
	tracer          trace.Tracer
	executor        Executor
	gate            Gate
	maxRequestBytes int64
}

// result carries a responder's outcome across the executor boundary.
type result struct {
	payload []byte
	err     error
}

// New creates an Endpoint serving the given registry. A no-op tracer
// and the default slog logger are used unless overridden via options.
// Without an executor, responders run inline on the request goroutine.
func New(registry *Registry, optFns ...Option) *Endpoint {
	var opts options
	for _, opt := range optFns {
		opt(&opts)
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}
	if opts.tracer == nil {
		opts.tracer = noop.NewTracerProvider().Tracer("no-op tracer")
	}

	return &Endpoint{
		registry:        registry,
		logger:          opts.logger,
		tracer:          opts.tracer,
		executor:        opts.executor,
		gate:            opts.gate,
		maxRequestBytes: opts.maxRequestBytes,
	}
}

// ServeHTTP implements http.Handler. Only POST is accepted; the request
// path selects the responder, and the responder's payload is returned
// as text/xml. An empty payload maps to 202 Accepted.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := e.startSpan(w, r)
	defer span.End()

	traceID := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		traceID = uuid.New().String()
	}

	v := Values{
		TraceID: traceID,
		Now:     time.Now().UTC(),
		Tracer:  e.tracer,
	}
	ctx = setValues(ctx, &v)

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "only POST requests are accepted", http.StatusMethodNotAllowed)
		return
	}

	path := r.URL.Path

	responder, ok := e.registry.Lookup(path)
	if !ok {
		http.Error(w, fmt.Sprintf("no responder registered under %s", path), http.StatusNotFound)
		return
	}

	if e.gate != nil {
		if err := e.gate.Wait(ctx, path); err != nil {
			e.logger.Error("endpoint", "admission", err, "traceID", traceID)
			http.Error(w, "request rate exceeded", http.StatusServiceUnavailable)
			return
		}
	}

	body, err := e.readBody(r)
	if err != nil {
		if errors.Is(err, ErrRequestTooLarge) {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		e.logger.Error("endpoint", "read body", err, "traceID", traceID)
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	req := Request{
		Path:       path,
		Header:     r.Header.Clone(),
		RemoteAddr: r.RemoteAddr,
		Body:       body,
	}

	done := make(chan result, 1)
	job := func() {
		defer func() {
			if rec := recover(); rec != nil {
				trace := debug.Stack()
				done <- result{err: fmt.Errorf("PANIC [%v] TRACE[%s]", rec, string(trace))}
			}
		}()

		payload, err := responder.Respond(ctx, &req)
		done <- result{payload: payload, err: err}
	}

	if e.executor != nil {
		if err := e.executor.Submit(ctx, job); err != nil {
			e.logger.Error("endpoint", "submit", err, "traceID", traceID)
			http.Error(w, "server busy", http.StatusServiceUnavailable)
			return
		}
	} else {
		job()
	}

	res := <-done
	if res.err != nil {
		e.logger.Error("endpoint", "respond", res.err, "traceID", traceID)
		http.Error(w, "responder failed", http.StatusInternalServerError)
		return
	}

	if len(res.payload) == 0 {
		w.WriteHeader(http.StatusAccepted)
		return
	}

	w.Header().Set("Content-Type", contentTypeXML)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.payload); err != nil {
		e.logger.Error("endpoint", "write response", err, "traceID", traceID)
	}
}

// readBody drains the request body, enforcing the configured size cap.
func (e *Endpoint) readBody(r *http.Request) ([]byte, error) {
	if e.maxRequestBytes <= 0 {
		return io.ReadAll(r.Body)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, e.maxRequestBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > e.maxRequestBytes {
		return nil, fmt.Errorf("%w: body larger than %d bytes", ErrRequestTooLarge, e.maxRequestBytes)
	}

	return body, nil
}

// startSpan initializes the request by adding a span and writing
// otel-related info into the response writer for the response.
func (e *Endpoint) startSpan(w http.ResponseWriter, r *http.Request) (context.Context, trace.Span) {
	ctx, span := e.tracer.Start(r.Context(), "endpoint.dispatch")
	span.SetAttributes(attribute.String("path", r.RequestURI))

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(w.Header()))

	return ctx, span
}
