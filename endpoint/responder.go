package endpoint

import (
	"context"
	"net/http"
)

// Request carries a single inbound payload handed to a [Responder].
type Request struct {
	// Path is the context path the responder was registered under.
	Path string
	// Header holds a copy of the inbound HTTP headers.
	Header http.Header
	// RemoteAddr is the network address of the caller.
	RemoteAddr string
	// Body is the raw request payload.
	Body []byte
}

// Responder produces the payload returned for requests arriving at a
// registered context path.
type Responder interface {
	// Respond handles a single request. An empty payload with a nil
	// error is answered with 202 Accepted and no body.
	Respond(ctx context.Context, req *Request) ([]byte, error)
}

// ResponderFunc adapts a plain function into a [Responder].
type ResponderFunc func(ctx context.Context, req *Request) ([]byte, error)

// Respond implements [Responder].
func (f ResponderFunc) Respond(ctx context.Context, req *Request) ([]byte, error) {
	return f(ctx, req)
}
