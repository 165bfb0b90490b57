package throttle

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config defines the throttler's
// Requests Per Second and Burst Rate
type Config struct {
	RPS   int
	Burst int
}

// Gate admits callers at a bounded rate using the time/rate token
// bucket limiter. It serves both directions: a server gates inbound
// dispatch with Wait, a client wraps its transport with NewRoundTripper.
type Gate struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	logFn   func() *slog.Logger
}

// roundTripper is an http.RoundTripper that holds outbound calls at the
// gate before handing them to the next transport.
type roundTripper struct {
	gate *Gate
	next http.RoundTripper
}
