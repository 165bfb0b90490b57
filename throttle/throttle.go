package throttle

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewGate returns a Gate admitting rps calls per second with the given
// burst capacity. logFn lazily resolves the logger at admission time,
// making option ordering irrelevant. A nil-returning logFn disables the
// exhaustion log records.
func NewGate(rps, burst int, logFn func() *slog.Logger) (*Gate, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}
	if logFn == nil {
		logFn = func() *slog.Logger { return nil }
	}

	return &Gate{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		rps:     rps,
		burst:   burst,
		logFn:   logFn,
	}, nil
}

// Wait blocks until a token is available or ctx ends. name tags the log
// records emitted when the bucket runs dry.
func (g *Gate) Wait(ctx context.Context, name string) error {
	if g == nil || g.limiter == nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w early: %w", ErrContextEnded, err)
	}

	var waited time.Duration
	// Tokens is a read, not a reservation; the admission itself happens in Wait.
	logger := g.logFn()
	if logger != nil && g.limiter.Tokens() < 1 {
		logger.Info("throttle tokens exhausted", "rate", g.rps, "burst", g.burst, "name", name)

		defer func() {
			logger.Info("throttle wait complete", "waited", waited.String(), "rate", g.rps, "burst", g.burst)
		}()
	}

	start := time.Now()

	err := g.limiter.Wait(ctx)
	waited = time.Since(start)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWaitingFailed, err)
	}

	if err := ctx.Err(); err != nil { // Check context hasn't expired again.
		return fmt.Errorf("%w post-wait: %w", ErrContextEnded, err)
	}

	return nil
}

// NewRoundTripper returns an http.RoundTripper that throttles outbound
// requests through a Gate in front of next.
func NewRoundTripper(rps, burst int, logFn func() *slog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	gate, err := NewGate(rps, burst, logFn)
	if err != nil {
		return nil, err
	}

	return &roundTripper{gate: gate, next: next}, nil
}

func (t *roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if err := t.gate.Wait(r.Context(), r.URL.Path); err != nil {
		return nil, err
	}

	return t.next.RoundTrip(r)
}
