// Package throttle rate-limits calls using a token-bucket algorithm
// from [golang.org/x/time/rate].
//
// # Gating a server
//
// A [Gate] admits inbound work at a bounded rate:
//
//	gate, err := throttle.NewGate(
//		100, // requests per second
//		20,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//	)
//	// per request:
//	if err := gate.Wait(r.Context(), r.URL.Path); err != nil { ... }
//
// # Throttling a client
//
// Wrap an existing transport with [NewRoundTripper]:
//
//	rt, err := throttle.NewRoundTripper(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// When the rate limit is exceeded, callers block until a token becomes
// available or the context is cancelled.
package throttle
