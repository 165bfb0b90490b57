// Package endpoint routes inbound POST requests to registered responders.
//
// A [Registry] holds the mapping from context paths to [Responder]
// implementations and can be mutated while the server is running. An
// [Endpoint] fronts the registry as an [net/http.Handler], reading the
// request body, dispatching to the matching responder, and writing the
// returned payload back as text/xml.
//
// Basic usage:
//
//	reg := endpoint.NewRegistry(nil, logger)
//	if err := reg.Register("/echo", responder); err != nil {
//		log.Fatal(err)
//	}
//
//	h := endpoint.New(reg,
//		endpoint.WithLogger(logger),
//		endpoint.WithExecutor(workers),
//	)
//	http.ListenAndServe(":8080", h)
//
// Responders can recover the request trace ID and tracer through
// [GetValues] and [AddSpan].
package endpoint
