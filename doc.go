// Package soaper manages the lifecycle of a SOAP endpoint server:
// plain and TLS listeners built from a fluent, validated configuration,
// a thread-safe registry of responders keyed by context path, and a
// bounded worker pool that runs responders off the accept path.
//
// Basic usage:
//
//	srv, err := soaper.NewBuilder().
//		HTTPPort(8080).
//		CoreThreads(2).
//		MaxThreads(4).
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := srv.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer srv.Destroy()
//
//	srv.RegisterRequestResponder("/echo", responder)
//
// Serving TLS from a keystore:
//
//	u, _ := url.Parse("file:///etc/soaper/keystore.p12")
//	srv, err := soaper.NewBuilder().
//		HTTPSPort(8443).
//		KeyStoreURL(u).
//		KeyStoreType("PKCS12").
//		KeyStorePassword("changeit").
//		Build()
//
// Responders implement [endpoint.Responder]; the soap package bridges
// parsed SOAP envelopes and fault rendering on top of that interface.
package soaper
