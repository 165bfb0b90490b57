// Package client provides a small XML-posting client built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("pricing/1.0"),
//	)
//
// # Posting Payloads
//
// A single call posts an XML payload and validates the response status
// and Content-Type:
//
//	resp, err := c.Post(ctx, "http://localhost:8080/prices", payload)
//	if err != nil {
//		// *UnexpectedStatusError carries the status and body excerpt.
//	}
//	fmt.Println(resp.StatusCode, string(resp.Body))
//
// # Self-Signed Servers
//
// Servers carrying self-signed certificates can be trusted explicitly
// with [WithRootCAs], or verification can be skipped with
// [WithInsecureSkipVerify]:
//
//	pool := x509.NewCertPool()
//	pool.AppendCertsFromPEM(caPEM)
//	c, err := client.Build(client.WithRootCAs(pool))
//
// # Rate Limiting
//
// [WithThrottle] wraps the transport in a token-bucket limiter so bursts
// of calls are slowed down client-side instead of overwhelming the server.
package client
