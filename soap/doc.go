// Package soap parses and builds SOAP 1.1 and 1.2 envelopes.
//
// [Parse] detects the protocol version from the envelope namespace and
// exposes the document for traversal and XPath queries. [Fault] renders
// version-correct fault envelopes, and [NewResponder] bridges a
// [Handler] into the endpoint dispatch layer with fault translation
// for parse and processing errors.
//
// DOCTYPE directives and custom entity declarations are rejected
// during parsing to keep external-entity payloads out of the document.
package soap
