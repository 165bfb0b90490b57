package soap

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// Envelope namespaces for the two supported protocol versions.
const (
	NamespaceSOAP11 = "http://schemas.xmlsoap.org/soap/envelope/"
	NamespaceSOAP12 = "http://www.w3.org/2003/05/soap-envelope"
)

var (
	ErrNotEnvelope    = errors.New("root element is not a soap envelope")
	ErrMissingBody    = errors.New("envelope has no body")
	ErrEntityDeclared = errors.New("dtd and entity declarations are not allowed")
)

// Version identifies the SOAP protocol version of a message.
type Version int

const (
	Version11 Version = iota + 1
	Version12
)

// String implements fmt.Stringer.
func (v Version) String() string {
	switch v {
	case Version11:
		return "SOAP 1.1"
	case Version12:
		return "SOAP 1.2"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Namespace returns the envelope namespace for the version.
func (v Version) Namespace() string {
	if v == Version12 {
		return NamespaceSOAP12
	}

	return NamespaceSOAP11
}

// Message is a parsed SOAP envelope.
type Message struct {
	doc      *xmlquery.Node
	envelope *xmlquery.Node
	version  Version
}

// Parse reads a SOAP envelope from data, detecting the protocol version
// from the root element's namespace. DOCTYPE directives and custom
// entity declarations are rejected before the document is built.
func Parse(data []byte) (*Message, error) {
	if err := checkEntities(data); err != nil {
		return nil, err
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing envelope: %w", err)
	}

	envelope := firstElement(doc)
	if envelope == nil || envelope.Data != "Envelope" {
		return nil, ErrNotEnvelope
	}

	var version Version
	switch envelope.NamespaceURI {
	case NamespaceSOAP11:
		version = Version11
	case NamespaceSOAP12:
		version = Version12
	default:
		return nil, fmt.Errorf("namespace %q: %w", envelope.NamespaceURI, ErrNotEnvelope)
	}

	return &Message{doc: doc, envelope: envelope, version: version}, nil
}

// Version reports the protocol version detected from the envelope namespace.
func (m *Message) Version() Version {
	return m.version
}

// Body returns the envelope's Body element.
func (m *Message) Body() (*xmlquery.Node, error) {
	if body := m.childElement("Body"); body != nil {
		return body, nil
	}

	return nil, ErrMissingBody
}

// Header returns the envelope's Header element, or nil when absent.
func (m *Message) Header() *xmlquery.Node {
	return m.childElement("Header")
}

// XPath runs the given expression against the whole document. The
// expression is compiled up front so a bad expression surfaces as an
// error rather than an empty result.
func (m *Message) XPath(expr string) ([]*xmlquery.Node, error) {
	if _, err := xpath.Compile(expr); err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes, err := xmlquery.QueryAll(m.doc, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query: %w", err)
	}

	return nodes, nil
}

// String renders the parsed document back to XML.
func (m *Message) String() string {
	return m.doc.OutputXML(true)
}

// childElement finds a direct child of the envelope by local name
// within the envelope's own namespace.
func (m *Message) childElement(name string) *xmlquery.Node {
	for child := m.envelope.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == name && child.NamespaceURI == m.version.Namespace() {
			return child
		}
	}

	return nil
}

// checkEntities walks the raw token stream with entity expansion
// disabled, rejecting DOCTYPE directives before the document is built.
func checkEntities(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parsing envelope: %w", err)
		}

		if dir, ok := tok.(xml.Directive); ok {
			if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(string(dir))), "DOCTYPE") {
				return ErrEntityDeclared
			}
		}
	}
}

func firstElement(doc *xmlquery.Node) *xmlquery.Node {
	for child := doc.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return child
		}
	}

	return nil
}
