package soap

import (
	"bytes"
	"encoding/xml"

	"github.com/antchfx/xmlquery"
)

// FaultCode classifies a fault's origin.
type FaultCode int

const (
	// FaultClient indicates the sender's message was invalid. Rendered
	// as soap:Client in 1.1 and env:Sender in 1.2.
	FaultClient FaultCode = iota + 1
	// FaultServer indicates processing failed on the receiving side.
	// Rendered as soap:Server in 1.1 and env:Receiver in 1.2.
	FaultServer
)

// Fault renders a fault envelope for the given protocol version. The
// reason text is XML-escaped.
func Fault(version Version, code FaultCode, reason string) []byte {
	var buf bytes.Buffer

	switch version {
	case Version12:
		value := "env:Receiver"
		if code == FaultClient {
			value = "env:Sender"
		}
		buf.WriteString(`<env:Envelope xmlns:env="` + NamespaceSOAP12 + `"><env:Body><env:Fault><env:Code><env:Value>`)
		buf.WriteString(value)
		buf.WriteString(`</env:Value></env:Code><env:Reason><env:Text xml:lang="en">`)
		xml.EscapeText(&buf, []byte(reason))
		buf.WriteString(`</env:Text></env:Reason></env:Fault></env:Body></env:Envelope>`)
	default:
		faultcode := "soap:Server"
		if code == FaultClient {
			faultcode = "soap:Client"
		}
		buf.WriteString(`<soap:Envelope xmlns:soap="` + NamespaceSOAP11 + `"><soap:Body><soap:Fault><faultcode>`)
		buf.WriteString(faultcode)
		buf.WriteString(`</faultcode><faultstring>`)
		xml.EscapeText(&buf, []byte(reason))
		buf.WriteString(`</faultstring></soap:Fault></soap:Body></soap:Envelope>`)
	}

	return buf.Bytes()
}

// IsFault reports whether the message body carries a fault element.
func (m *Message) IsFault() bool {
	body, err := m.Body()
	if err != nil {
		return false
	}

	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode && child.Data == "Fault" && child.NamespaceURI == m.version.Namespace() {
			return true
		}
	}

	return false
}
