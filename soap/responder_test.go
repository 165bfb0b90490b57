package soap_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/adamwoolhether/soaper/endpoint"
	"github.com/adamwoolhether/soaper/soap"
)

func TestNewResponder_ForwardsParsedMessage(t *testing.T) {
	responder := soap.NewResponder(func(ctx context.Context, msg *soap.Message) ([]byte, error) {
		if msg.Version() != soap.Version11 {
			t.Errorf("Version() = %v, want %v", msg.Version(), soap.Version11)
		}
		return []byte("<reply/>"), nil
	})

	payload, err := responder.Respond(context.Background(), &endpoint.Request{
		Path: "/prices",
		Body: []byte(envelope11),
	})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if string(payload) != "<reply/>" {
		t.Fatalf("payload = %q, want %q", payload, "<reply/>")
	}
}

func TestNewResponder_MalformedRequestBecomesClientFault(t *testing.T) {
	responder := soap.NewResponder(func(ctx context.Context, msg *soap.Message) ([]byte, error) {
		t.Fatal("handler should not run for a malformed request")
		return nil, nil
	})

	payload, err := responder.Respond(context.Background(), &endpoint.Request{
		Path: "/prices",
		Body: []byte("this is not xml"),
	})
	if err != nil {
		t.Fatalf("Respond = %v, want nil with a fault payload", err)
	}

	fault, err := soap.Parse(payload)
	if err != nil {
		t.Fatalf("fault payload should parse: %v", err)
	}
	if !fault.IsFault() {
		t.Fatal("payload should be a fault envelope")
	}

	nodes, err := fault.XPath("//faultcode")
	if err != nil {
		t.Fatalf("XPath: %v", err)
	}
	if len(nodes) != 1 || nodes[0].InnerText() != "soap:Client" {
		t.Fatalf("faultcode = %v, want soap:Client", nodes)
	}
}

func TestNewResponder_HandlerErrorBecomesServerFault(t *testing.T) {
	responder := soap.NewResponder(func(ctx context.Context, msg *soap.Message) ([]byte, error) {
		return nil, errors.New("price lookup failed")
	})

	payload, err := responder.Respond(context.Background(), &endpoint.Request{
		Path: "/prices",
		Body: []byte(envelope12),
	})
	if err != nil {
		t.Fatalf("Respond = %v, want nil with a fault payload", err)
	}

	fault, err := soap.Parse(payload)
	if err != nil {
		t.Fatalf("fault payload should parse: %v", err)
	}

	if fault.Version() != soap.Version12 {
		t.Fatalf("fault Version() = %v, want %v", fault.Version(), soap.Version12)
	}
	if !fault.IsFault() {
		t.Fatal("payload should be a fault envelope")
	}
	if !strings.Contains(string(payload), "price lookup failed") {
		t.Fatalf("fault missing reason, got: %s", payload)
	}

	nodes, err := fault.XPath("//*[local-name()='Value']")
	if err != nil {
		t.Fatalf("XPath: %v", err)
	}
	if len(nodes) != 1 || nodes[0].InnerText() != "env:Receiver" {
		t.Fatalf("fault value = %v, want env:Receiver", nodes)
	}
}
