package soap

import (
	"context"

	"github.com/adamwoolhether/soaper/endpoint"
)

// Handler processes a parsed request envelope and returns the reply payload.
type Handler func(ctx context.Context, msg *Message) ([]byte, error)

// NewResponder adapts handler into an [endpoint.Responder]. Payloads
// that fail to parse are answered with a client fault; handler errors
// are answered with a server fault carrying the error text. Faults are
// returned as regular payloads so the transport still replies 200.
func NewResponder(handler Handler) endpoint.Responder {
	return endpoint.ResponderFunc(func(ctx context.Context, req *endpoint.Request) ([]byte, error) {
		msg, err := Parse(req.Body)
		if err != nil {
			return Fault(Version11, FaultClient, err.Error()), nil
		}

		payload, err := handler(ctx, msg)
		if err != nil {
			return Fault(msg.Version(), FaultServer, err.Error()), nil
		}

		return payload, nil
	})
}
