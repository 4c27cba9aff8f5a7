package courier

import (
	"context"
	"io"
)

// TransportRequest is the inbound half of an exchange as the transport
// saw it: where it was addressed, its transport headers and its raw body.
type TransportRequest interface {
	// Destination returns the URI the exchange is addressed to.
	Destination() string

	Header(name string) (value string, exists bool)

	HeaderNames() []string

	// Reader yields the raw request body. It must be non-nil.
	Reader() io.Reader
}

// TransportResponse is the outbound half of an exchange: headers first,
// then the body through Writer.
type TransportResponse interface {
	SetHeader(name, value string)

	Writer() io.Writer
}

// Receipt carries whatever the far side answered with.
type Receipt interface {
	Header(name string) (value string, exists bool)

	HeaderNames() []string

	Reader() io.Reader
}

// Sender pushes a composed request over the wire and waits for the
// answer. Returning a nil Receipt with a nil error reports an exchange
// that completed without a response. A Sender must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, mc MessageContext) (Receipt, error)
}
