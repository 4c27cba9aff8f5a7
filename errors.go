package courier

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDestination reports a send attempted on a client that has no
	// default destination configured.
	ErrNoDestination = errors.New("courier: no destination configured")

	// ErrNoCodec reports a marshalling operation on a client built
	// without a codec.
	ErrNoCodec = errors.New("courier: no codec configured")

	// ErrResponseAlreadySent reports a second SendResponse on the same
	// message context.
	ErrResponseAlreadySent = errors.New("courier: response already sent")
)

// TransportError wraps a failure raised while connecting, writing or
// reading on the transport, or a fault signaled by the far side.
type TransportError struct {
	// Destination is the URI the exchange was addressed to. It may be
	// empty when the failure happened outside an addressed exchange.
	Destination string
	Err         error
}

func (e *TransportError) Error() string {
	if e.Destination == "" {
		return fmt.Sprintf("courier: transport: %v", e.Err)
	}
	return fmt.Sprintf("courier: transport %s: %v", e.Destination, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// CodecError wraps a marshalling or unmarshalling failure. It is a kind
// of its own so callers can tell a bad payload from a dead peer.
type CodecError struct {
	// Codec is the name of the codec that failed.
	Codec string
	// Op is "marshal" or "unmarshal".
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("courier: codec %s: %s: %v", e.Codec, e.Op, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }
