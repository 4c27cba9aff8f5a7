// Package inmem hands exchanges straight to an in-process Receiver,
// which keeps wiring and tests free of sockets.
package inmem

import (
	"context"

	"github.com/courierkit/courier"
	"github.com/courierkit/courier/receiver"
	"github.com/courierkit/courier/transport"
)

// Sender dispatches every exchange to one Receiver regardless of
// destination.
type Sender struct {
	recv *receiver.Receiver
}

var _ courier.Sender = (*Sender)(nil)

// NewSender builds a Sender delivering to recv.
func NewSender(recv *receiver.Receiver) *Sender {
	if recv == nil {
		panic("inmem: receiver must be non-nil")
	}
	return &Sender{recv: recv}
}

func (s *Sender) Send(ctx context.Context, mc courier.MessageContext) (courier.Receipt, error) {
	msg := mc.Request()
	headers := make(map[string]string, len(msg.HeaderNames()))
	for _, name := range msg.HeaderNames() {
		if value, ok := msg.Header(name); ok {
			headers[name] = value
		}
	}
	tr := transport.NewRequest(mc.TransportRequest().Destination(), headers, msg.Payload())

	var rb transport.ResponseBuffer
	if err := s.recv.Receive(ctx, tr, &rb); err != nil {
		return nil, &courier.TransportError{Destination: tr.Destination(), Err: err}
	}
	if !rb.Written() {
		return nil, nil
	}
	return transport.NewReceipt(rb.Headers(), rb.Bytes()), nil
}
