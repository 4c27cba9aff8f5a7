// Package receiver drives the inbound side of an exchange: it builds a
// message context from a transport request, runs an endpoint through
// the middleware chain and transmits the response if one was produced.
package receiver

import (
	"context"

	"github.com/courierkit/courier"
	"github.com/courierkit/courier/log"
)

// Endpoint handles one inbound exchange, filling the context's response
// when it has one to give.
type Endpoint func(ctx context.Context, mc courier.MessageContext) error

// Router picks the endpoint for an inbound exchange, typically off a
// request header or the destination.
type Router func(ctx context.Context, mc courier.MessageContext) (Endpoint, error)

// PayloadEndpoint adapts a body-in/body-out function. A nil reply
// leaves the response absent.
func PayloadEndpoint(fn func(ctx context.Context, payload []byte) ([]byte, error)) Endpoint {
	return func(ctx context.Context, mc courier.MessageContext) error {
		reply, err := fn(ctx, mc.Request().Payload())
		if err != nil {
			return err
		}
		if reply == nil {
			return nil
		}
		mc.Response().SetPayload(reply)
		return nil
	}
}

// Receiver answers inbound transport requests.
type Receiver struct {
	contexts courier.MessageContextFactory
	route    Router
	mws      []courier.Middleware
	handler  courier.Handler
}

// Option configures a Receiver.
type Option func(r *Receiver)

// WithMessageFactory replaces the default message factory.
func WithMessageFactory(mf courier.MessageFactory) Option {
	return func(r *Receiver) {
		r.contexts = courier.NewMessageContextFactory(mf)
	}
}

// WithContextFactory replaces the message context factory.
func WithContextFactory(cf courier.MessageContextFactory) Option {
	return func(r *Receiver) {
		r.contexts = cf
	}
}

// WithMiddleware appends middlewares to the inbound chain in invocation
// order.
func WithMiddleware(ms ...courier.Middleware) Option {
	return func(r *Receiver) {
		r.mws = append(r.mws, ms...)
	}
}

// New builds a Receiver serving every exchange with endpoint.
func New(endpoint Endpoint, opts ...Option) *Receiver {
	if endpoint == nil {
		panic("receiver: endpoint must be non-nil")
	}
	return newReceiver(func(context.Context, courier.MessageContext) (Endpoint, error) {
		return endpoint, nil
	}, opts)
}

// NewRouted builds a Receiver that picks the endpoint per exchange.
func NewRouted(route Router, opts ...Option) *Receiver {
	if route == nil {
		panic("receiver: router must be non-nil")
	}
	return newReceiver(route, opts)
}

func newReceiver(route Router, opts []Option) *Receiver {
	r := &Receiver{route: route}
	for _, opt := range opts {
		opt(r)
	}
	if r.contexts == nil {
		r.contexts = courier.NewMessageContextFactory(nil)
	}
	r.handler = courier.Chain(r.mws...)(r.serve)
	return r
}

// Receive answers one exchange. Endpoint and middleware errors come
// back to the transport adapter, which decides how to fault.
func (r *Receiver) Receive(ctx context.Context, tr courier.TransportRequest, tw courier.TransportResponse) error {
	mc, err := r.contexts.CreateContext(tr)
	if err != nil {
		return err
	}
	if err = r.handler(ctx, mc); err != nil {
		return err
	}
	if !mc.HasResponse() {
		log.Debugw("msg", "exchange produced no response", "destination", tr.Destination())
		return nil
	}
	return mc.SendResponse(tw)
}

func (r *Receiver) serve(ctx context.Context, mc courier.MessageContext) error {
	endpoint, err := r.route(ctx, mc)
	if err != nil {
		return err
	}
	return endpoint(ctx, mc)
}
