package courier

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/courierkit/courier/codec"
	"github.com/courierkit/courier/destination"
	"github.com/courierkit/courier/log"
)

// Operations is the send-side surface of Client, split out so calling
// code can be tested against a stub.
//
// Every operation comes in a pair: the short form resolves the client's
// default destination, the To form addresses an explicit one. All of
// them block until the exchange finishes or ctx is done, and all of
// them report "the far side answered nothing" as a nil value or a
// false received flag rather than an error.
type Operations interface {
	// SendAndReceive composes a request through req, transmits it and
	// hands the response message to ext. It returns nil when the
	// exchange produced no response.
	SendAndReceive(ctx context.Context, req MessageCallback, ext MessageExtractor) (interface{}, error)
	SendAndReceiveTo(ctx context.Context, dest string, req MessageCallback, ext MessageExtractor) (interface{}, error)

	// SendAndHandle is SendAndReceive for callers that want to inspect
	// the response in place. The bool reports whether a response came
	// back; resp runs only when it did.
	SendAndHandle(ctx context.Context, req MessageCallback, resp MessageCallback) (bool, error)
	SendAndHandleTo(ctx context.Context, dest string, req MessageCallback, resp MessageCallback) (bool, error)

	// MarshalSendAndReceive marshals payload with the client's codec,
	// transmits it and unmarshals the response, which the codec
	// allocates. Callbacks run after marshalling, in order.
	MarshalSendAndReceive(ctx context.Context, payload interface{}, callbacks ...MessageCallback) (interface{}, error)
	MarshalSendAndReceiveTo(ctx context.Context, dest string, payload interface{}, callbacks ...MessageCallback) (interface{}, error)

	// SendPayloadAndReceive transmits payload as the request body and
	// hands the response body to ext.
	SendPayloadAndReceive(ctx context.Context, payload io.Reader, ext PayloadExtractor, callbacks ...MessageCallback) (interface{}, error)
	SendPayloadAndReceiveTo(ctx context.Context, dest string, payload io.Reader, ext PayloadExtractor, callbacks ...MessageCallback) (interface{}, error)

	// SendPayloadAndReceiveResult transmits payload as the request body
	// and copies the response body into result. The bool reports
	// whether a response came back.
	SendPayloadAndReceiveResult(ctx context.Context, payload io.Reader, result io.Writer, callbacks ...MessageCallback) (bool, error)
	SendPayloadAndReceiveResultTo(ctx context.Context, dest string, payload io.Reader, result io.Writer, callbacks ...MessageCallback) (bool, error)
}

// Client dispatches request/response exchanges over a Sender. It is
// immutable after New and safe for concurrent use.
type Client struct {
	sender   Sender
	messages MessageFactory
	contexts MessageContextFactory
	codec    codec.Codec
	provider destination.Provider
	mws      []Middleware
	handler  Handler
}

var _ Operations = (*Client)(nil)

// New builds a Client around the given transport sender.
func New(sender Sender, ops ...Option) *Client {
	if sender == nil {
		panic("courier: sender must be non-nil")
	}
	c := &Client{sender: sender}
	for _, op := range ops {
		op(c)
	}
	if c.messages == nil {
		c.messages = NewMessageFactory()
	}
	if c.contexts == nil {
		c.contexts = NewMessageContextFactory(c.messages)
	}
	c.handler = Chain(c.mws...)(c.exchange)
	return c
}

func (c *Client) SendAndReceive(ctx context.Context, req MessageCallback, ext MessageExtractor) (interface{}, error) {
	dest, err := c.destination(ctx)
	if err != nil {
		return nil, err
	}
	return c.SendAndReceiveTo(ctx, dest, req, ext)
}

func (c *Client) SendAndReceiveTo(ctx context.Context, dest string, req MessageCallback, ext MessageExtractor) (interface{}, error) {
	if ext == nil {
		panic("courier: message extractor must be non-nil")
	}
	mc, err := c.dispatch(ctx, dest, req)
	if err != nil {
		return nil, err
	}
	if !mc.HasResponse() {
		return nil, nil
	}
	return ext(mc.Response())
}

func (c *Client) SendAndHandle(ctx context.Context, req MessageCallback, resp MessageCallback) (bool, error) {
	dest, err := c.destination(ctx)
	if err != nil {
		return false, err
	}
	return c.SendAndHandleTo(ctx, dest, req, resp)
}

func (c *Client) SendAndHandleTo(ctx context.Context, dest string, req MessageCallback, resp MessageCallback) (bool, error) {
	if resp == nil {
		panic("courier: response callback must be non-nil")
	}
	mc, err := c.dispatch(ctx, dest, req)
	if err != nil {
		return false, err
	}
	if !mc.HasResponse() {
		return false, nil
	}
	if err = resp(mc.Response()); err != nil {
		return true, err
	}
	return true, nil
}

func (c *Client) MarshalSendAndReceive(ctx context.Context, payload interface{}, callbacks ...MessageCallback) (interface{}, error) {
	dest, err := c.destination(ctx)
	if err != nil {
		return nil, err
	}
	return c.MarshalSendAndReceiveTo(ctx, dest, payload, callbacks...)
}

func (c *Client) MarshalSendAndReceiveTo(ctx context.Context, dest string, payload interface{}, callbacks ...MessageCallback) (interface{}, error) {
	if c.codec == nil {
		return nil, ErrNoCodec
	}
	req := func(msg Message) error {
		data, err := c.codec.Marshal(payload)
		if err != nil {
			return &CodecError{Codec: c.codec.Name(), Op: "marshal", Err: err}
		}
		msg.SetPayload(data)
		msg.SetHeader(ContentTypeHeader, c.codec.ContentType())
		return runCallbacks(msg, callbacks)
	}
	ext := func(msg Message) (interface{}, error) {
		v, err := c.codec.Unmarshal(msg.Payload())
		if err != nil {
			return nil, &CodecError{Codec: c.codec.Name(), Op: "unmarshal", Err: err}
		}
		return v, nil
	}
	return c.SendAndReceiveTo(ctx, dest, req, ext)
}

func (c *Client) SendPayloadAndReceive(ctx context.Context, payload io.Reader, ext PayloadExtractor, callbacks ...MessageCallback) (interface{}, error) {
	dest, err := c.destination(ctx)
	if err != nil {
		return nil, err
	}
	return c.SendPayloadAndReceiveTo(ctx, dest, payload, ext, callbacks...)
}

func (c *Client) SendPayloadAndReceiveTo(ctx context.Context, dest string, payload io.Reader, ext PayloadExtractor, callbacks ...MessageCallback) (interface{}, error) {
	if ext == nil {
		panic("courier: payload extractor must be non-nil")
	}
	return c.SendAndReceiveTo(ctx, dest, payloadCallback(payload, callbacks), func(msg Message) (interface{}, error) {
		return ext(bytes.NewReader(msg.Payload()))
	})
}

func (c *Client) SendPayloadAndReceiveResult(ctx context.Context, payload io.Reader, result io.Writer, callbacks ...MessageCallback) (bool, error) {
	dest, err := c.destination(ctx)
	if err != nil {
		return false, err
	}
	return c.SendPayloadAndReceiveResultTo(ctx, dest, payload, result, callbacks...)
}

func (c *Client) SendPayloadAndReceiveResultTo(ctx context.Context, dest string, payload io.Reader, result io.Writer, callbacks ...MessageCallback) (bool, error) {
	if result == nil {
		panic("courier: result writer must be non-nil")
	}
	return c.SendAndHandleTo(ctx, dest, payloadCallback(payload, callbacks), func(msg Message) error {
		_, err := result.Write(msg.Payload())
		return err
	})
}

// destination resolves the default destination for an exchange.
func (c *Client) destination(ctx context.Context) (string, error) {
	if c.provider == nil {
		return "", ErrNoDestination
	}
	return c.provider.Destination(ctx)
}

// dispatch runs the exchange: build the context from a composed
// transport request, fill the request message, then push it through the
// middleware chain into the transport.
func (c *Client) dispatch(ctx context.Context, dest string, req MessageCallback) (MessageContext, error) {
	if dest == "" {
		return nil, ErrNoDestination
	}
	mc, err := c.contexts.CreateContext(&clientRequest{dest: dest})
	if err != nil {
		return nil, err
	}
	if req != nil {
		if err = req(mc.Request()); err != nil {
			return nil, err
		}
	}
	if err = c.handler(ctx, mc); err != nil {
		return nil, err
	}
	return mc, nil
}

// exchange is the innermost handler: it transmits the request and
// materializes the response message from the transport receipt.
func (c *Client) exchange(ctx context.Context, mc MessageContext) error {
	dest := mc.TransportRequest().Destination()
	rcpt, err := c.sender.Send(ctx, mc)
	if err != nil {
		var te *TransportError
		if errors.As(err, &te) {
			return err
		}
		return &TransportError{Destination: dest, Err: err}
	}
	if rcpt == nil {
		log.Debugw("msg", "exchange completed without response", "destination", dest)
		return nil
	}
	payload, err := io.ReadAll(rcpt.Reader())
	if err != nil {
		return &TransportError{Destination: dest, Err: err}
	}
	resp := mc.Response()
	for _, name := range rcpt.HeaderNames() {
		if value, ok := rcpt.Header(name); ok {
			resp.SetHeader(name, value)
		}
	}
	resp.SetPayload(payload)
	return nil
}

// payloadCallback fills the request body from payload, then runs the
// remaining callbacks.
func payloadCallback(payload io.Reader, callbacks []MessageCallback) MessageCallback {
	return func(msg Message) error {
		if payload != nil {
			body, err := io.ReadAll(payload)
			if err != nil {
				return err
			}
			msg.SetPayload(body)
		}
		return runCallbacks(msg, callbacks)
	}
}

func runCallbacks(msg Message, callbacks []MessageCallback) error {
	for _, cb := range callbacks {
		if cb == nil {
			continue
		}
		if err := cb(msg); err != nil {
			return err
		}
	}
	return nil
}

// clientRequest is the transport request composed for an outbound
// exchange: a destination and an empty body.
type clientRequest struct {
	dest string
}

var _ TransportRequest = (*clientRequest)(nil)

func (r *clientRequest) Destination() string { return r.dest }

func (r *clientRequest) Header(string) (string, bool) { return "", false }

func (r *clientRequest) HeaderNames() []string { return nil }

func (r *clientRequest) Reader() io.Reader { return bytes.NewReader(nil) }
