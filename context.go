package courier

import (
	"errors"
	"sort"
)

// MessageContext carries one request/response exchange: the request
// message, the lazily created response, the originating transport
// request and a property bag shared by middlewares across phases.
//
// A context belongs to the goroutine driving its exchange and must not
// be shared while the exchange is in flight.
type MessageContext interface {
	// Request returns the request message. It never returns nil.
	Request() Message

	// Response returns the response message, creating an empty one on
	// first use. Once created the same message is returned for the rest
	// of the context's life.
	Response() Message

	// HasResponse reports whether a response message has been created,
	// without creating one.
	HasResponse() bool

	// TransportRequest returns the transport request this context was
	// built from.
	TransportRequest() TransportRequest

	// SendResponse writes the response message to tw. It does nothing
	// when no response has been created, and fails with
	// ErrResponseAlreadySent on the second attempt.
	SendResponse(tw TransportResponse) error

	SetProperty(name string, value interface{})

	Property(name string) (value interface{}, exists bool)

	RemoveProperty(name string)

	ContainsProperty(name string) bool

	// PropertyNames returns the property names in sorted order.
	PropertyNames() []string
}

// MessageContextFactory is the sole construction path for message
// contexts.
type MessageContextFactory interface {
	CreateContext(tr TransportRequest) (MessageContext, error)
}

// NewMessageContextFactory returns a factory that reads the request
// message out of the transport request using mf. A nil mf falls back to
// NewMessageFactory.
func NewMessageContextFactory(mf MessageFactory) MessageContextFactory {
	if mf == nil {
		mf = NewMessageFactory()
	}
	return &contextFactory{messages: mf}
}

type contextFactory struct {
	messages MessageFactory
}

var _ MessageContextFactory = (*contextFactory)(nil)

func (f *contextFactory) CreateContext(tr TransportRequest) (MessageContext, error) {
	if tr == nil {
		return nil, errors.New("courier: transport request must be non-nil")
	}
	request, err := f.messages.ReadMessage(tr.Reader())
	if err != nil {
		return nil, &TransportError{Destination: tr.Destination(), Err: err}
	}
	for _, name := range tr.HeaderNames() {
		if value, ok := tr.Header(name); ok {
			request.SetHeader(name, value)
		}
	}
	return &messageContext{
		request:   request,
		transport: tr,
		messages:  f.messages,
	}, nil
}

// responseState tracks the response through its life: absent until
// Response is first called, created until SendResponse runs, then sent.
type responseState uint8

const (
	responseAbsent responseState = iota
	responseCreated
	responseSent
)

type messageContext struct {
	request   Message
	response  Message
	state     responseState
	transport TransportRequest
	messages  MessageFactory
	props     map[string]interface{}
}

var _ MessageContext = (*messageContext)(nil)

func (c *messageContext) Request() Message {
	return c.request
}

func (c *messageContext) Response() Message {
	if c.state == responseAbsent {
		c.response = c.messages.NewMessage()
		c.state = responseCreated
	}
	return c.response
}

func (c *messageContext) HasResponse() bool {
	return c.state != responseAbsent
}

func (c *messageContext) TransportRequest() TransportRequest {
	return c.transport
}

func (c *messageContext) SendResponse(tw TransportResponse) error {
	switch c.state {
	case responseAbsent:
		return nil
	case responseSent:
		return ErrResponseAlreadySent
	}
	// sent is terminal even when the write fails: a half-written
	// response must not be transmitted again.
	c.state = responseSent
	for _, name := range c.response.HeaderNames() {
		if value, ok := c.response.Header(name); ok {
			tw.SetHeader(name, value)
		}
	}
	if _, err := tw.Writer().Write(c.response.Payload()); err != nil {
		return &TransportError{Err: err}
	}
	return nil
}

func (c *messageContext) SetProperty(name string, value interface{}) {
	if c.props == nil {
		c.props = make(map[string]interface{})
	}
	c.props[name] = value
}

func (c *messageContext) Property(name string) (interface{}, bool) {
	value, ok := c.props[name]
	return value, ok
}

func (c *messageContext) RemoveProperty(name string) {
	delete(c.props, name)
}

func (c *messageContext) ContainsProperty(name string) bool {
	_, ok := c.props[name]
	return ok
}

func (c *messageContext) PropertyNames() []string {
	if len(c.props) == 0 {
		return nil
	}
	names := make([]string, 0, len(c.props))
	for name := range c.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
