package courier

import (
	"github.com/courierkit/courier/codec"
	"github.com/courierkit/courier/destination"
)

// Option configures a Client before first use.
type Option func(c *Client)

// WithMessageFactory replaces the default message factory.
func WithMessageFactory(mf MessageFactory) Option {
	return func(c *Client) {
		c.messages = mf
	}
}

// WithContextFactory replaces the message context factory. Most callers
// only need WithMessageFactory; this hook exists for contexts with
// extra construction behavior.
func WithContextFactory(cf MessageContextFactory) Option {
	return func(c *Client) {
		c.contexts = cf
	}
}

// WithCodec sets the codec the marshalling operations use.
func WithCodec(cd codec.Codec) Option {
	return func(c *Client) {
		c.codec = cd
	}
}

// WithDestination sets the default destination URI.
func WithDestination(uri string) Option {
	return func(c *Client) {
		c.provider = destination.Static(uri)
	}
}

// WithDestinationProvider resolves the default destination per exchange,
// e.g. from a service registry.
func WithDestinationProvider(p destination.Provider) Option {
	return func(c *Client) {
		c.provider = p
	}
}

// WithMiddleware appends middlewares to the dispatch chain in
// invocation order.
func WithMiddleware(ms ...Middleware) Option {
	return func(c *Client) {
		c.mws = append(c.mws, ms...)
	}
}
