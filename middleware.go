package courier

import (
	"context"
)

// Handler processes one exchange described by its message context.
type Handler func(ctx context.Context, mc MessageContext) error

// Middleware wraps a Handler with cross-cutting behavior.
type Middleware func(handler Handler) Handler

// Chain composes middlewares into one, the first listed being outermost.
func Chain(ms ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(ms) - 1; i >= 0; i-- {
			next = ms[i](next)
		}
		return next
	}
}
