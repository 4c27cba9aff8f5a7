package destination

import "context"

// Provider yields the destination URI for an outbound exchange.
type Provider interface {
	Destination(ctx context.Context) (string, error)
}

// Func adapts a plain function to a Provider.
type Func func(ctx context.Context) (string, error)

func (f Func) Destination(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static returns a Provider that always yields uri.
func Static(uri string) Provider {
	return Func(func(context.Context) (string, error) {
		return uri, nil
	})
}
