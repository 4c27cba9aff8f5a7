package courier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	var steps []string

	h := func(ctx context.Context, mc MessageContext) error {
		steps = append(steps, "handler")
		return nil
	}

	err := Chain(tracer("first", &steps), tracer("second", &steps), tracer("third", &steps))(h)(context.Background(), nil)
	if err != nil {
		t.Errorf("expect %v, got %v", nil, err)
	}

	assert.Equal(t, []string{
		"first before", "second before", "third before",
		"handler",
		"third after", "second after", "first after",
	}, steps)
}

func TestChainEmpty(t *testing.T) {
	called := false
	h := func(ctx context.Context, mc MessageContext) error {
		called = true
		return nil
	}

	if err := Chain()(h)(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("expect handler to run under an empty chain")
	}
}

func tracer(name string, steps *[]string) Middleware {
	return func(handler Handler) Handler {
		return func(ctx context.Context, mc MessageContext) error {
			*steps = append(*steps, name+" before")

			err := handler(ctx, mc)

			*steps = append(*steps, name+" after")
			return err
		}
	}
}
