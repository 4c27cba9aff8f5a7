package courier

import (
	"fmt"
	"io"

	"github.com/courierkit/courier/codec"
)

// MessageCallback mutates a message, typically to fill a request before
// transmission or to inspect a response after it.
type MessageCallback func(msg Message) error

// MessageExtractor converts a response message into a caller value.
type MessageExtractor func(msg Message) (interface{}, error)

// PayloadExtractor converts a response payload stream into a caller
// value.
type PayloadExtractor func(r io.Reader) (interface{}, error)

// Extract adapts cd into a MessageExtractor yielding *T. The codec must
// be configured to decode into T, typically via its prototype.
func Extract[T any](cd codec.Codec) MessageExtractor {
	if cd == nil {
		panic("courier: codec must be non-nil")
	}
	return func(msg Message) (interface{}, error) {
		v, err := cd.Unmarshal(msg.Payload())
		if err != nil {
			return nil, &CodecError{Codec: cd.Name(), Op: "unmarshal", Err: err}
		}
		out, ok := v.(*T)
		if !ok {
			return nil, &CodecError{Codec: cd.Name(), Op: "unmarshal", Err: fmt.Errorf("decoded %T, want %T", v, (*T)(nil))}
		}
		return out, nil
	}
}
