package codec

import (
	"errors"

	"google.golang.org/protobuf/proto"
)

// ErrNotProtoMessage reports a Marshal argument that is not a protobuf
// message.
var ErrNotProtoMessage = errors.New("codec: value is not a proto.Message")

// NewProto returns a protobuf codec producing fresh messages of
// prototype's type on unmarshal.
func NewProto(prototype proto.Message) Codec {
	if prototype == nil {
		panic("codec: prototype must be non-nil")
	}
	return &protoCodec{prototype: prototype}
}

type protoCodec struct {
	prototype proto.Message
}

var _ Codec = (*protoCodec)(nil)

func (*protoCodec) Name() string {
	return "proto"
}

func (*protoCodec) ContentType() string {
	return "application/x-protobuf"
}

func (*protoCodec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, ErrNotProtoMessage
	}
	return proto.Marshal(m)
}

func (c *protoCodec) Unmarshal(data []byte) (interface{}, error) {
	m := c.prototype.ProtoReflect().New().Interface()
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
