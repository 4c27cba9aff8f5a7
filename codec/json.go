package codec

import (
	"encoding/json"
	"reflect"
)

// NewJSON returns a JSON codec that unmarshals into a map.
func NewJSON() Codec {
	return &jsonCodec{}
}

// NewJSONWithType returns a JSON codec that unmarshals into a fresh
// value of prototype's type, which beats the map path on both speed and
// ergonomics.
func NewJSONWithType(prototype interface{}) Codec {
	return &jsonCodec{typ: parseType(prototype)}
}

type jsonCodec struct {
	typ reflect.Type
}

var _ Codec = (*jsonCodec)(nil)

func (*jsonCodec) Name() string {
	return "json"
}

func (*jsonCodec) ContentType() string {
	return "application/json"
}

func (*jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c *jsonCodec) Unmarshal(data []byte) (interface{}, error) {
	if c.typ != nil {
		v := reflect.New(c.typ).Interface()
		if err := json.Unmarshal(data, v); err != nil {
			return nil, err
		}
		return v, nil
	}

	// unmarshal to map
	v := make(map[string]interface{})
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseType(prototype interface{}) reflect.Type {
	if prototype == nil {
		panic("codec: prototype must be non-nil")
	}

	if reflect.TypeOf(prototype).Kind() == reflect.Ptr {
		return reflect.Indirect(reflect.ValueOf(prototype)).Type()
	}
	return reflect.TypeOf(prototype)
}
