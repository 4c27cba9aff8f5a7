package codec

import (
	"encoding/xml"
	"reflect"
)

// NewXMLWithType returns an XML codec. XML always needs a concrete
// target type, so there is no map-mode constructor.
func NewXMLWithType(prototype interface{}) Codec {
	return &xmlCodec{typ: parseType(prototype)}
}

type xmlCodec struct {
	typ reflect.Type
}

var _ Codec = (*xmlCodec)(nil)

func (*xmlCodec) Name() string {
	return "xml"
}

func (*xmlCodec) ContentType() string {
	return "text/xml"
}

func (*xmlCodec) Marshal(v interface{}) ([]byte, error) {
	return xml.Marshal(v)
}

func (c *xmlCodec) Unmarshal(data []byte) (interface{}, error) {
	v := reflect.New(c.typ).Interface()
	if err := xml.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}
