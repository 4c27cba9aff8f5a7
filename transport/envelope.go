package transport

import (
	"bytes"

	"github.com/courierkit/courier"
)

// The envelope is the single-blob wire form queue transports move
// around. The layout is the message envelope form; these helpers exist
// for adapters that hold bare header maps instead of messages.

var messages = courier.NewMessageFactory()

// EncodeEnvelope serializes headers and body into one blob.
func EncodeEnvelope(headers map[string]string, body []byte) []byte {
	msg := messages.NewMessage()
	for name, value := range headers {
		msg.SetHeader(name, value)
	}
	msg.SetPayload(body)

	var buf bytes.Buffer
	// a bytes.Buffer write cannot fail
	_, _ = msg.WriteTo(&buf)
	return buf.Bytes()
}

// DecodeEnvelope parses a blob produced by EncodeEnvelope.
func DecodeEnvelope(data []byte) (map[string]string, []byte, error) {
	msg := messages.NewMessage()
	if _, err := msg.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, nil, err
	}

	names := msg.HeaderNames()
	var headers map[string]string
	if len(names) > 0 {
		headers = make(map[string]string, len(names))
	}
	for _, name := range names {
		value, _ := msg.Header(name)
		headers[name] = value
	}
	return headers, msg.Payload(), nil
}
