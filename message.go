package courier

import (
	"encoding/binary"
	"io"
	"sort"
)

// ContentTypeHeader is the transport property naming the payload format.
const ContentTypeHeader = "Content-Type"

// Message is one unit of exchange: an opaque payload plus string-valued
// transport properties. Implementations are not safe for concurrent use.
//
// WriteTo and ReadFrom carry the envelope form, the single-blob
// serialization used where the transport has no header channel of its
// own: a big-endian header count, length-prefixed name/value pairs in
// sorted name order, then the length-prefixed payload.
type Message interface {
	Payload() []byte

	SetPayload(payload []byte)

	Header(name string) (value string, exists bool)

	SetHeader(name, value string)

	// HeaderNames returns the header names in sorted order.
	HeaderNames() []string

	io.WriterTo
	io.ReaderFrom
}

// MessageFactory builds the messages a MessageContext hands out.
type MessageFactory interface {
	// NewMessage returns an empty message.
	NewMessage() Message

	// ReadMessage returns a message whose payload is everything r yields.
	ReadMessage(r io.Reader) (Message, error)
}

// NewMessageFactory returns the default factory producing in-memory messages.
func NewMessageFactory() MessageFactory {
	return plainFactory{}
}

type plainFactory struct{}

var _ MessageFactory = plainFactory{}

func (plainFactory) NewMessage() Message {
	return &plainMessage{}
}

func (plainFactory) ReadMessage(r io.Reader) (Message, error) {
	m := &plainMessage{}
	if r == nil {
		return m, nil
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(payload) > 0 {
		m.payload = payload
	}
	return m, nil
}

type plainMessage struct {
	payload []byte
	headers map[string]string
}

var _ Message = (*plainMessage)(nil)

func (m *plainMessage) Payload() []byte {
	return m.payload
}

func (m *plainMessage) SetPayload(payload []byte) {
	m.payload = payload
}

func (m *plainMessage) Header(name string) (string, bool) {
	value, ok := m.headers[name]
	return value, ok
}

func (m *plainMessage) SetHeader(name, value string) {
	if m.headers == nil {
		m.headers = make(map[string]string)
	}
	m.headers[name] = value
}

func (m *plainMessage) HeaderNames() []string {
	if len(m.headers) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.headers))
	for name := range m.headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *plainMessage) WriteTo(w io.Writer) (int64, error) {
	size := 2 + 4 + len(m.payload)
	for name, value := range m.headers {
		size += 4 + len(name) + len(value)
	}
	buf := make([]byte, 0, size)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(m.headers)))
	for _, name := range m.HeaderNames() {
		buf = appendEnvelopeString(buf, name)
		buf = appendEnvelopeString(buf, m.headers[name])
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(m.payload)))
	buf = append(buf, m.payload...)

	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom consumes exactly one envelope from r, replacing the headers
// and payload in place.
func (m *plainMessage) ReadFrom(r io.Reader) (int64, error) {
	var read int64
	var u16 [2]byte
	var u32 [4]byte

	n, err := io.ReadFull(r, u16[:])
	read += int64(n)
	if err != nil {
		return read, err
	}
	count := int(binary.BigEndian.Uint16(u16[:]))

	var headers map[string]string
	if count > 0 {
		headers = make(map[string]string, count)
	}
	for i := 0; i < count; i++ {
		name, rn, err := readEnvelopeString(r)
		read += rn
		if err != nil {
			return read, err
		}
		value, rn, err := readEnvelopeString(r)
		read += rn
		if err != nil {
			return read, err
		}
		headers[name] = value
	}

	n, err = io.ReadFull(r, u32[:])
	read += int64(n)
	if err != nil {
		return read, err
	}
	var payload []byte
	if size := binary.BigEndian.Uint32(u32[:]); size > 0 {
		payload = make([]byte, size)
		n, err = io.ReadFull(r, payload)
		read += int64(n)
		if err != nil {
			return read, err
		}
	}

	m.headers = headers
	m.payload = payload
	return read, nil
}

func appendEnvelopeString(buf []byte, s string) []byte {
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(s)))
	return append(buf, s...)
}

func readEnvelopeString(r io.Reader) (string, int64, error) {
	var u16 [2]byte
	n, err := io.ReadFull(r, u16[:])
	if err != nil {
		return "", int64(n), err
	}
	buf := make([]byte, binary.BigEndian.Uint16(u16[:]))
	rn, err := io.ReadFull(r, buf)
	return string(buf[:rn]), int64(n) + int64(rn), err
}
