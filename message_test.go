package courier

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainMessageHeaders(t *testing.T) {
	msg := NewMessageFactory().NewMessage()

	if _, ok := msg.Header("absent"); ok {
		t.Errorf("expect no header before any set")
	}
	if names := msg.HeaderNames(); len(names) != 0 {
		t.Errorf("expect no header names, got %v", names)
	}

	msg.SetHeader("b", "2")
	msg.SetHeader("a", "1")
	msg.SetHeader("a", "overwritten")

	value, ok := msg.Header("a")
	assert.True(t, ok)
	assert.Equal(t, "overwritten", value)
	assert.Equal(t, []string{"a", "b"}, msg.HeaderNames())
}

func TestPlainMessagePayload(t *testing.T) {
	msg := NewMessageFactory().NewMessage()

	if msg.Payload() != nil {
		t.Errorf("expect empty payload, got %q", msg.Payload())
	}

	msg.SetPayload([]byte("ping"))
	assert.Equal(t, []byte("ping"), msg.Payload())
}

func TestReadMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "payload", body: "ping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessageFactory().ReadMessage(strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			assert.Equal(t, tt.body, string(msg.Payload()))
		})
	}
}

func TestReadMessageNilReader(t *testing.T) {
	msg, err := NewMessageFactory().ReadMessage(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(msg.Payload()) != 0 {
		t.Errorf("expect empty payload, got %q", msg.Payload())
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		payload string
	}{
		{name: "full", headers: map[string]string{"Content-Type": "application/json", "trace": "abc-1"}, payload: `{"id":1}`},
		{name: "noHeaders", payload: "ping"},
		{name: "noPayload", headers: map[string]string{"kind": "ack"}},
		{name: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := NewMessageFactory()
			msg := factory.NewMessage()
			for name, value := range tt.headers {
				msg.SetHeader(name, value)
			}
			msg.SetPayload([]byte(tt.payload))

			var buf bytes.Buffer
			written, err := msg.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(buf.Len()), written)

			got := factory.NewMessage()
			read, err := got.ReadFrom(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, written, read)

			assert.Equal(t, tt.payload, string(got.Payload()))
			assert.Len(t, got.HeaderNames(), len(tt.headers))
			for name, value := range tt.headers {
				v, ok := got.Header(name)
				assert.True(t, ok)
				assert.Equal(t, value, v)
			}
		})
	}
}

func TestEnvelopeReadFromTruncated(t *testing.T) {
	msg := NewMessageFactory().NewMessage()
	msg.SetHeader("a", "1")
	msg.SetPayload([]byte("ping"))

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	full := buf.Bytes()
	for cut := 0; cut < len(full); cut++ {
		got := NewMessageFactory().NewMessage()
		if _, err := got.ReadFrom(bytes.NewReader(full[:cut])); err == nil {
			t.Fatalf("expect error reading %d of %d bytes", cut, len(full))
		}
	}
}

func TestEnvelopeReadFromReplacesState(t *testing.T) {
	msg := NewMessageFactory().NewMessage()
	msg.SetHeader("stale", "1")
	msg.SetPayload([]byte("stale"))

	fresh := NewMessageFactory().NewMessage()
	fresh.SetHeader("kind", "ack")
	var buf bytes.Buffer
	if _, err := fresh.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	if _, err := msg.ReadFrom(&buf); err != nil {
		t.Fatal(err)
	}
	if _, ok := msg.Header("stale"); ok {
		t.Error("expect stale header replaced")
	}
	assert.Equal(t, []string{"kind"}, msg.HeaderNames())
	assert.Empty(t, msg.Payload())
}
