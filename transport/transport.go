// Package transport carries the in-memory building blocks adapters
// share: ready-made TransportRequest and Receipt values, a response
// buffer, and the envelope wire form for queue transports.
package transport

import (
	"bytes"
	"io"
	"sort"

	"github.com/courierkit/courier"
)

// NewRequest builds a TransportRequest from parts already in memory.
func NewRequest(destination string, headers map[string]string, body []byte) courier.TransportRequest {
	return &request{destination: destination, headers: headers, body: body}
}

type request struct {
	destination string
	headers     map[string]string
	body        []byte
}

var _ courier.TransportRequest = (*request)(nil)

func (r *request) Destination() string {
	return r.destination
}

func (r *request) Header(name string) (string, bool) {
	value, ok := r.headers[name]
	return value, ok
}

func (r *request) HeaderNames() []string {
	return headerNames(r.headers)
}

func (r *request) Reader() io.Reader {
	return bytes.NewReader(r.body)
}

// NewReceipt builds a Receipt from parts already in memory.
func NewReceipt(headers map[string]string, body []byte) courier.Receipt {
	return &receipt{headers: headers, body: body}
}

type receipt struct {
	headers map[string]string
	body    []byte
}

var _ courier.Receipt = (*receipt)(nil)

func (r *receipt) Header(name string) (string, bool) {
	value, ok := r.headers[name]
	return value, ok
}

func (r *receipt) HeaderNames() []string {
	return headerNames(r.headers)
}

func (r *receipt) Reader() io.Reader {
	return bytes.NewReader(r.body)
}

// ResponseBuffer collects a response in memory so an adapter can ship
// it once the exchange finishes. The zero value is ready to use.
type ResponseBuffer struct {
	headers map[string]string
	buf     bytes.Buffer
	written bool
}

var _ courier.TransportResponse = (*ResponseBuffer)(nil)

func (b *ResponseBuffer) SetHeader(name, value string) {
	if b.headers == nil {
		b.headers = make(map[string]string)
	}
	b.headers[name] = value
	b.written = true
}

func (b *ResponseBuffer) Writer() io.Writer {
	return responseWriter{b: b}
}

// Written reports whether a response was transmitted into the buffer,
// even an empty one.
func (b *ResponseBuffer) Written() bool {
	return b.written
}

// Headers returns the collected headers. Callers must not mutate them.
func (b *ResponseBuffer) Headers() map[string]string {
	return b.headers
}

// Bytes returns the collected body.
func (b *ResponseBuffer) Bytes() []byte {
	return b.buf.Bytes()
}

type responseWriter struct {
	b *ResponseBuffer
}

func (w responseWriter) Write(p []byte) (int, error) {
	w.b.written = true
	return w.b.buf.Write(p)
}

func headerNames(headers map[string]string) []string {
	if len(headers) == 0 {
		return nil
	}
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
