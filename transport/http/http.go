// Package http performs exchanges as HTTP POSTs: message headers map to
// HTTP headers in both directions, a 2xx body comes back as the
// response, and an empty body or 204 means the far side answered
// without one.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/courierkit/courier"
	"github.com/courierkit/courier/log"
	"github.com/courierkit/courier/receiver"
	"github.com/courierkit/courier/transport"
)

// DefaultTimeout caps a round trip when no client is supplied.
const DefaultTimeout = 30 * time.Second

// Sender is the sending half of the adapter.
type Sender struct {
	client *http.Client
}

var _ courier.Sender = (*Sender)(nil)

// Option configures a Sender.
type Option func(s *Sender)

// WithClient replaces the underlying HTTP client.
func WithClient(client *http.Client) Option {
	return func(s *Sender) {
		s.client = client
	}
}

// NewSender builds a Sender with a DefaultTimeout-capped client unless
// WithClient replaces it.
func NewSender(opts ...Option) *Sender {
	s := &Sender{client: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sender) Send(ctx context.Context, mc courier.MessageContext) (courier.Receipt, error) {
	msg := mc.Request()
	dest := mc.TransportRequest().Destination()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, dest, bytes.NewReader(msg.Payload()))
	if err != nil {
		return nil, &courier.TransportError{Destination: dest, Err: err}
	}
	for _, name := range msg.HeaderNames() {
		if value, ok := msg.Header(name); ok {
			req.Header.Set(name, value)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &courier.TransportError{Destination: dest, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &courier.TransportError{Destination: dest, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &courier.TransportError{Destination: dest, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return nil, nil
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}
	return transport.NewReceipt(headers, body), nil
}

// Handler adapts a Receiver to net/http. The request body and headers
// become the transport request, the response comes back in the HTTP
// response, and an absent response maps to 204.
func Handler(recv *receiver.Receiver) http.Handler {
	if recv == nil {
		panic("http: receiver must be non-nil")
	}
	return &handler{recv: recv}
}

type handler struct {
	recv *receiver.Receiver
}

func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	headers := make(map[string]string, len(req.Header))
	for name := range req.Header {
		headers[name] = req.Header.Get(name)
	}
	tr := transport.NewRequest(req.URL.String(), headers, body)

	var rb transport.ResponseBuffer
	if err = h.recv.Receive(req.Context(), tr, &rb); err != nil {
		log.Errorw("msg", "exchange failed", "destination", tr.Destination(), "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !rb.Written() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	for name, value := range rb.Headers() {
		w.Header().Set(name, value)
	}
	_, _ = w.Write(rb.Bytes())
}
