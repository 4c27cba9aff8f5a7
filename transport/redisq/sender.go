package redisq

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/courierkit/courier"
	"github.com/courierkit/courier/transport"
)

// Sender is the sending half of the adapter. The destination URI is the
// name of the request list.
type Sender struct {
	rdb *redis.Client
	cfg Config
}

var _ courier.Sender = (*Sender)(nil)

// NewSender connects to redis with cfg.
func NewSender(cfg Config) (*Sender, error) {
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Sender{rdb: rdb, cfg: cfg}, nil
}

func (s *Sender) Close() error {
	return s.rdb.Close()
}

func (s *Sender) Send(ctx context.Context, mc courier.MessageContext) (courier.Receipt, error) {
	msg := mc.Request()
	dest := mc.TransportRequest().Destination()
	replyTo := replyKey(dest)

	headers := make(map[string]string, len(msg.HeaderNames())+1)
	for _, name := range msg.HeaderNames() {
		if value, ok := msg.Header(name); ok {
			headers[name] = value
		}
	}
	headers[replyToHeader] = replyTo

	envelope := transport.EncodeEnvelope(headers, msg.Payload())
	if err := s.rdb.RPush(ctx, dest, envelope).Err(); err != nil {
		return nil, &courier.TransportError{Destination: dest, Err: err}
	}

	reply, err := s.rdb.BLPop(ctx, s.cfg.ReplyTimeout, replyTo).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// reply wait timed out: an exchange without response
			return nil, nil
		}
		return nil, &courier.TransportError{Destination: dest, Err: err}
	}

	// BLPop yields [key, value]
	return decodeReply(dest, []byte(reply[1]))
}

// decodeReply turns a reply envelope back into the receipt shape the
// listener encoded: a fault, an empty exchange, or a response.
func decodeReply(dest string, data []byte) (courier.Receipt, error) {
	headers, body, err := transport.DecodeEnvelope(data)
	if err != nil {
		return nil, &courier.TransportError{Destination: dest, Err: err}
	}
	if fault, ok := headers[errorHeader]; ok {
		return nil, &courier.TransportError{Destination: dest, Err: errors.New(fault)}
	}
	if _, ok := headers[noContentHeader]; ok {
		return nil, nil
	}
	return transport.NewReceipt(headers, body), nil
}

// replyKey derives the per-call list the sender blocks on. The random
// suffix keeps concurrent calls to the same destination apart.
func replyKey(dest string) string {
	return dest + ":reply:" + callID()
}

func callID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
