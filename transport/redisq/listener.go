package redisq

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/courierkit/courier/log"
	"github.com/courierkit/courier/pkg/gopool"
	"github.com/courierkit/courier/receiver"
	"github.com/courierkit/courier/transport"
)

// popTimeout keeps the consume loop responsive to ctx while blocked on
// an idle queue.
const popTimeout = time.Second

// Listener consumes request envelopes from a queue and answers them
// through a Receiver on the shared worker pool.
type Listener struct {
	rdb   *redis.Client
	cfg   Config
	queue string
	recv  *receiver.Receiver
}

// NewListener connects to redis with cfg and prepares to consume queue.
func NewListener(cfg Config, queue string, recv *receiver.Receiver) (*Listener, error) {
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if queue == "" {
		return nil, errors.New("redisq: queue must be non-empty")
	}
	if recv == nil {
		return nil, errors.New("redisq: receiver must be non-nil")
	}
	gopool.Init(cfg.PoolSize)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Listener{rdb: rdb, cfg: cfg, queue: queue, recv: recv}, nil
}

func (l *Listener) Close() error {
	return l.rdb.Close()
}

// Run consumes the queue until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	log.Infow("msg", "redisq listener started", "queue", l.queue)
	for {
		reply, err := l.rdb.BLPop(ctx, popTimeout, l.queue).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				log.Infow("msg", "redisq listener stopped", "queue", l.queue)
				return ctx.Err()
			}
			log.Errorw("msg", "queue pop failed", "queue", l.queue, "err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(popTimeout):
			}
			continue
		}
		data := []byte(reply[1])
		gopool.Submit(func() {
			l.handle(ctx, data)
		})
	}
}

func (l *Listener) handle(ctx context.Context, data []byte) {
	headers, body, err := transport.DecodeEnvelope(data)
	if err != nil {
		log.Errorw("msg", "bad request envelope", "queue", l.queue, "err", err)
		return
	}
	replyTo := headers[replyToHeader]
	delete(headers, replyToHeader)

	tr := transport.NewRequest(l.queue, headers, body)
	var rb transport.ResponseBuffer
	rcvErr := l.recv.Receive(ctx, tr, &rb)
	if rcvErr != nil {
		log.Errorw("msg", "exchange failed", "queue", l.queue, "err", rcvErr)
	}
	if replyTo == "" {
		return
	}

	reply := buildReply(rcvErr, &rb)
	if err = l.rdb.RPush(ctx, replyTo, reply).Err(); err != nil {
		log.Errorw("msg", "reply push failed", "queue", l.queue, "err", err)
		return
	}
	// the reply key dies with its caller
	l.rdb.Expire(ctx, replyTo, l.cfg.ReplyTimeout)
}

// buildReply encodes the outcome of an exchange for the reply list: the
// endpoint error, the buffered response, or a no-content marker.
func buildReply(rcvErr error, rb *transport.ResponseBuffer) []byte {
	switch {
	case rcvErr != nil:
		return transport.EncodeEnvelope(map[string]string{errorHeader: rcvErr.Error()}, nil)
	case rb.Written():
		return transport.EncodeEnvelope(rb.Headers(), rb.Bytes())
	default:
		return transport.EncodeEnvelope(map[string]string{noContentHeader: "1"}, nil)
	}
}
