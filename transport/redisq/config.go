// Package redisq performs exchanges over redis lists: the request
// envelope is pushed onto the destination list, the reply comes back on
// a per-call reply list. A reply that never arrives inside ReplyTimeout
// counts as an exchange without response, mirroring how receive
// timeouts behave on message queues.
package redisq

import (
	"errors"
	"time"
)

// Reserved envelope headers. They never reach the message layer.
const (
	replyToHeader   = "courier-reply-to"
	noContentHeader = "courier-no-content"
	errorHeader     = "courier-error"
)

// Config carries the connection and queueing settings shared by Sender
// and Listener.
type Config struct {
	// Addr is the redis host:port.
	Addr     string
	Username string
	Password string
	DB       int

	// ReplyTimeout bounds the wait for a reply envelope.
	ReplyTimeout time.Duration

	// PoolSize caps the handler goroutines a Listener runs at once.
	PoolSize int
}

// Defaults fills the zero fields callers left out.
func (c *Config) Defaults() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:6379"
	}
	if c.ReplyTimeout <= 0 {
		c.ReplyTimeout = 30 * time.Second
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 64
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("redisq: addr must be non-empty")
	}
	if c.ReplyTimeout <= 0 {
		return errors.New("redisq: reply timeout must be positive")
	}
	if c.PoolSize <= 0 {
		return errors.New("redisq: pool size must be positive")
	}
	return nil
}
