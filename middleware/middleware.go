// Package middleware ships cross-cutting behaviors for the exchange
// pipeline. Middlewares run on both the sending and the receiving side.
package middleware

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/courierkit/courier"
	"github.com/courierkit/courier/log"
)

// startedAtProperty carries the exchange start time across phases.
const startedAtProperty = "courier.middleware.started_at"

// Logging records each exchange with its destination, duration, outcome
// and whether a response came back.
func Logging() courier.Middleware {
	return func(next courier.Handler) courier.Handler {
		return func(ctx context.Context, mc courier.MessageContext) error {
			mc.SetProperty(startedAtProperty, time.Now())
			err := next(ctx, mc)
			var cost time.Duration
			if v, ok := mc.Property(startedAtProperty); ok {
				if started, ok := v.(time.Time); ok {
					cost = time.Since(started)
				}
				mc.RemoveProperty(startedAtProperty)
			}
			dest := mc.TransportRequest().Destination()
			if err != nil {
				log.Errorw("msg", "exchange failed", "destination", dest, "cost", cost, "err", err)
				return err
			}
			log.Infow("msg", "exchange completed", "destination", dest, "cost", cost, "response", mc.HasResponse())
			return nil
		}
	}
}

// RateLimit blocks each exchange until the limiter grants it, giving up
// when ctx is done.
func RateLimit(r rate.Limit, burst int) courier.Middleware {
	limiter := rate.NewLimiter(r, burst)
	return func(next courier.Handler) courier.Handler {
		return func(ctx context.Context, mc courier.MessageContext) error {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
			return next(ctx, mc)
		}
	}
}

// Headers stamps fixed headers on every request message.
func Headers(headers map[string]string) courier.Middleware {
	return func(next courier.Handler) courier.Handler {
		return func(ctx context.Context, mc courier.MessageContext) error {
			for name, value := range headers {
				mc.Request().SetHeader(name, value)
			}
			return next(ctx, mc)
		}
	}
}
