package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/happydeel/mailroom/internal"
)

// DefaultTimeout is the request deadline used when Timeout gets d <= 0.
const DefaultTimeout = 30 * time.Second

// Timeout attaches a deadline to the request context. The handler runs on
// the calling goroutine; mail senders and other blocking calls that take
// the context give up when it passes.
//
// A handler error caused by the deadline becomes a *TimeoutError unless the
// handler already turned it into an HTTPError.
func Timeout(d time.Duration) internal.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), d)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if err == nil || internal.IsHTTPError(err) {
				return err
			}
			if errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.LogWarn("request timeout", "timeout", d.String())
				return &TimeoutError{Duration: d, Err: err}
			}
			return err
		}
	}
}
