package middlewares

import (
	"github.com/happydeel/mailroom/internal"
	"github.com/happydeel/mailroom/pkg/session"
)

// MsgAuthRequired is the error text of rejected API calls.
const MsgAuthRequired = "Authentication required"

// RequireSession rejects requests without a valid session cookie.
//
// Missing, expired and malformed cookies yield 401 with the reason in the
// error detail. A failing revocation store yields 503: the cookie may be
// fine, so the client is not told to log in again.
func RequireSession() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			_, err := c.Session()
			if err == nil {
				return next(c)
			}

			if ue, ok := session.AsUnauthenticated(err); ok {
				c.LogInfo("session rejected", "reason", string(ue.Reason))
				return internal.ErrUnauthorized(MsgAuthRequired,
					internal.WithDetail(ue.Message()),
					internal.WithErrorCode("session_"+string(ue.Reason)),
					internal.WithError(err),
				)
			}

			c.LogError("session check failed", "error", err)
			return internal.ErrServiceUnavailable("Session check unavailable", internal.WithError(err))
		}
	}
}
