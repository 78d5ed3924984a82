// Package internal holds the HTTP core of the mail console: the App, its
// chi-backed Router, the request Context and the error type handlers
// return.
//
// Import "github.com/happydeel/mailroom" instead; it re-exports the public
// surface.
//
// # Handlers
//
// Handlers declare routes and return errors instead of writing failure
// responses themselves:
//
//	func (h *Emails) Routes(r internal.Router) {
//	    r.POST("/api/send-shipping-email", h.sendShipping)
//	}
//
//	func (h *Emails) sendShipping(c internal.Context) error {
//	    var req requests.ShippingRequest
//	    if err := c.BindJSON(&req); err != nil {
//	        return internal.ErrBadRequest("Invalid request body", internal.WithError(err))
//	    }
//	    ...
//	}
//
// A returned error goes to the ErrorHandler configured with
// WithErrorHandler. If a response was already written the error is
// dropped.
//
// # Sessions
//
// WithSession installs a session.Gate. Context.Session checks the request
// cookie once and caches the token on the request context, so route
// middleware and the handler see the same result.
//
// # Lifecycle
//
// App.Run listens, serves until SIGINT or SIGTERM, then shuts the server
// down and runs the registered shutdown hooks in order. Hook errors are
// joined into the returned error.
package internal
