// Package middlewares provides the HTTP middleware of the mail console.
//
// # Request ID
//
// RequestID assigns an ID to each request, keeping a sane inbound
// X-Request-ID. Pair it with RequestIDExtractor so every log line carries
// it:
//
//	app := mailroom.New(
//	    mailroom.WithLogger("mailroom", middlewares.RequestIDExtractor()),
//	    mailroom.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover
//
// Recover catches panics and returns a *PanicError for the error handler.
//
// # Timeout
//
// Timeout puts a deadline on the request context, so a stuck mail provider
// cannot hold a request forever.
//
// # Sessions
//
// RequireSession guards the API routes. It answers 401 with the reason
// ("No session found", "Session expired", "Invalid session") as detail.
//
//	r.Group(func(r mailroom.Router) {
//	    r.Use(middlewares.RequireSession(), middlewares.Timeout(45*time.Second))
//	    r.POST("/api/send-shipping-email", h.sendShipping)
//	})
//
// # Order
//
//	mailroom.WithMiddleware(
//	    middlewares.RequestID(), // first: every later log line has the ID
//	    middlewares.Recover(),
//	)
package middlewares
