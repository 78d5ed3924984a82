// Package mailroom is the Happydeel transactional email console: a small
// HTTP service staff use to send and preview shipping, order confirmation
// and refund emails.
//
// The package re-exports the application runtime from internal so the
// binary in cmd/mailroom and tests can assemble an App without reaching
// into internal packages.
//
// # Assembly
//
//	app := mailroom.New(
//	    mailroom.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    mailroom.WithErrorHandler(handlers.ErrorHandler),
//	    mailroom.WithSession(gate),
//	    mailroom.WithHandlers(
//	        handlers.NewAuthHandler(creds),
//	        handlers.NewEmailHandler(composer),
//	        handlers.NewPageHandler("Happydeel"),
//	    ),
//	)
//
//	err := app.Run(":8080",
//	    mailroom.Logger(log),
//	    mailroom.ShutdownHook(smtpSender.Close),
//	)
//
// # Layout
//
// The email kinds live in package emails, their payloads in requests and
// the HTTP surface in handlers. Delivery goes through pkg/mailer and one of
// its provider packages; sessions through pkg/session.
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM. The server drains first, then shutdown hooks
// run in registration order with the remaining shutdown budget.
package mailroom
