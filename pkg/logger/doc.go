// Package logger builds the application's slog loggers.
//
// Every logger writes JSON to stdout. Request-scoped values such as the
// request ID are attached per record through [ContextExtractor] functions,
// so handlers only pass a context:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "email dispatched", slog.String("kind", "refund"))
//
// When a Sentry DSN is configured, [NewWithSentry] fans records out to both
// stdout and Sentry. Errors become Sentry issues, warnings are stored as
// breadcrumb logs. An empty DSN falls back to stdout only.
//
// Recipient addresses must not be logged verbatim; use [RedactEmail].
package logger
