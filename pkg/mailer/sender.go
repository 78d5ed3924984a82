package mailer

import "context"

// Sender delivers a prepared Email and returns the provider's message ID.
// Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, email *Email) (string, error)

func (f SenderFunc) Send(ctx context.Context, email *Email) (string, error) {
	return f(ctx, email)
}
