// Package resend delivers mail through the Resend HTTP API.
package resend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/happydeel/mailroom/pkg/mailer"
)

const provider = "resend"

// ErrInvalidConfig is returned by New without an API key.
var ErrInvalidConfig = errors.New("resend: invalid configuration")

// Config holds Resend settings, parsed from RESEND_* variables.
type Config struct {
	APIKey string `env:"API_KEY"`
}

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
}

// New creates a Resend sender.
func New(cfg Config) (*Sender, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: api key is required", ErrInvalidConfig)
	}
	return &Sender{client: resend.NewClient(cfg.APIKey)}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	if err := email.Validate(); err != nil {
		return "", err
	}

	resp, err := s.client.Emails.SendWithContext(ctx, toRequest(email))
	if err != nil {
		return "", mailer.NewSendError(provider, categorize(err), err)
	}
	return resp.Id, nil
}

func toRequest(email *mailer.Email) *resend.SendEmailRequest {
	req := &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}
	if email.Tag != "" {
		req.Tags = []resend.Tag{{Name: "category", Value: email.Tag}}
	}
	return req
}

// categorize inspects the API error text; the client reports HTTP failures
// as formatted messages rather than typed errors.
func categorize(err error) mailer.Category {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return mailer.CategoryConnection
	}
	if c := mailer.Categorize(err); c == mailer.CategoryConnection {
		return c
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"api key", "unauthorized", "401", "403", "restricted_api_key"} {
		if strings.Contains(msg, marker) {
			return mailer.CategoryAuth
		}
	}
	return mailer.CategoryOther
}
