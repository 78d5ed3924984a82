// Package postmark delivers mail through the Postmark API.
package postmark

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mrz1836/postmark"

	"github.com/happydeel/mailroom/pkg/mailer"
)

const provider = "postmark"

// codeBadServerToken is the Postmark API error code for a rejected token.
const codeBadServerToken = 10

// ErrInvalidConfig is returned by New without a server token.
var ErrInvalidConfig = errors.New("postmark: invalid configuration")

// Config holds Postmark settings, parsed from POSTMARK_* variables.
type Config struct {
	ServerToken  string `env:"SERVER_TOKEN"`
	AccountToken string `env:"ACCOUNT_TOKEN"`
	TrackOpens   bool   `env:"TRACK_OPENS" envDefault:"false"`
}

// Sender implements mailer.Sender using Postmark.
type Sender struct {
	client *postmark.Client
	cfg    Config
}

// New creates a Postmark sender.
func New(cfg Config) (*Sender, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: server token is required", ErrInvalidConfig)
	}
	return &Sender{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		cfg:    cfg,
	}, nil
}

// Send implements mailer.Sender. A response carrying a non-zero ErrorCode
// is a failure even though the HTTP call succeeded.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	if err := email.Validate(); err != nil {
		return "", err
	}

	resp, err := s.client.SendEmail(ctx, s.toEmail(email))
	if err != nil {
		return "", mailer.NewSendError(provider, categorize(err), err)
	}
	if resp.ErrorCode > 0 {
		apiErr := fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message)
		return "", mailer.NewSendError(provider, codeCategory(int64(resp.ErrorCode)), apiErr)
	}
	return resp.MessageID, nil
}

func (s *Sender) toEmail(email *mailer.Email) postmark.Email {
	return postmark.Email{
		From:       email.From,
		ReplyTo:    email.ReplyTo,
		To:         strings.Join(email.To, ","),
		Subject:    email.Subject,
		Tag:        email.Tag,
		HTMLBody:   email.HTML,
		TextBody:   email.Text,
		TrackOpens: s.cfg.TrackOpens,
	}
}

func codeCategory(code int64) mailer.Category {
	if code == codeBadServerToken {
		return mailer.CategoryAuth
	}
	return mailer.CategoryOther
}

func categorize(err error) mailer.Category {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return mailer.CategoryConnection
	}
	return mailer.Categorize(err)
}
