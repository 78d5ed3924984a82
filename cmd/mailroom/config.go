package main

import (
	"context"
	"fmt"
	"time"

	"github.com/happydeel/mailroom/emails"
	"github.com/happydeel/mailroom/handlers"
	"github.com/happydeel/mailroom/pkg/health"
	"github.com/happydeel/mailroom/pkg/logger"
	"github.com/happydeel/mailroom/pkg/mailer"
	"github.com/happydeel/mailroom/pkg/mailer/devsender"
	"github.com/happydeel/mailroom/pkg/mailer/postmark"
	"github.com/happydeel/mailroom/pkg/mailer/resend"
	"github.com/happydeel/mailroom/pkg/mailer/ses"
	"github.com/happydeel/mailroom/pkg/mailer/smtp"
	"github.com/happydeel/mailroom/pkg/redis"
)

// Mail providers accepted by MAIL_PROVIDER.
const (
	providerSMTP     = "smtp"
	providerResend   = "resend"
	providerPostmark = "postmark"
	providerSES      = "ses"
	providerDev      = "dev"
)

type config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	MailProvider    string        `env:"MAIL_PROVIDER" envDefault:"smtp"`
	SessionSecret   string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SendTimeout     time.Duration `env:"SEND_TIMEOUT" envDefault:"45s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`

	Log   logger.Config
	Email emails.Config        `envPrefix:"EMAIL_"`
	Auth  handlers.Credentials `envPrefix:"AUTH_"`
	Redis redis.Config         `envPrefix:"REDIS_"`

	SMTP     smtp.Config      `envPrefix:"SMTP_"`
	Resend   resend.Config    `envPrefix:"RESEND_"`
	Postmark postmark.Config  `envPrefix:"POSTMARK_"`
	SES      ses.Config       `envPrefix:"SES_"`
	Dev      devsender.Config `envPrefix:"DEVMAIL_"`
}

// provider is a configured mail sender with its optional readiness check
// and shutdown hook.
type provider struct {
	sender mailer.Sender
	check  health.CheckFunc
	close  func(context.Context) error
}

func newProvider(ctx context.Context, cfg config) (*provider, error) {
	switch cfg.MailProvider {
	case providerSMTP:
		s, err := smtp.New(cfg.SMTP)
		if err != nil {
			return nil, err
		}
		return &provider{sender: s, check: s.Healthcheck, close: s.Close}, nil
	case providerResend:
		s, err := resend.New(cfg.Resend)
		if err != nil {
			return nil, err
		}
		return &provider{sender: s}, nil
	case providerPostmark:
		s, err := postmark.New(cfg.Postmark)
		if err != nil {
			return nil, err
		}
		return &provider{sender: s}, nil
	case providerSES:
		s, err := ses.New(ctx, cfg.SES)
		if err != nil {
			return nil, err
		}
		return &provider{sender: s}, nil
	case providerDev:
		s, err := devsender.New(cfg.Dev)
		if err != nil {
			return nil, err
		}
		return &provider{sender: s}, nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
}
