package mailer

import (
	"context"
	"errors"
	"fmt"
)

// Mailer renders templates and dispatches them through a Sender.
type Mailer struct {
	sender   Sender
	renderer *Renderer
	config   Config
}

// New creates a Mailer. sender may be nil for a render-only Mailer.
func New(sender Sender, renderer *Renderer, cfg Config) *Mailer {
	return &Mailer{
		sender:   sender,
		renderer: renderer,
		config:   cfg,
	}
}

// Params describes one templated message.
type Params struct {
	Data     any
	To       string
	Template string // Template filename, e.g. "shipping.md"

	// Optional overrides
	Subject string // Overrides the front matter Subject
	Layout  string // Overrides Config.DefaultLayout
	From    string // Overrides Config.DefaultFrom
	ReplyTo string // Overrides Config.ReplyTo
	Tag     string
}

// Compose renders params into a ready-to-send Email without sending it.
// Subject resolution: params.Subject, then front matter, then
// Config.FallbackSubject.
func (m *Mailer) Compose(params Params) (*Email, error) {
	if params.To == "" {
		return nil, ErrNoRecipient
	}

	layout := params.Layout
	if layout == "" {
		layout = m.config.DefaultLayout
	}

	result, err := m.renderer.Render(layout, params.Template, params.Data)
	if err != nil {
		if errors.Is(err, ErrRenderFailed) {
			return nil, err
		}
		return nil, errors.Join(ErrRenderFailed, err)
	}

	subject := params.Subject
	if subject == "" {
		subject = result.Subject
	}
	if subject == "" {
		subject = m.config.FallbackSubject
	}

	return &Email{
		To:      []string{params.To},
		From:    firstNonEmpty(params.From, m.config.DefaultFrom),
		ReplyTo: firstNonEmpty(params.ReplyTo, m.config.ReplyTo),
		Subject: subject,
		HTML:    result.HTML,
		Text:    result.Text,
		Tag:     params.Tag,
	}, nil
}

// SendRaw delivers a pre-built email without rendering.
func (m *Mailer) SendRaw(ctx context.Context, email *Email) (string, error) {
	if err := email.Validate(); err != nil {
		return "", err
	}
	if m.sender == nil {
		return "", fmt.Errorf("%w: no sender configured", ErrSendFailed)
	}

	id, err := m.sender.Send(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	return id, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
