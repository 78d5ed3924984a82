// Package devsender writes messages to disk instead of sending them.
// Each message produces <id>.html, <id>.txt and <id>.json in the target
// directory, which makes local runs inspectable without a mail provider.
package devsender

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/happydeel/mailroom/pkg/mailer"
)

// Config holds dev sender settings, parsed from DEV_MAIL_* variables.
type Config struct {
	Dir string `env:"DIR" envDefault:"./tmp/mail"`
}

// Sender implements mailer.Sender by writing files.
type Sender struct {
	now func() time.Time
	dir string
}

// New creates the output directory and returns a Sender.
func New(cfg Config) (*Sender, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("devsender: create dir: %w", err)
	}
	return &Sender{dir: cfg.Dir, now: time.Now}, nil
}

type envelope struct {
	SentAt  time.Time         `json:"sentAt"`
	Headers map[string]string `json:"headers,omitempty"`
	ID      string            `json:"id"`
	From    string            `json:"from"`
	ReplyTo string            `json:"replyTo,omitempty"`
	Subject string            `json:"subject"`
	Tag     string            `json:"tag,omitempty"`
	To      []string          `json:"to"`
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (string, error) {
	if err := email.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", mailer.NewSendError("dev", mailer.CategoryConnection, err)
	}

	id := uuid.NewString()
	meta, err := json.MarshalIndent(envelope{
		ID:      id,
		SentAt:  s.now().UTC(),
		From:    email.From,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Tag:     email.Tag,
		Headers: email.Headers,
	}, "", "  ")
	if err != nil {
		return "", mailer.NewSendError("dev", mailer.CategoryOther, err)
	}

	files := map[string][]byte{
		id + ".html": []byte(email.HTML),
		id + ".txt":  []byte(email.Text),
		id + ".json": meta,
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
			return "", mailer.NewSendError("dev", mailer.CategoryOther, err)
		}
	}
	return id, nil
}
