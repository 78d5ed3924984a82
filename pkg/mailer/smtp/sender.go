// Package smtp delivers mail through an SMTP relay over a bounded pool of
// authenticated net/smtp connections. Messages are composed with
// github.com/jordan-wright/email.
//
// At most Connections conversations run at once. A connection is dialed
// and authenticated on demand, reused while idle, and retired after
// MaxMessages deliveries. Every conversation is bounded by the request
// context and by Timeout. A credentials rejection is remembered for a
// short while so a bad password does not turn every request into another
// AUTH attempt.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	netsmtp "net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jordan-wright/email"

	"github.com/happydeel/mailroom/pkg/mailer"
)

const (
	provider    = "smtp"
	helloName   = "localhost"
	authBackoff = time.Minute
	quitTimeout = time.Second
)

var (
	// ErrInvalidConfig is returned by New for incomplete settings.
	ErrInvalidConfig = errors.New("smtp: invalid configuration")
	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("smtp: sender closed")
)

// Sender implements mailer.Sender over pooled SMTP connections.
type Sender struct {
	cfg   Config
	auth  netsmtp.Auth
	tls   *tls.Config
	slots chan struct{}
	idle  chan *conn
	done  chan struct{}
	wg    sync.WaitGroup

	mu        sync.Mutex
	closed    bool
	authErr   error
	authUntil time.Time
}

// New validates cfg. It does not touch the network; connections are
// dialed on the first send.
func New(cfg Config) (*Sender, error) {
	switch {
	case cfg.Host == "":
		return nil, fmt.Errorf("%w: host is required", ErrInvalidConfig)
	case cfg.Username == "" || cfg.Password == "":
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidConfig)
	}
	cfg.Connections = max(cfg.Connections, 1)
	cfg.MaxMessages = max(cfg.MaxMessages, 1)
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Sender{
		cfg:   cfg,
		auth:  netsmtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		tls:   &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
		slots: make(chan struct{}, cfg.Connections),
		idle:  make(chan *conn, cfg.Connections),
		done:  make(chan struct{}),
	}, nil
}

// Send implements mailer.Sender. The returned ID is the Message-Id header
// without angle brackets.
func (s *Sender) Send(ctx context.Context, msg *mailer.Email) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}

	e, id, err := s.build(msg)
	if err != nil {
		return "", mailer.NewSendError(provider, mailer.CategoryOther, err)
	}
	raw, err := e.Bytes()
	if err != nil {
		return "", mailer.NewSendError(provider, mailer.CategoryOther, err)
	}
	from, to, err := envelope(msg)
	if err != nil {
		return "", mailer.NewSendError(provider, mailer.CategoryOther, err)
	}

	if err := s.admit(); err != nil {
		return "", err
	}
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	select {
	case s.slots <- struct{}{}:
	case <-s.done:
		return "", mailer.NewSendError(provider, mailer.CategoryConnection, ErrClosed)
	case <-ctx.Done():
		return "", s.failure(ctx, nil)
	}
	defer func() { <-s.slots }()

	cn, err := s.acquire(ctx)
	if err != nil {
		return "", s.failure(ctx, err)
	}
	if err := cn.deliver(ctx, from, to, raw); err != nil {
		cn.close()
		return "", s.failure(ctx, err)
	}
	s.release(cn)
	return id, nil
}

// Close stops new sends, waits for in-flight ones, and quits idle
// connections. It gives up when ctx is done.
func (s *Sender) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.done)
	s.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		s.wg.Wait()
		for {
			select {
			case cn := <-s.idle:
				cn.quit()
			default:
				return
			}
		}
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp: close: %w", ctx.Err())
	}
}

// Healthcheck reports whether the relay accepts TCP connections. It does
// not authenticate, so it costs the relay nothing but a dial.
func (s *Sender) Healthcheck(ctx context.Context) error {
	d := net.Dialer{Timeout: s.cfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return mailer.NewSendError(provider, mailer.CategoryConnection, err)
	}
	return conn.Close()
}

// admit registers a send unless the sender is closed or the relay
// recently rejected the credentials.
func (s *Sender) admit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return mailer.NewSendError(provider, mailer.CategoryConnection, ErrClosed)
	}
	if s.authErr != nil && time.Now().Before(s.authUntil) {
		return mailer.NewSendError(provider, mailer.CategoryAuth, s.authErr)
	}
	s.wg.Add(1)
	return nil
}

// failure wraps err for the caller. Anything that ends with ctx done is a
// connection failure.
func (s *Sender) failure(ctx context.Context, err error) error {
	if ctxErr := interrupted(ctx); ctxErr != nil {
		return mailer.NewSendError(provider, mailer.CategoryConnection, errors.Join(ctxErr, err))
	}

	category := categorize(err)
	if category == mailer.CategoryAuth {
		s.mu.Lock()
		s.authErr, s.authUntil = err, time.Now().Add(authBackoff)
		s.mu.Unlock()
	}
	return mailer.NewSendError(provider, category, err)
}

// interrupted reports ctx as done once its deadline has passed, even if the
// socket deadline fired a moment before the ctx timer did.
func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return context.DeadlineExceeded
	}
	return nil
}

// acquire returns a live idle connection or dials a new one.
func (s *Sender) acquire(ctx context.Context) (*conn, error) {
	for {
		select {
		case cn := <-s.idle:
			if cn.alive(ctx) {
				return cn, nil
			}
			cn.close()
		default:
			return s.dial(ctx)
		}
	}
}

func (s *Sender) dial(ctx context.Context) (*conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return nil, err
	}

	cn := &conn{nc: nc}
	stop := cn.bind(ctx)
	defer stop()

	if err := cn.open(s.cfg.Host, s.auth, s.tls); err != nil {
		cn.close()
		return nil, err
	}
	return cn, nil
}

// release parks cn for reuse, or retires it once it has carried
// MaxMessages messages or the sender is closed.
func (s *Sender) release(cn *conn) {
	if cn.sent < s.cfg.MaxMessages {
		s.mu.Lock()
		parked := false
		if !s.closed {
			select {
			case s.idle <- cn:
				parked = true
			default:
			}
		}
		s.mu.Unlock()
		if parked {
			return
		}
	}
	cn.quit()
}

func (s *Sender) build(msg *mailer.Email) (*email.Email, string, error) {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return nil, "", fmt.Errorf("parse from address: %w", err)
	}

	domain := s.cfg.MessageIDDomain
	if domain == "" {
		_, domain, _ = strings.Cut(from.Address, "@")
	}
	id := uuid.NewString() + "@" + domain

	e := email.NewEmail()
	e.From = msg.From
	e.To = msg.To
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)
	if msg.Text != "" {
		e.Text = []byte(msg.Text)
	}
	if msg.ReplyTo != "" {
		e.ReplyTo = []string{msg.ReplyTo}
	}
	for k, v := range msg.Headers {
		e.Headers.Set(k, v)
	}
	e.Headers.Set("Message-Id", "<"+id+">")

	return e, id, nil
}

// envelope returns the bare MAIL FROM and RCPT TO addresses.
func envelope(msg *mailer.Email) (string, []string, error) {
	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return "", nil, fmt.Errorf("parse from address: %w", err)
	}
	to := make([]string, 0, len(msg.To))
	for _, rcpt := range msg.To {
		addr, err := mail.ParseAddress(rcpt)
		if err != nil {
			return "", nil, fmt.Errorf("parse recipient %q: %w", rcpt, err)
		}
		to = append(to, addr.Address)
	}
	return from.Address, to, nil
}
