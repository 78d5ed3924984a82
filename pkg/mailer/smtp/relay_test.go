package smtp

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom/pkg/mailer"
)

// fakeRelay is a minimal ESMTP server on loopback. PlainAuth allows
// cleartext credentials for 127.0.0.1, so no TLS is offered.
type fakeRelay struct {
	ln         net.Listener
	rejectAuth bool
	dataDelay  time.Duration
	stop       chan struct{}

	accepted atomic.Int32
	quits    atomic.Int32
	active   atomic.Int32
	peak     atomic.Int32

	mu       sync.Mutex
	messages []string
}

func newFakeRelay(t *testing.T, rejectAuth bool, dataDelay time.Duration) (*fakeRelay, Config) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	r := &fakeRelay{ln: ln, rejectAuth: rejectAuth, dataDelay: dataDelay, stop: make(chan struct{})}
	go r.accept()
	t.Cleanup(func() {
		close(r.stop)
		_ = ln.Close()
	})

	tcp, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)

	cfg := testConfig()
	cfg.Host, cfg.Port = "127.0.0.1", tcp.Port
	return r, cfg
}

func (r *fakeRelay) accept() {
	for {
		nc, err := r.ln.Accept()
		if err != nil {
			return
		}
		r.accepted.Add(1)
		go r.serve(nc)
	}
}

func (r *fakeRelay) serve(nc net.Conn) {
	defer nc.Close()
	tp := textproto.NewConn(nc)
	_ = tp.PrintfLine("220 relay.test ESMTP")

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		verb, _, _ := strings.Cut(line, " ")

		switch strings.ToUpper(verb) {
		case "EHLO", "HELO":
			_ = tp.PrintfLine("250-relay.test")
			_ = tp.PrintfLine("250 AUTH PLAIN")
		case "AUTH":
			if r.rejectAuth {
				_ = tp.PrintfLine("535 5.7.8 Username and Password not accepted")
			} else {
				_ = tp.PrintfLine("235 2.7.0 Accepted")
			}
		case "MAIL", "RCPT", "NOOP", "RSET":
			_ = tp.PrintfLine("250 OK")
		case "DATA":
			_ = tp.PrintfLine("354 Go ahead")
			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			if !r.hold() {
				return
			}
			r.mu.Lock()
			r.messages = append(r.messages, string(body))
			r.mu.Unlock()
			_ = tp.PrintfLine("250 2.0.0 Queued")
		case "QUIT":
			r.quits.Add(1)
			_ = tp.PrintfLine("221 Bye")
			return
		default:
			_ = tp.PrintfLine("500 Unrecognized command")
		}
	}
}

// hold simulates a slow relay while tracking how many DATA phases overlap.
func (r *fakeRelay) hold() bool {
	n := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		peak := r.peak.Load()
		if n <= peak || r.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	if r.dataDelay <= 0 {
		return true
	}
	select {
	case <-time.After(r.dataDelay):
		return true
	case <-r.stop:
		return false
	}
}

func (r *fakeRelay) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func relayEmail() *mailer.Email {
	return &mailer.Email{
		From:    `"Happydeel Shipping" <shipping@happydeel.com>`,
		To:      []string{"John Doe <john.doe@example.com>"},
		Subject: "Your Order Has Shipped!",
		HTML:    "<p>shipped</p>",
		Text:    "shipped",
	}
}

func TestSendThroughRelay(t *testing.T) {
	t.Parallel()

	relay, cfg := newFakeRelay(t, false, 0)
	cfg.MaxMessages = 3
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	id, err := s.Send(context.Background(), relayEmail())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id, "@happydeel.com"))

	got := relay.received()
	require.Len(t, got, 1)
	assert.Contains(t, got[0], "Message-Id: <"+id+">")
	assert.Contains(t, got[0], "Subject: Your Order Has Shipped!")

	for range 3 {
		_, err := s.Send(context.Background(), relayEmail())
		require.NoError(t, err)
	}
	assert.Len(t, relay.received(), 4)
	assert.Equal(t, int32(2), relay.accepted.Load(), "a connection is reused until it has carried MaxMessages")

	require.NoError(t, s.Close(context.Background()))
	assert.Eventually(t, func() bool { return relay.quits.Load() == 2 }, time.Second, 10*time.Millisecond)
}

func TestSendRejectedCredentials(t *testing.T) {
	t.Parallel()

	relay, cfg := newFakeRelay(t, true, 0)
	cfg.Connections = 1
	cfg.Timeout = 2 * time.Second
	s, err := New(cfg)
	require.NoError(t, err)

	start := time.Now()
	_, err = s.Send(context.Background(), relayEmail())
	require.Error(t, err)
	assert.Equal(t, mailer.CategoryAuth, mailer.Categorize(err))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int32(1), relay.accepted.Load(), "one AUTH attempt per failure")

	_, err = s.Send(context.Background(), relayEmail())
	require.Error(t, err)
	assert.Equal(t, mailer.CategoryAuth, mailer.Categorize(err))
	assert.Equal(t, int32(1), relay.accepted.Load(), "a recent rejection is not retried")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Close(ctx))
	assert.Empty(t, relay.received())
}

func TestSendConcurrent(t *testing.T) {
	t.Parallel()

	const senders = 3
	relay, cfg := newFakeRelay(t, false, 300*time.Millisecond)
	cfg.Connections = senders
	cfg.Timeout = 5 * time.Second
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	errs := make(chan error, senders)
	for range senders {
		go func() {
			_, err := s.Send(context.Background(), relayEmail())
			errs <- err
		}()
	}
	for range senders {
		require.NoError(t, <-errs)
	}

	assert.Len(t, relay.received(), senders)
	assert.Greater(t, relay.peak.Load(), int32(1), "sends on separate connections overlap")
}

func TestSendStalledRelay(t *testing.T) {
	t.Parallel()

	_, cfg := newFakeRelay(t, false, 10*time.Second)
	cfg.Connections = 1
	cfg.Timeout = 10 * time.Second
	s, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = s.Send(ctx, relayEmail())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, mailer.CategoryConnection, mailer.Categorize(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), time.Second)
	defer closeCancel()
	require.NoError(t, s.Close(closeCtx))
}

func TestCloseHonoursContext(t *testing.T) {
	t.Parallel()

	relay, cfg := newFakeRelay(t, false, 10*time.Second)
	cfg.Timeout = 10 * time.Second
	s, err := New(cfg)
	require.NoError(t, err)

	sent := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), relayEmail())
		sent <- err
	}()
	require.Eventually(t, func() bool { return relay.active.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = s.Close(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "close gives up when its context ends: %v", err)
	assert.Less(t, time.Since(start), time.Second)

	_, err = s.Send(context.Background(), relayEmail())
	assert.ErrorIs(t, err, ErrClosed)
}
