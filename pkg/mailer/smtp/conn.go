package smtp

import (
	"context"
	"crypto/tls"
	"net"
	netsmtp "net/smtp"
	"time"
)

// conn is one authenticated relay session.
type conn struct {
	nc   net.Conn
	c    *netsmtp.Client
	sent int
}

// open runs the greeting, STARTTLS when offered, and AUTH when offered.
func (cn *conn) open(host string, auth netsmtp.Auth, tlsConfig *tls.Config) error {
	c, err := netsmtp.NewClient(cn.nc, host)
	if err != nil {
		return err
	}
	cn.c = c

	if err := c.Hello(helloName); err != nil {
		return err
	}
	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(tlsConfig); err != nil {
			return err
		}
	}
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	return nil
}

// bind applies the ctx deadline to the socket and aborts pending I/O when
// ctx is cancelled. The returned func clears both.
func (cn *conn) bind(ctx context.Context) func() {
	if deadline, ok := ctx.Deadline(); ok {
		_ = cn.nc.SetDeadline(deadline)
	}
	unwatch := context.AfterFunc(ctx, func() {
		_ = cn.nc.SetDeadline(time.Unix(1, 0))
	})
	return func() {
		unwatch()
		_ = cn.nc.SetDeadline(time.Time{})
	}
}

// deliver runs one MAIL/RCPT/DATA transaction.
func (cn *conn) deliver(ctx context.Context, from string, to []string, raw []byte) error {
	stop := cn.bind(ctx)
	defer stop()

	if err := cn.c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := cn.c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := cn.c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(raw); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	cn.sent++
	return nil
}

// alive checks an idle connection with NOOP before reuse.
func (cn *conn) alive(ctx context.Context) bool {
	stop := cn.bind(ctx)
	defer stop()
	return cn.c.Noop() == nil
}

// quit ends the session politely, giving the relay quitTimeout to answer.
func (cn *conn) quit() {
	_ = cn.nc.SetDeadline(time.Now().Add(quitTimeout))
	if cn.c != nil {
		_ = cn.c.Quit()
	}
	cn.close()
}

func (cn *conn) close() {
	_ = cn.nc.Close()
}
