package smtp

import (
	"context"
	"errors"
	"net"
	"net/textproto"
	"strings"

	"github.com/happydeel/mailroom/pkg/mailer"
)

// categorize maps SMTP failures to mailer categories.
// 530, 534 and 535 are the reply codes relays use for rejected credentials.
func categorize(err error) mailer.Category {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 530, 534, 535:
			return mailer.CategoryAuth
		case 421:
			return mailer.CategoryConnection
		}
		return mailer.CategoryOther
	}

	if errors.Is(err, ErrClosed) || errors.Is(err, context.DeadlineExceeded) {
		return mailer.CategoryConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return mailer.CategoryConnection
	}

	// net/smtp PlainAuth refuses to send credentials without TLS.
	if strings.Contains(err.Error(), "unencrypted connection") {
		return mailer.CategoryAuth
	}
	return mailer.CategoryOther
}
