package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/happydeel/mailroom/pkg/cookie"
	"github.com/happydeel/mailroom/pkg/id"
)

const (
	// DefaultCookieName is the cookie holding the session token.
	DefaultCookieName = "session"

	// DefaultTTL is the validity window of a token.
	DefaultTTL = 24 * time.Hour

	// maxClockSkew tolerates tokens issued slightly in the future by
	// another replica with a drifting clock.
	maxClockSkew = time.Minute
)

// Gate issues and verifies session cookies.
type Gate struct {
	cookies *cookie.Manager
	revoker Revoker
	now     func() time.Time
	name    string
	ttl     time.Duration
}

// Option configures a Gate.
type Option func(*Gate)

// WithCookieName overrides the cookie name.
func WithCookieName(name string) Option {
	return func(g *Gate) {
		if name != "" {
			g.name = name
		}
	}
}

// WithTTL sets the validity window.
func WithTTL(ttl time.Duration) Option {
	return func(g *Gate) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithRevoker enables logout revocation.
func WithRevoker(r Revoker) Option {
	return func(g *Gate) { g.revoker = r }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGate creates a Gate. The cookie manager must have a valid secret.
func NewGate(cookies *cookie.Manager, opts ...Option) (*Gate, error) {
	if cookies == nil {
		return nil, ErrNotConfigured
	}
	if err := cookies.Err(); err != nil {
		return nil, errors.Join(ErrNotConfigured, err)
	}

	g := &Gate{
		cookies: cookies,
		now:     time.Now,
		name:    DefaultCookieName,
		ttl:     DefaultTTL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// TTL returns the validity window.
func (g *Gate) TTL() time.Duration {
	return g.ttl
}

// CookieName returns the session cookie name.
func (g *Gate) CookieName() string {
	return g.name
}

// Check verifies the request's session cookie.
// Authentication failures are *UnauthenticatedError; any other error means
// the check itself could not be completed.
func (g *Gate) Check(r *http.Request) (Token, error) {
	raw, err := g.cookies.GetSigned(r, g.name)
	switch {
	case errors.Is(err, cookie.ErrNotFound):
		return Token{}, unauthenticated(ReasonMissing, nil)
	case errors.Is(err, cookie.ErrBadSig):
		return Token{}, unauthenticated(ReasonMalformed, err)
	case err != nil:
		return Token{}, err
	}

	tok, err := ParseToken(raw)
	if err != nil {
		return Token{}, unauthenticated(ReasonMalformed, err)
	}

	now := g.now()
	if tok.IssuedAt.After(now.Add(maxClockSkew)) {
		return Token{}, unauthenticated(ReasonMalformed, errors.New("issued in the future"))
	}
	if now.Sub(tok.IssuedAt) > g.ttl {
		return Token{}, unauthenticated(ReasonExpired, nil)
	}

	if g.revoker != nil {
		revoked, err := g.revoker.IsRevoked(r.Context(), tok.ID)
		if err != nil {
			return Token{}, fmt.Errorf("session: revocation lookup: %w", err)
		}
		if revoked {
			return Token{}, unauthenticated(ReasonExpired, errors.New("logged out"))
		}
	}

	return tok, nil
}

// Issue starts a session for username and sets the cookie.
func (g *Gate) Issue(w http.ResponseWriter, username string) (Token, error) {
	tok := Token{
		Username: username,
		IssuedAt: g.now().Truncate(time.Second),
		ID:       id.NewToken(16),
	}
	if err := g.cookies.SetSigned(w, g.name, tok.Encode(), int(g.ttl/time.Second)); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// Clear ends the request's session: the cookie is deleted and, when a
// revoker is configured, a still-valid token is revoked until it would
// have expired anyway.
func (g *Gate) Clear(w http.ResponseWriter, r *http.Request) error {
	g.cookies.Delete(w, g.name)

	tok, err := g.Check(r)
	if err != nil || g.revoker == nil {
		return nil
	}
	ctx, cancel := revokeContext(r.Context())
	defer cancel()
	return g.revoker.Revoke(ctx, tok.ID, tok.ExpiresAt(g.ttl))
}

// revokeContext bounds revocation writes that outlive the request.
func revokeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
}
