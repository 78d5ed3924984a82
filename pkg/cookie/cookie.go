// Package cookie reads and writes HTTP cookies with optional HMAC-SHA256
// signatures.
//
// Signed values are encoded as base64url(value) "." base64url(mac). The
// secret must be at least 32 bytes.
package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Errors.
var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrNoSecret  = errors.New("cookie: secret required")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig    = errors.New("cookie: invalid signature")
)

// MinSecretLength is the shortest accepted signing secret.
const MinSecretLength = 32

// Manager handles cookie operations.
type Manager struct {
	secret    []byte
	secretErr error
	domain    string
	path      string
	secure    bool
	httpOnly  bool
	sameSite  http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a Manager. Without WithSecret only plain cookies work.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:      "/",
		httpOnly:  true,
		sameSite:  http.SameSiteLaxMode,
		secretErr: ErrNoSecret,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret sets the signing secret. Secrets shorter than
// MinSecretLength make every signing call fail with ErrBadSecret.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		switch {
		case secret == "":
			m.secret, m.secretErr = nil, ErrNoSecret
		case len(secret) < MinSecretLength:
			m.secret, m.secretErr = nil, ErrBadSecret
		default:
			m.secret, m.secretErr = []byte(secret), nil
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) { m.domain = domain }
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) { m.path = path }
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.httpOnly = httpOnly }
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.sameSite = ss }
}

// Err reports the secret configuration problem, if any.
func (m *Manager) Err() error {
	return m.secretErr
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set sets a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// Sign returns the signed encoding of value.
func (m *Manager) Sign(value string) (string, error) {
	if m.secretErr != nil {
		return "", m.secretErr
	}
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(value)) + "." + enc.EncodeToString(m.mac([]byte(value))), nil
}

// Verify decodes a signed encoding and checks its MAC.
func (m *Manager) Verify(signed string) (string, error) {
	if m.secretErr != nil {
		return "", m.secretErr
	}

	payload, sig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrBadSig
	}
	mac, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return "", ErrBadSig
	}
	if !hmac.Equal(mac, m.mac(value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// GetSigned returns the verified value of a signed cookie.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.secretErr != nil {
		return "", m.secretErr
	}
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.Verify(raw)
}

// SetSigned signs value and sets it as a cookie.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	signed, err := m.Sign(value)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(name, signed, maxAge))
	return nil
}

func (m *Manager) mac(value []byte) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write(value)
	return h.Sum(nil)
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
