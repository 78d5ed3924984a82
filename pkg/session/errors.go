package session

import (
	"errors"
	"fmt"
)

// Session errors.
var (
	// ErrNotConfigured is returned when no gate was configured on the app.
	ErrNotConfigured = errors.New("session: not configured")

	// ErrMissing is returned when the request carries no session cookie.
	ErrMissing = errors.New("session: not found")

	// ErrExpired is returned when the token is past its validity window
	// or was ended by logout.
	ErrExpired = errors.New("session: expired")

	// ErrMalformed is returned when the cookie fails signature
	// verification or cannot be decoded.
	ErrMalformed = errors.New("session: malformed token")
)

// Reason classifies why a request is unauthenticated.
type Reason string

const (
	ReasonMissing   Reason = "missing"
	ReasonExpired   Reason = "expired"
	ReasonMalformed Reason = "malformed"
)

// UnauthenticatedError is returned by Gate.Check for any request that does
// not carry a usable session.
type UnauthenticatedError struct {
	Err    error
	Reason Reason
}

func unauthenticated(reason Reason, cause error) *UnauthenticatedError {
	return &UnauthenticatedError{Reason: reason, Err: cause}
}

func (e *UnauthenticatedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.sentinel(), e.Err)
	}
	return e.sentinel().Error()
}

// Unwrap exposes the reason sentinel and the underlying cause.
func (e *UnauthenticatedError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.sentinel(), e.Err}
	}
	return []error{e.sentinel()}
}

// Message is the short human-readable reason shown to clients.
func (e *UnauthenticatedError) Message() string {
	switch e.Reason {
	case ReasonMissing:
		return "No session found"
	case ReasonExpired:
		return "Session expired"
	default:
		return "Invalid session"
	}
}

func (e *UnauthenticatedError) sentinel() error {
	switch e.Reason {
	case ReasonMissing:
		return ErrMissing
	case ReasonExpired:
		return ErrExpired
	default:
		return ErrMalformed
	}
}

// AsUnauthenticated extracts an UnauthenticatedError from err.
func AsUnauthenticated(err error) (*UnauthenticatedError, bool) {
	var ue *UnauthenticatedError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
