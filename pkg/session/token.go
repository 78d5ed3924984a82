package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Token is the decoded session payload.
type Token struct {
	IssuedAt time.Time
	Username string
	ID       string
}

// Encode renders the payload as "username:unixSeconds:id".
// The username may itself contain colons; the last two fields never do.
func (t Token) Encode() string {
	return t.Username + ":" + strconv.FormatInt(t.IssuedAt.Unix(), 10) + ":" + t.ID
}

// ExpiresAt is the end of the validity window starting at IssuedAt.
func (t Token) ExpiresAt(ttl time.Duration) time.Time {
	return t.IssuedAt.Add(ttl)
}

// ParseToken decodes the output of Encode.
func ParseToken(s string) (Token, error) {
	rest, id, ok := cutLast(s, ":")
	if !ok || id == "" {
		return Token{}, fmt.Errorf("%w: missing token id", ErrMalformed)
	}
	username, issued, ok := cutLast(rest, ":")
	if !ok || username == "" {
		return Token{}, fmt.Errorf("%w: missing username", ErrMalformed)
	}
	sec, err := strconv.ParseInt(issued, 10, 64)
	if err != nil || sec <= 0 {
		return Token{}, fmt.Errorf("%w: bad timestamp", ErrMalformed)
	}
	return Token{Username: username, IssuedAt: time.Unix(sec, 0), ID: id}, nil
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
