package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSender indicates no From address was set.
	ErrNoSender = errors.New("email must have a sender")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("email must have HTML content")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrSendFailed indicates email sending failed.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
)

// Category is a coarse classification of a delivery failure.
type Category string

const (
	CategoryAuth       Category = "auth"
	CategoryConnection Category = "connection"
	CategoryOther      Category = "other"
)

// SendError is returned by senders when the provider rejects or cannot be
// reached.
type SendError struct {
	Err      error
	Provider string
	Category Category
}

// NewSendError wraps err with a provider name and category.
func NewSendError(provider string, category Category, err error) *SendError {
	return &SendError{Provider: provider, Category: category, Err: err}
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s: %s failure: %v", e.Provider, e.Category, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Categorize classifies a send error. A *SendError keeps its category; bare
// timeouts and network errors count as connection failures; anything else
// is other.
func Categorize(err error) Category {
	if err == nil {
		return ""
	}

	var se *SendError
	if errors.As(err, &se) && se.Category != "" {
		return se.Category
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryConnection
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return CategoryConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return CategoryConnection
	}

	return CategoryOther
}
