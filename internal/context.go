package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/happydeel/mailroom/pkg/session"
)

// MaxJSONBodySize caps request bodies read by BindJSON.
const MaxJSONBodySize = 64 << 10

// ErrInvalidJSON is returned by BindJSON for bodies that are not a single
// JSON value.
var ErrInvalidJSON = errors.New("invalid JSON body")

// tokenKey caches the checked session token on the request context.
type tokenKey struct{}

// Component is the interface for renderable templates.
// This is compatible with templ.Component.
type Component interface {
	Render(ctx context.Context, w io.Writer) error
}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// SetContext replaces the request context, e.g. to attach a deadline.
	SetContext(ctx context.Context)

	// Query returns the query parameter value by name.
	Query(name string) string

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to url with the given status code.
	Redirect(code int, url string) error

	// Error creates an HTTPError without writing a response.
	// Return it from the handler to reach the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Render renders a component as text/html with the given status code.
	Render(code int, component Component) error

	// BindJSON decodes the request body into v. Bodies larger than
	// MaxJSONBodySize, empty bodies and trailing data fail with an error
	// wrapping ErrInvalidJSON.
	BindJSON(v any) error

	// Written reports whether a response has been written.
	Written() bool

	// Logger returns the app logger.
	Logger() *slog.Logger

	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context, or nil.
	Get(key any) any

	// Session returns the token of the request's session cookie.
	// Returns session.ErrNotConfigured without WithSession, and a
	// *session.UnauthenticatedError for missing, expired or malformed
	// cookies.
	Session() (session.Token, error)

	// SessionTTL returns the validity window of issued sessions.
	SessionTTL() time.Duration

	// IssueSession starts a session for username and sets its cookie.
	IssueSession(username string) (session.Token, error)

	// ClearSession removes the session cookie and revokes its token.
	ClearSession() error

	// ResponseWriter returns the wrapping ResponseWriter.
	ResponseWriter() *ResponseWriter
}

// requestContext implements the Context interface.
type requestContext struct {
	response       http.ResponseWriter
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	gate           *session.Gate
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw := NewResponseWriter(w)
	return &requestContext{
		request:        r,
		response:       rw,
		responseWriter: rw,
		logger:         app.logger,
		gate:           app.gate,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Render(code int, component Component) error {
	c.response.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *requestContext) BindJSON(v any) error {
	body := http.MaxBytesReader(c.response, c.request.Body, MaxJSONBodySize)
	defer body.Close()

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
	}
	return nil
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Session() (session.Token, error) {
	if c.gate == nil {
		return session.Token{}, session.ErrNotConfigured
	}
	if tok, ok := c.Get(tokenKey{}).(session.Token); ok {
		return tok, nil
	}

	tok, err := c.gate.Check(c.request)
	if err != nil {
		return session.Token{}, err
	}
	c.Set(tokenKey{}, tok)
	return tok, nil
}

func (c *requestContext) SessionTTL() time.Duration {
	if c.gate == nil {
		return 0
	}
	return c.gate.TTL()
}

func (c *requestContext) IssueSession(username string) (session.Token, error) {
	if c.gate == nil {
		return session.Token{}, session.ErrNotConfigured
	}
	tok, err := c.gate.Issue(c.response, username)
	if err != nil {
		return session.Token{}, err
	}
	c.Set(tokenKey{}, tok)
	return tok, nil
}

func (c *requestContext) ClearSession() error {
	if c.gate == nil {
		return session.ErrNotConfigured
	}
	c.Set(tokenKey{}, nil)
	return c.gate.Clear(c.response, c.request)
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}
