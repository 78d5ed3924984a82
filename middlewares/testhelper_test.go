package middlewares_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/happydeel/mailroom/internal"
	"github.com/happydeel/mailroom/pkg/session"
)

// testContext is a minimal internal.Context for exercising middleware in
// isolation.
type testContext struct {
	response http.ResponseWriter
	request  *http.Request
	token    *session.Token
	sessErr  error
	logs     []string
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{response: w, request: r, sessErr: session.ErrNotConfigured}
}

func (c *testContext) Request() *http.Request         { return c.request }
func (c *testContext) Response() http.ResponseWriter  { return c.response }
func (c *testContext) Context() context.Context       { return c.request.Context() }
func (c *testContext) SetContext(ctx context.Context) { c.request = c.request.WithContext(ctx) }
func (c *testContext) Query(name string) string       { return c.request.URL.Query().Get(name) }
func (c *testContext) Header(name string) string      { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)   { c.response.Header().Set(name, value) }
func (c *testContext) JSON(code int, v any) error     { c.response.WriteHeader(code); return nil }
func (c *testContext) NoContent(code int) error       { c.response.WriteHeader(code); return nil }
func (c *testContext) BindJSON(v any) error           { return nil }
func (c *testContext) Written() bool                  { return false }
func (c *testContext) Logger() *slog.Logger           { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
func (c *testContext) SessionTTL() time.Duration      { return session.DefaultTTL }
func (c *testContext) ClearSession() error            { return nil }

func (c *testContext) ResponseWriter() *internal.ResponseWriter { return nil }

func (c *testContext) String(code int, s string) error {
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func (c *testContext) Render(code int, component internal.Component) error {
	c.response.WriteHeader(code)
	return component.Render(c.request.Context(), c.response)
}

func (c *testContext) LogDebug(msg string, attrs ...any) { c.logs = append(c.logs, msg) }
func (c *testContext) LogInfo(msg string, attrs ...any)  { c.logs = append(c.logs, msg) }
func (c *testContext) LogWarn(msg string, attrs ...any)  { c.logs = append(c.logs, msg) }
func (c *testContext) LogError(msg string, attrs ...any) { c.logs = append(c.logs, msg) }

func (c *testContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) Get(key any) any { return c.request.Context().Value(key) }

func (c *testContext) Session() (session.Token, error) {
	if c.token != nil {
		return *c.token, nil
	}
	return session.Token{}, c.sessErr
}

func (c *testContext) IssueSession(username string) (session.Token, error) {
	tok := session.Token{Username: username, IssuedAt: time.Now()}
	c.token = &tok
	return tok, nil
}

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }
