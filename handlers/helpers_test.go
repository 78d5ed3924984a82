package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom/emails"
	"github.com/happydeel/mailroom/handlers"
	"github.com/happydeel/mailroom/internal"
	"github.com/happydeel/mailroom/middlewares"
	"github.com/happydeel/mailroom/pkg/cookie"
	"github.com/happydeel/mailroom/pkg/mailer"
	"github.com/happydeel/mailroom/pkg/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testCreds = handlers.Credentials{Username: "staff", Password: "s3cret"}

// recordingSender captures sent emails and returns sequential IDs. It
// fails with err when set and waits for the context to end when block is
// set.
type recordingSender struct {
	err   error
	sent  []*mailer.Email
	mu    sync.Mutex
	block bool
}

func (s *recordingSender) Send(ctx context.Context, e *mailer.Email) (string, error) {
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.sent = append(s.sent, e)
	return fmt.Sprintf("msg-%d", len(s.sent)), nil
}

func (s *recordingSender) last() *mailer.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return nil
	}
	return s.sent[len(s.sent)-1]
}

type testEnv struct {
	app    *internal.App
	sender *recordingSender
}

func newEnv(t *testing.T, opts ...handlers.EmailOption) *testEnv {
	t.Helper()

	sender := &recordingSender{}
	composer, err := emails.NewComposer(emails.Config{
		FromAddress:      "orders@happydeel.com",
		StoreName:        "Happydeel",
		StoreTagline:     "Buy smart.",
		RefundSenderName: "Customer Service",
		SupportEmail:     "support@happydeel.com",
		SupportPhone:     "+17176484487",
	}, sender)
	require.NoError(t, err)

	gate, err := session.NewGate(
		cookie.New(cookie.WithSecret(testSecret)),
		session.WithRevoker(session.NewMemoryRevoker()),
	)
	require.NoError(t, err)

	app := internal.New(
		internal.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithNotFoundHandler(handlers.NotFound),
		internal.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		internal.WithSession(gate),
		internal.WithHandlers(
			handlers.NewAuthHandler(testCreds),
			handlers.NewEmailHandler(composer, opts...),
			handlers.NewPageHandler("Happydeel"),
		),
	)
	return &testEnv{app: app, sender: sender}
}

func (e *testEnv) do(method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)
	return rec
}

// login signs in with testCreds and returns the session cookies.
func (e *testEnv) login(t *testing.T) []*http.Cookie {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/login", `{"username":"staff","password":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("X", 3600))
}
