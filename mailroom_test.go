package mailroom_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom"
)

type ping struct{}

func (ping) Routes(r mailroom.Router) {
	r.GET("/ping", func(c mailroom.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	r.GET("/fail", func(c mailroom.Context) error {
		return mailroom.ErrBadRequest("nope", mailroom.WithErrorCode("bad"))
	})
}

func TestFacade_ServeHTTP(t *testing.T) {
	t.Parallel()

	var got *mailroom.HTTPError
	app := mailroom.New(
		mailroom.WithHandlers(ping{}),
		mailroom.WithHealthChecks(),
		mailroom.WithErrorHandler(func(c mailroom.Context, err error) error {
			got = mailroom.AsHTTPError(err)
			return c.String(got.Code, got.Message)
		}),
	)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "bad", got.ErrorCode)

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFacade_Run(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	addrCh := make(chan net.Addr, 1)
	hookCalled := make(chan struct{}, 1)

	app := mailroom.New(mailroom.WithHandlers(ping{}))
	done := make(chan error, 1)
	go func() {
		done <- app.Run("127.0.0.1:0",
			mailroom.WithContext(ctx),
			mailroom.ShutdownTimeout(time.Second),
			mailroom.OnListen(func(a net.Addr) { addrCh <- a }),
			mailroom.ShutdownHook(func(context.Context) error {
				hookCalled <- struct{}{}
				return nil
			}),
		)
	}()

	var addr net.Addr
	select {
	case addr = <-addrCh:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/ping")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Len(t, hookCalled, 1)
}
