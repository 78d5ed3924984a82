package middlewares_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom/internal"
	"github.com/happydeel/mailroom/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	newCtx := func() *testContext {
		return newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	}

	t.Run("handler sees a deadline", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		err := middlewares.Timeout(time.Minute)(func(c internal.Context) error {
			var ok bool
			deadline, ok = c.Deadline()
			require.True(t, ok)
			return nil
		})(newCtx())

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	})

	t.Run("deadline error becomes TimeoutError", func(t *testing.T) {
		t.Parallel()

		err := middlewares.Timeout(10 * time.Millisecond)(func(c internal.Context) error {
			<-c.Done()
			return fmt.Errorf("smtp dial: %w", c.Err())
		})(newCtx())

		te, ok := middlewares.AsTimeoutError(err)
		require.True(t, ok)
		assert.Equal(t, 10*time.Millisecond, te.Duration)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("HTTPError is left alone", func(t *testing.T) {
		t.Parallel()

		err := middlewares.Timeout(10 * time.Millisecond)(func(c internal.Context) error {
			<-c.Done()
			return internal.ErrInternal("Failed to connect to the mail server.", internal.WithError(c.Err()))
		})(newCtx())

		assert.False(t, middlewares.IsTimeoutError(err))
		assert.True(t, internal.IsHTTPError(err))
	})

	t.Run("other errors pass through", func(t *testing.T) {
		t.Parallel()

		sentinel := errors.New("nope")
		err := middlewares.Timeout(0)(func(internal.Context) error { return sentinel })(newCtx())
		assert.Same(t, sentinel, err)
	})

	t.Run("error text", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "request timeout after 5s", (&middlewares.TimeoutError{Duration: 5 * time.Second}).Error())
	})
}
