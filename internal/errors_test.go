package internal_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/happydeel/mailroom/internal"
)

func TestIsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("direct HTTPError", func(t *testing.T) {
		t.Parallel()
		err := internal.NewHTTPError(http.StatusNotFound, "not found")
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("wrapped HTTPError", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.NewHTTPError(http.StatusBadRequest, "bad request")
		err := fmt.Errorf("handler failed: %w", httpErr)
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("double-wrapped HTTPError", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.ErrMethodNotAllowed("Method not allowed")
		err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", httpErr))
		require.True(t, internal.IsHTTPError(err))
	})

	t.Run("unrelated error", func(t *testing.T) {
		t.Parallel()
		err := errors.New("something went wrong")
		require.False(t, internal.IsHTTPError(err))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		require.False(t, internal.IsHTTPError(nil))
	})
}

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("direct HTTPError", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.NewHTTPError(http.StatusNotFound, "not found")
		got := internal.AsHTTPError(httpErr)
		require.NotNil(t, got)
		require.Equal(t, http.StatusNotFound, got.Code)
		require.Equal(t, "not found", got.Message)
	})

	t.Run("wrapped HTTPError preserves fields", func(t *testing.T) {
		t.Parallel()
		httpErr := internal.ErrUnauthorized("Authentication required",
			internal.WithDetail("Session expired"),
			internal.WithErrorCode("session_expired"),
		)
		err := fmt.Errorf("middleware: %w", httpErr)

		got := internal.AsHTTPError(err)
		require.NotNil(t, got)
		require.Equal(t, http.StatusUnauthorized, got.Code)
		require.Equal(t, "Authentication required", got.Message)
		require.Equal(t, "Session expired", got.Detail)
		require.Equal(t, "session_expired", got.ErrorCode)
	})

	t.Run("unrelated error returns nil", func(t *testing.T) {
		t.Parallel()
		err := errors.New("plain error")
		require.Nil(t, internal.AsHTTPError(err))
	})

	t.Run("nil returns nil", func(t *testing.T) {
		t.Parallel()
		require.Nil(t, internal.AsHTTPError(nil))
	})
}

func TestConstructors(t *testing.T) {
	t.Parallel()

	cause := errors.New("smtp: 535 bad credentials")
	tests := []struct {
		err  *internal.HTTPError
		code int
	}{
		{internal.ErrBadRequest("bad"), http.StatusBadRequest},
		{internal.ErrUnauthorized("auth"), http.StatusUnauthorized},
		{internal.ErrNotFound("missing"), http.StatusNotFound},
		{internal.ErrMethodNotAllowed("method"), http.StatusMethodNotAllowed},
		{internal.ErrInternal("boom", internal.WithError(cause)), http.StatusInternalServerError},
		{internal.ErrServiceUnavailable("down"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		require.Equal(t, tt.code, tt.err.StatusCode())
		require.Equal(t, http.StatusText(tt.code), tt.err.StatusText())
	}

	require.ErrorIs(t, tests[4].err, cause)

	withFields := internal.ErrBadRequest("Validation failed", internal.WithFields(map[string]string{"customerEmail": "Invalid email format"}))
	require.Equal(t, "Invalid email format", withFields.Fields["customerEmail"])
}
