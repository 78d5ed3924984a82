package handlers

import (
	"errors"
	"net/http"

	"github.com/happydeel/mailroom/internal"
	"github.com/happydeel/mailroom/middlewares"
)

// errorResponse is the JSON body of every failed API call.
type errorResponse struct {
	Fields    map[string]string `json:"fields,omitempty"`
	Error     string            `json:"error"`
	Details   string            `json:"details,omitempty"`
	Code      string            `json:"code,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
	Success   bool              `json:"success"`
}

// ErrorHandler renders handler errors as JSON. HTTPErrors keep their
// status and message; panics, timeouts and anything else become 5xx
// without leaking internals.
func ErrorHandler(c internal.Context, err error) error {
	he := toHTTPError(err)
	if he.RequestID == "" {
		he.RequestID = middlewares.GetRequestID(c)
	}

	attrs := []any{
		"status", he.Code,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
		"error", err,
	}
	if he.Code >= http.StatusInternalServerError {
		c.LogError("request failed", attrs...)
	} else {
		c.LogWarn("request rejected", attrs...)
	}

	return c.JSON(he.Code, errorResponse{
		Success:   false,
		Error:     he.Message,
		Details:   he.Detail,
		Fields:    he.Fields,
		Code:      he.ErrorCode,
		RequestID: he.RequestID,
	})
}

func toHTTPError(err error) *internal.HTTPError {
	if he := internal.AsHTTPError(err); he != nil {
		return he
	}
	if middlewares.IsPanicError(err) {
		return internal.ErrInternal(http.StatusText(http.StatusInternalServerError), internal.WithError(err))
	}
	if middlewares.IsTimeoutError(err) {
		return internal.NewHTTPError(http.StatusGatewayTimeout, "Request timed out", internal.WithError(err))
	}
	if errors.Is(err, internal.ErrInvalidJSON) {
		return internal.ErrBadRequest(MsgInvalidBody, internal.WithError(err))
	}
	return internal.ErrInternal(http.StatusText(http.StatusInternalServerError), internal.WithError(err))
}

// NotFound answers unknown paths.
func NotFound(c internal.Context) error {
	return internal.ErrNotFound("Not found")
}

// MethodNotAllowed answers known paths called with the wrong method.
func MethodNotAllowed(c internal.Context) error {
	return internal.ErrMethodNotAllowed("Method not allowed")
}
