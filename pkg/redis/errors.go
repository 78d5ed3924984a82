package redis

import "errors"

var (
	ErrDisabled          = errors.New("redis: no connection URL configured")
	ErrFailedToParseURL  = errors.New("redis: failed to parse connection URL")
	ErrConnectionFailed  = errors.New("redis: failed to establish connection")
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)
