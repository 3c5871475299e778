package remote

import "codeberg.org/mutker/kweeb/internal/errors"

const (
	ErrInvalidConfig = errors.ErrInvalidConfig
	ErrSync          = errors.ErrSync
	ErrUnexpected    = errors.ErrorCode("remote_unexpected_response")
)
