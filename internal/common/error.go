package common

import "errors"

var (
	// Session errors.
	ErrInvalidToken = errors.New("invalid token")

	// Configuration errors.
	ErrUnknownBackend = errors.New("unknown backend")
)
