package client

import "errors"

var (
	ErrUsage        = errors.New("invalid usage")
	ErrNoSession    = errors.New("no cached session, run login first")
	ErrAccessDenied = errors.New("access denied")
	ErrNoAdminKey   = errors.New("admin key is not set")
)
