package service

import "errors"

// Sentinel kinds returned by the service. The HTTP layer maps them to status codes.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrNoStore         = errors.New("no store configured")
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrSettingsMissing = errors.New("user has no settings")
)
