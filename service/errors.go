package service

import "errors"

var (
	// ErrDuplicateEmail is returned when registering an email that is
	// already taken.
	ErrDuplicateEmail = errors.New("email already in use")

	// ErrInvalidCredentials is a single undifferentiated login failure,
	// so callers cannot tell which field was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound is returned on an owner-scoped lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamNotConfigured is returned when no analysis-provider
	// credential is configured system-wide.
	ErrUpstreamNotConfigured = errors.New("analysis provider not configured")
)
