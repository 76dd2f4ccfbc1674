package session

import "errors"

// Sentinel errors for the session package.
var (
	// ErrSessionClosed is returned when operations are attempted on a terminated session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrInvalidSize is returned when a window size is not positive.
	ErrInvalidSize = errors.New("invalid window size")

	// ErrEmptyCommand is returned when no command is configured.
	ErrEmptyCommand = errors.New("empty session command")

	// ErrCommandNotFound is returned when the session executable is not found.
	ErrCommandNotFound = errors.New("session command not found")
)
