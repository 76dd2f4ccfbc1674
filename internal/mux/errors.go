package mux

import "errors"

var (
	// ErrSessionOver is returned by operations attempted after the session ended.
	ErrSessionOver = errors.New("session over")

	// ErrInvalidOutput means the session wrote bytes that are not UTF-8.
	ErrInvalidOutput = errors.New("session output is not valid UTF-8")

	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("multiplexer already running")
)
