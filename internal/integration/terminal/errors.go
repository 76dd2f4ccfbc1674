package terminal

import "errors"

// Sentinel errors for the terminal package.
var (
	// ErrNotTerminal is returned when the input is not an interactive terminal.
	ErrNotTerminal = errors.New("not a terminal")

	// ErrInvalidSize is returned when the terminal reports an unusable size.
	ErrInvalidSize = errors.New("invalid terminal size")
)
