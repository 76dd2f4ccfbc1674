package mux

import (
	"time"

	"github.com/dshills/sshlm/internal/input/key"
)

// KeyReader yields keystrokes from the user's terminal.
type KeyReader interface {
	// Next waits up to timeout for a keystroke. It returns false when
	// none arrived.
	Next(timeout time.Duration) (key.Event, bool, error)

	// Inject queues a synthetic keystroke. It may be called from any goroutine.
	Inject(ev key.Event)
}

// Terminal is the user's terminal.
type Terminal interface {
	// MakeRaw saves the terminal attributes and switches to raw mode.
	MakeRaw() error

	// Restore puts the saved attributes back. Calls after the first do nothing.
	Restore() error

	// Size returns the terminal dimensions.
	Size() (rows, cols int, err error)
}
