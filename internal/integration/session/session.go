// Package session runs the interactive child program behind the multiplexer.
//
// A Session is a remote shell reached through an external transport, by
// default "ssh -t <destination>", running on a pseudo-terminal so that the
// remote side sees a real terminal.
package session

import (
	"context"
	"io"
)

// Session is a running interactive child process.
type Session interface {
	// Read reads output. It returns io.EOF once the session has ended.
	io.Reader

	// Write sends input to the session.
	io.Writer

	// IsAlive reports whether the child process is still running.
	IsAlive() bool

	// SetWindowSize changes the terminal size the child sees.
	SetWindowSize(rows, cols int) error

	// WaitNoEcho blocks until the child turns off terminal echo, as
	// password prompts do.
	WaitNoEcho(ctx context.Context) error

	// Terminate ends the child process. It is safe to call more than once.
	Terminate() error
}
