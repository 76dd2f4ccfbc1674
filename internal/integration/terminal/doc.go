// Package terminal manages the user's local terminal.
//
// It switches the terminal into raw mode so that every keystroke reaches
// the multiplexer unprocessed, restores the saved attributes exactly once
// however the session ends, and reports the window size for propagation
// to the remote side.
package terminal
