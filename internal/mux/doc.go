// Package mux relays a remote shell session between the user's terminal
// and a pseudo-terminal, with an optional line editing mode layered on
// top.
//
// # Modes
//
// In passthrough mode every keystroke is written to the session as soon as
// it arrives. Line mode keeps typed text locally, echoes it and sends the
// whole line when Enter is pressed; Ctrl-C clears the pending line. The quit
// prompt asks for confirmation before the session is terminated.
//
// Hotkeys switching between modes come from a keymap.Keymap and are
// checked before any mode sees a keystroke.
//
// # Lifecycle
//
// Run puts the terminal in raw mode and starts the pumps that copy session
// output to the screen and keystrokes to the session. The session is over
// once End has been called, whoever called it. The terminal is always
// restored before Run returns.
//
//	m := mux.New(cfg, sess, keys, term, screen.New(os.Stdout))
//	if err := m.Run(ctx); err != nil {
//		return err
//	}
package mux
