package mode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode name is not recognized.
var ErrUnknownMode = errors.New("unknown mode")

// Mode identifies how keystrokes are routed.
type Mode uint8

const (
	// Passthrough sends every keystroke straight to the session.
	Passthrough Mode = iota

	// LineBuffered edits a line locally and sends it on Enter.
	LineBuffered

	// QuitPrompt asks the user to confirm ending the session.
	QuitPrompt

	numModes
)

var modeNames = [numModes]string{
	Passthrough:  "passthrough",
	LineBuffered: "line",
	QuitPrompt:   "quit",
}

// String returns the canonical mode name.
func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool {
	return m < numModes
}

// All returns every mode in declaration order.
func All() []Mode {
	return []Mode{Passthrough, LineBuffered, QuitPrompt}
}

// modeAliases maps accepted names (lowercase) to modes.
var modeAliases = map[string]Mode{
	"passthrough":   Passthrough,
	"pass":          Passthrough,
	"line":          LineBuffered,
	"linebuffered":  LineBuffered,
	"line-buffered": LineBuffered,
	"line_buffered": LineBuffered,
	"quit":          QuitPrompt,
	"quitprompt":    QuitPrompt,
	"quit-prompt":   QuitPrompt,
	"quit_prompt":   QuitPrompt,
}

// Parse returns the mode for a name (case-insensitive).
func Parse(name string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// mustValid panics if m is not a defined mode. Routing a keystroke for an
// undefined mode is a programming error.
func mustValid(m Mode) {
	if !m.Valid() {
		panic(fmt.Sprintf("mode: invalid mode %d", m))
	}
}
