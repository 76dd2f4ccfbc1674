// Package screen serializes writes to the user's terminal.
//
// The session output, the notifier overlay and the line editor all draw on
// the same terminal line. Every write goes through one Screen so that a
// notifier erase can never interleave with a chunk of session output.
package screen

import (
	"io"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"
)

// Screen is a locked writer to the terminal.
type Screen struct {
	mu     sync.Mutex
	out    io.Writer
	styler *termenv.Output
}

// Option configures a Screen.
type Option func(*Screen)

// WithProfile forces a color profile for notices. By default the profile
// is detected from the writer, which yields plain text for non-terminals.
func WithProfile(p termenv.Profile) Option {
	return func(s *Screen) {
		s.styler = termenv.NewOutput(s.out, termenv.WithProfile(p))
	}
}

// New creates a Screen writing to w.
func New(w io.Writer, opts ...Option) *Screen {
	s := &Screen{out: w}
	for _, opt := range opts {
		opt(s)
	}
	if s.styler == nil {
		s.styler = termenv.NewOutput(w)
	}
	return s
}

// Write writes p under the screen lock.
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Write(p)
}

// WriteString writes str under the screen lock.
func (s *Screen) WriteString(str string) error {
	_, err := s.Write([]byte(str))
	return err
}

// Erase removes the cols columns left of the cursor by moving back,
// overwriting with spaces and moving back again. Zero or fewer columns
// is a no-op.
func (s *Screen) Erase(cols int) error {
	if cols <= 0 {
		return nil
	}
	return s.WriteString(EraseSequence(cols))
}

// EraseText removes text that was just written at the cursor.
func (s *Screen) EraseText(text string) error {
	return s.Erase(Width(text))
}

// Notice writes msg on its own line, highlighted when the terminal supports it.
func (s *Screen) Notice(msg string) error {
	styled := s.styler.String(msg).Bold().Foreground(s.styler.Color("1")).String()
	return s.WriteString("\r\n" + styled + "\r\n")
}

// EraseSequence returns the bytes that erase cols columns left of the cursor.
func EraseSequence(cols int) string {
	if cols <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(cols * 3)
	b.WriteString(strings.Repeat("\b", cols))
	b.WriteString(strings.Repeat(" ", cols))
	b.WriteString(strings.Repeat("\b", cols))
	return b.String()
}

// Width returns the number of terminal columns text occupies.
func Width(text string) int {
	return uniseg.StringWidth(text)
}
