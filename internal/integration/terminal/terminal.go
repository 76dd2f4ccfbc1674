package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// Terminal is the user's terminal: the input keystrokes come from and the
// output the session is drawn on.
type Terminal struct {
	in  *os.File
	out *os.File

	mu          sync.Mutex
	state       *term.State
	restoreOnce sync.Once
	restoreErr  error
}

// New wraps in and out, which are normally os.Stdin and os.Stdout.
func New(in, out *os.File) (*Terminal, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return nil, fmt.Errorf("%w: %s", ErrNotTerminal, in.Name())
	}
	return &Terminal{in: in, out: out}, nil
}

// Input returns the keyboard side of the terminal.
func (t *Terminal) Input() *os.File {
	return t.in
}

// Output returns the display side of the terminal.
func (t *Terminal) Output() *os.File {
	return t.out
}

// MakeRaw saves the current terminal attributes and switches to raw mode.
// Restore puts the saved attributes back.
func (t *Terminal) MakeRaw() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.state = state
	return nil
}

// IsRaw reports whether MakeRaw succeeded and Restore has not run yet.
func (t *Terminal) IsRaw() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state != nil
}

// Restore restores the attributes saved by MakeRaw. Only the first call
// has an effect; later calls return the first call's result.
func (t *Terminal) Restore() error {
	t.restoreOnce.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.state == nil {
			return
		}
		if err := term.Restore(int(t.in.Fd()), t.state); err != nil {
			t.restoreErr = fmt.Errorf("restore terminal: %w", err)
		}
		t.state = nil
	})
	return t.restoreErr
}

// Size returns the window size in rows and columns.
func (t *Terminal) Size() (rows, cols int, err error) {
	fd := int(t.out.Fd())
	if !term.IsTerminal(fd) {
		fd = int(t.in.Fd())
	}
	cols, rows, err = term.GetSize(fd)
	if err != nil {
		return 0, 0, fmt.Errorf("get terminal size: %w", err)
	}
	if rows <= 0 || cols <= 0 {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}
	return rows, cols, nil
}
