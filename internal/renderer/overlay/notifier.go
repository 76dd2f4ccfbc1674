// Package overlay draws transient notices over the session output.
//
// A notice is written at the cursor, blocks keystroke processing while it
// is visible, and erases itself after its duration. Showing a new notice
// replaces the visible one immediately.
package overlay

import (
	"sync"
	"time"
)

// Drawer is the part of the screen a Notifier draws on.
type Drawer interface {
	WriteString(s string) error
	EraseText(s string) error
}

// Notifier shows one transient message at a time.
type Notifier struct {
	mu     sync.Mutex
	screen Drawer
	gate   *Gate

	// text is the visible message, empty when none is shown.
	text string

	// generation identifies the latest Display. A removal timer only acts
	// if no newer message replaced the one it was scheduled for.
	generation uint64
	timer      *time.Timer

	onError func(error)
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithErrorHandler sets a callback for screen errors raised when a timed
// removal erases a message.
func WithErrorHandler(fn func(error)) NotifierOption {
	return func(n *Notifier) {
		n.onError = fn
	}
}

// NewNotifier creates a Notifier drawing on screen.
func NewNotifier(screen Drawer, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		screen: screen,
		gate:   NewGate(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Gate returns the keypress gate, closed while a message is visible.
func (n *Notifier) Gate() *Gate {
	return n.gate
}

// Visible returns the message currently on screen.
func (n *Notifier) Visible() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.text
}

// Display erases any visible message, writes msg and closes the gate.
// After d the message is erased and the gate reopened, unless another
// Display happened in the meantime.
func (n *Notifier) Display(msg string, d time.Duration) error {
	if msg == "" {
		return n.Clear()
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.generation++
	gen := n.generation

	if err := n.eraseLocked(); err != nil {
		n.gate.Open()
		return err
	}
	n.text = msg
	n.gate.Close()
	if err := n.screen.WriteString(msg); err != nil {
		n.text = ""
		n.gate.Open()
		return err
	}

	n.timer = time.AfterFunc(d, func() {
		n.remove(gen)
	})
	return nil
}

// Clear erases the visible message now and reopens the gate.
func (n *Notifier) Clear() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.generation++
	err := n.eraseLocked()
	n.gate.Open()
	return err
}

func (n *Notifier) remove(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.generation {
		return
	}
	err := n.eraseLocked()
	n.timer = nil
	n.gate.Open()
	if err != nil && n.onError != nil {
		n.onError(err)
	}
}

// eraseLocked removes the visible message. The caller holds n.mu.
func (n *Notifier) eraseLocked() error {
	if n.text == "" {
		return nil
	}
	text := n.text
	n.text = ""
	return n.screen.EraseText(text)
}
