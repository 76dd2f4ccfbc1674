package key

import (
	"fmt"
	"time"
	"unicode"
	"unicode/utf8"
)

// Event is a single keystroke. Events built by Parse describe a key
// specification; events produced by a Decoder also carry the exact bytes
// the terminal sent in Raw.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Raw is the byte string received from the terminal.
	Raw string

	// Sequence is set when Raw is a multi-byte escape sequence
	// (cursor keys, function keys, Alt chords).
	Sequence bool

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{
		Key:       key,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// FromRaw creates an event for bytes received outside of a Decoder,
// such as a synthetic keystroke injected by a signal handler.
func FromRaw(raw string) Event {
	var d Decoder
	d.Feed([]byte(raw))
	if ev, ok := d.Next(true); ok && ev.Raw == raw {
		return ev
	}
	return Event{Key: KeyNone, Raw: raw, Sequence: len(raw) > 1, Timestamp: time.Now()}
}

// IsControl returns true if the keystroke is a single character in the
// Unicode control category (Cc). Enter, Tab and Backspace are control
// characters too; callers that treat them specially must check them first.
func (e Event) IsControl() bool {
	if e.Sequence || e.Raw == "" {
		return false
	}
	r, size := utf8.DecodeRuneInString(e.Raw)
	return size == len(e.Raw) && unicode.IsControl(r)
}

// IsPrintable returns true if the keystroke is a single printable character.
func (e Event) IsPrintable() bool {
	if e.Sequence || e.Raw == "" {
		return false
	}
	r, size := utf8.DecodeRuneInString(e.Raw)
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return size == len(e.Raw) && unicode.IsPrint(r)
}

// IsInvalid returns true if the keystroke bytes are not UTF-8, as when a
// terminal sends a stray high byte.
func (e Event) IsInvalid() bool {
	return !e.Sequence && e.Raw != "" && !utf8.ValidString(e.Raw)
}

// IsEnter returns true for the Enter key (CR, LF or keypad enter).
func (e Event) IsEnter() bool {
	return e.Key == KeyEnter && e.Modifiers == ModNone
}

// IsDelete returns true for the keys that erase the previous character.
// Terminals disagree on whether that key sends DEL, BS or the Delete
// sequence, so all three are treated alike.
func (e Event) IsDelete() bool {
	return (e.Key == KeyBackspace || e.Key == KeyDelete) && e.Modifiers == ModNone
}

// String returns a readable name like "a", "Ctrl+]", "Alt+x" or "Up".
func (e Event) String() string {
	var name string
	switch e.Key {
	case KeyRune:
		if e.Rune == ' ' {
			name = "Space"
		} else {
			name = string(e.Rune)
		}
	case KeyNone:
		if e.Raw != "" {
			return fmt.Sprintf("%q", e.Raw)
		}
		name = "None"
	default:
		name = e.Key.String()
	}

	mods := e.Modifiers
	if e.Key == KeyRune {
		// Shift is part of the character itself.
		mods = mods.Without(ModShift)
	}
	if mods == ModNone {
		return name
	}
	return mods.String() + "+" + name
}
