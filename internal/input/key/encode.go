package key

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnencodable is returned when a key combination has no byte
// representation a terminal could send, such as Ctrl+Enter.
var ErrUnencodable = errors.New("key cannot be sent by a terminal")

// csiTilde holds the "ESC [ n ~" parameter for keys encoded that way.
var csiTilde = map[Key]int{
	KeyInsert:   2,
	KeyDelete:   3,
	KeyPageUp:   5,
	KeyPageDown: 6,
	KeyF5:       15,
	KeyF6:       17,
	KeyF7:       18,
	KeyF8:       19,
	KeyF9:       20,
	KeyF10:      21,
	KeyF11:      23,
	KeyF12:      24,
}

// csiFinal holds the final byte for keys encoded as "ESC [ X" or "ESC O X".
var csiFinal = map[Key]byte{
	KeyUp:    'A',
	KeyDown:  'B',
	KeyRight: 'C',
	KeyLeft:  'D',
	KeyHome:  'H',
	KeyEnd:   'F',
	KeyF1:    'P',
	KeyF2:    'Q',
	KeyF3:    'R',
	KeyF4:    'S',
}

// Encode returns the bytes an xterm-compatible terminal sends for the
// event in its default (normal cursor key) mode.
func Encode(e Event) (string, error) {
	switch e.Key {
	case KeyRune:
		return encodeRune(e.Rune, e.Modifiers)
	case KeySpace:
		return encodeRune(' ', e.Modifiers)
	case KeyNone:
		return "", fmt.Errorf("%w: no key", ErrUnencodable)
	}

	if n, ok := csiTilde[e.Key]; ok {
		if e.Modifiers == ModNone {
			return "\x1b[" + strconv.Itoa(n) + "~", nil
		}
		return "\x1b[" + strconv.Itoa(n) + ";" + strconv.Itoa(e.Modifiers.xtermParam()) + "~", nil
	}
	if final, ok := csiFinal[e.Key]; ok {
		if e.Modifiers != ModNone {
			return "\x1b[1;" + strconv.Itoa(e.Modifiers.xtermParam()) + string(final), nil
		}
		if e.Key.IsFunctionKey() {
			return "\x1bO" + string(final), nil
		}
		return "\x1b[" + string(final), nil
	}

	var base string
	switch e.Key {
	case KeyEnter:
		base = "\r"
	case KeyTab:
		if e.Modifiers == ModShift {
			return "\x1b[Z", nil
		}
		base = "\t"
	case KeyEscape:
		base = "\x1b"
	case KeyBackspace:
		base = "\x7f"
	default:
		return "", fmt.Errorf("%w: %s", ErrUnencodable, e.Key)
	}

	switch e.Modifiers {
	case ModNone:
		return base, nil
	case ModAlt:
		return "\x1b" + base, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnencodable, e)
}

func encodeRune(r rune, mods Modifier) (string, error) {
	var prefix string
	if mods.HasAlt() {
		prefix = "\x1b"
		mods = mods.Without(ModAlt)
	}

	if !mods.HasCtrl() {
		// Shift is already reflected in the character.
		return prefix + string(r), nil
	}
	if mods.HasShift() && !(r >= 'a' && r <= 'z') {
		return "", fmt.Errorf("%w: Ctrl+Shift+%c", ErrUnencodable, r)
	}

	var b byte
	switch {
	case r >= 'a' && r <= 'z':
		b = byte(r-'a') + 1
	case r == '@' || r == ' ' || r == '2':
		b = 0x00
	case r == '[' || r == '3':
		b = 0x1b
	case r == '\\' || r == '4':
		b = 0x1c
	case r == ']' || r == '5':
		b = 0x1d
	case r == '^' || r == '6':
		b = 0x1e
	case r == '_' || r == '-' || r == '7':
		b = 0x1f
	case r == '?' || r == '8':
		b = 0x7f
	default:
		return "", fmt.Errorf("%w: Ctrl+%c", ErrUnencodable, r)
	}
	return prefix + string([]byte{b}), nil
}
