package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a key specification string into an Event.
//
// Supported formats:
//   - Single character: "a", "A", "~", or a literal control character
//   - Special keys: "Enter", "Escape", "Tab", "Backspace", "F12"
//   - With modifiers: "Ctrl+]", "Alt+l", "Ctrl+Shift+Up"
//   - Vim-style: "<C-]>", "<A-l>", "<CR>", "<Esc>"
func Parse(spec string) (Event, error) {
	if utf8.RuneCountInString(spec) == 1 {
		return parseSingle(spec)
	}

	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}
	if spec == "<>" {
		return Event{}, ErrInvalidSpec
	}

	if strings.Contains(spec[:len(spec)-1], "+") {
		return parseModifierStyle(spec)
	}

	return parseSingle(spec)
}

// parseVimStyle parses Vim-style notation like "C-]", "A-F4", "CR", "Esc"
func parseVimStyle(inner string) (Event, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Event{}, ErrInvalidSpec
	}

	// "C--" binds Ctrl with the minus key.
	keyPart := inner
	var modPart string
	if strings.HasSuffix(inner, "--") {
		keyPart = "-"
		modPart = inner[:len(inner)-2]
	} else if i := strings.LastIndex(inner, "-"); i >= 0 {
		keyPart = inner[i+1:]
		modPart = inner[:i]
	}

	var mods Modifier
	if modPart != "" {
		for _, p := range strings.Split(modPart, "-") {
			switch strings.ToLower(strings.TrimSpace(p)) {
			case "c":
				mods = mods.With(ModCtrl)
			case "a", "m":
				mods = mods.With(ModAlt)
			case "s":
				mods = mods.With(ModShift)
			default:
				return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
			}
		}
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseModifierStyle parses "Ctrl+S" style notation. The last "+" separates
// the key, so "Ctrl++" binds Ctrl with the plus key.
func parseModifierStyle(spec string) (Event, error) {
	i := strings.LastIndex(spec[:len(spec)-1], "+")
	keyPart := spec[i+1:]

	var mods Modifier
	for _, p := range strings.Split(spec[:i], "+") {
		p = strings.TrimSpace(p)
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKeyWithModifiers(keyPart, mods)
}

// parseSingle parses a single character or key name
func parseSingle(spec string) (Event, error) {
	runes := []rune(spec)
	if len(runes) == 1 {
		r := runes[0]
		if r == ' ' {
			return NewRuneEvent(' ', ModNone), nil
		}
		var mods Modifier
		// Uppercase letters have implicit Shift
		if unicode.IsUpper(r) {
			mods = ModShift
		}
		return NewRuneEvent(r, mods), nil
	}

	if key := KeyFromName(spec); key != KeyNone {
		if key == KeySpace {
			return NewRuneEvent(' ', ModNone), nil
		}
		return NewSpecialEvent(key, ModNone), nil
	}

	return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseKeyWithModifiers parses a key part with already-known modifiers
func parseKeyWithModifiers(keyPart string, mods Modifier) (Event, error) {
	if keyPart != " " {
		keyPart = strings.TrimSpace(keyPart)
	}
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	switch strings.ToLower(keyPart) {
	case "space":
		return NewRuneEvent(' ', mods), nil
	case "lt":
		return NewRuneEvent('<', mods), nil
	case "gt":
		return NewRuneEvent('>', mods), nil
	case "bar":
		return NewRuneEvent('|', mods), nil
	case "bslash":
		return NewRuneEvent('\\', mods), nil
	}

	if key := KeyFromName(keyPart); key != KeyNone {
		return NewSpecialEvent(key, mods), nil
	}

	runes := []rune(keyPart)
	if len(runes) == 1 {
		r := runes[0]
		// For Ctrl combinations, use lowercase
		if mods.HasCtrl() {
			r = unicode.ToLower(r)
		}
		return NewRuneEvent(r, mods), nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}

// ParseRaw parses a key specification and returns the bytes a terminal
// sends for it.
func ParseRaw(spec string) (string, error) {
	event, err := Parse(spec)
	if err != nil {
		return "", err
	}
	raw, err := Encode(event)
	if err != nil {
		return "", fmt.Errorf("%q: %w", spec, err)
	}
	return raw, nil
}
