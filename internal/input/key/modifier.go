package key

import "strings"

// Modifier represents keyboard modifier keys a terminal can report.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (Option on macOS). Terminals send it as an ESC prefix.
	ModAlt
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift returns true if Shift is pressed.
func (m Modifier) HasShift() bool { return m.Has(ModShift) }

// HasCtrl returns true if Control is pressed.
func (m Modifier) HasCtrl() bool { return m.Has(ModCtrl) }

// HasAlt returns true if Alt is pressed.
func (m Modifier) HasAlt() bool { return m.Has(ModAlt) }

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// String returns a human-readable representation like "Ctrl+Alt".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.HasCtrl() {
		parts = append(parts, "Ctrl")
	}
	if m.HasAlt() {
		parts = append(parts, "Alt")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// xtermParam returns the modifier parameter xterm uses in CSI sequences
// ("1;5A" for Ctrl+Up). A plain key has parameter 1.
func (m Modifier) xtermParam() int {
	p := 1
	if m.HasShift() {
		p += 1
	}
	if m.HasAlt() {
		p += 2
	}
	if m.HasCtrl() {
		p += 4
	}
	return p
}

// modifierFromXterm is the inverse of xtermParam.
func modifierFromXterm(p int) Modifier {
	if p <= 1 {
		return ModNone
	}
	p--
	var m Modifier
	if p&1 != 0 {
		m = m.With(ModShift)
	}
	if p&2 != 0 {
		m = m.With(ModAlt)
	}
	if p&4 != 0 {
		m = m.With(ModCtrl)
	}
	return m
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"c":       ModCtrl,
	"alt":     ModAlt,
	"a":       ModAlt,
	"meta":    ModAlt, // terminals deliver Meta as an ESC prefix, same as Alt
	"m":       ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"s":       ModShift,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	if m, ok := modifierNameMap[strings.ToLower(name)]; ok {
		return m
	}
	return ModNone
}
