package keymap

import (
	"fmt"

	"github.com/dshills/sshlm/internal/input/key"
	"github.com/dshills/sshlm/internal/input/mode"
)

// Binding maps a hotkey to the mode it switches to.
type Binding struct {
	// Keys is the hotkey specification.
	// Formats: "Ctrl+]", "<C-]>", "F12", "Alt+l"
	Keys string

	// Target is the name of the mode the hotkey switches to.
	// Examples: "line", "quit"
	Target string

	// Description provides documentation for the binding.
	Description string
}

// NewBinding creates a new binding with the given keys and target mode.
func NewBinding(keys, target string) Binding {
	return Binding{
		Keys:   keys,
		Target: target,
	}
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// ParsedBinding is a binding resolved to the raw bytes of its hotkey.
type ParsedBinding struct {
	Binding

	// Event is the parsed hotkey.
	Event key.Event

	// Raw is what the terminal sends for the hotkey.
	Raw string

	// Mode is the resolved target mode.
	Mode mode.Mode
}

// Parse resolves the hotkey and target mode of b.
func (b Binding) Parse() (ParsedBinding, error) {
	if b.Keys == "" {
		return ParsedBinding{}, fmt.Errorf("%w: empty keys", ErrInvalidBinding)
	}

	ev, err := key.Parse(b.Keys)
	if err != nil {
		return ParsedBinding{}, fmt.Errorf("%w: %q: %v", ErrInvalidBinding, b.Keys, err)
	}
	raw, err := key.Encode(ev)
	if err != nil {
		return ParsedBinding{}, fmt.Errorf("%w: %q: %v", ErrInvalidBinding, b.Keys, err)
	}

	decoded := key.FromRaw(raw)
	if decoded.IsPrintable() || decoded.IsEnter() || decoded.IsDelete() {
		return ParsedBinding{}, fmt.Errorf("%w: %q would shadow ordinary typing", ErrInvalidBinding, b.Keys)
	}

	m, err := mode.Parse(b.Target)
	if err != nil {
		return ParsedBinding{}, fmt.Errorf("%w: %q: %v", ErrInvalidBinding, b.Keys, err)
	}

	return ParsedBinding{
		Binding: b,
		Event:   ev,
		Raw:     raw,
		Mode:    m,
	}, nil
}

// DefaultBindings returns the hotkeys used when none are configured.
func DefaultBindings() []Binding {
	return []Binding{
		NewBinding("Ctrl+]", "line").WithDescription("Toggle line editing"),
		NewBinding("Ctrl+\\", "quit").WithDescription("Ask to end the session"),
	}
}
