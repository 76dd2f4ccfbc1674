package keymap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/sshlm/internal/input/mode"
)

// Keymap errors
var (
	ErrInvalidBinding   = errors.New("invalid hotkey binding")
	ErrDuplicateBinding = errors.New("duplicate hotkey binding")
)

// Keymap is the hotkey table: for each mode it maps the raw bytes of a
// hotkey to the mode that hotkey switches to.
//
// A binding that targets Passthrough or LineBuffered is a toggle: the same
// key switches from Passthrough to LineBuffered and back. A binding that
// targets QuitPrompt is active in both of the other modes. QuitPrompt
// itself has no hotkeys, so every key reaches the prompt handler.
//
// A Keymap is immutable after New and safe for concurrent use.
type Keymap struct {
	tables   map[mode.Mode]map[string]mode.Mode
	bindings []ParsedBinding
}

// New builds a keymap from bindings.
func New(bindings []Binding) (*Keymap, error) {
	k := &Keymap{
		tables: make(map[mode.Mode]map[string]mode.Mode, len(mode.All())),
	}
	for _, m := range mode.All() {
		k.tables[m] = make(map[string]mode.Mode)
	}

	seen := make(map[string]string, len(bindings))
	for i, b := range bindings {
		pb, err := b.Parse()
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		if prev, dup := seen[pb.Raw]; dup {
			return nil, fmt.Errorf("%w: %q and %q send the same keys", ErrDuplicateBinding, prev, b.Keys)
		}
		seen[pb.Raw] = b.Keys

		switch pb.Mode {
		case mode.Passthrough, mode.LineBuffered:
			k.tables[mode.Passthrough][pb.Raw] = mode.LineBuffered
			k.tables[mode.LineBuffered][pb.Raw] = mode.Passthrough
		case mode.QuitPrompt:
			k.tables[mode.Passthrough][pb.Raw] = mode.QuitPrompt
			k.tables[mode.LineBuffered][pb.Raw] = mode.QuitPrompt
		}
		k.bindings = append(k.bindings, pb)
	}

	return k, nil
}

// MustNew builds a keymap and panics on error.
func MustNew(bindings []Binding) *Keymap {
	k, err := New(bindings)
	if err != nil {
		panic(err)
	}
	return k
}

// IsHotkey reports whether raw is a hotkey in mode m.
func (k *Keymap) IsHotkey(m mode.Mode, raw string) bool {
	_, ok := k.tables[m][raw]
	return ok
}

// Target returns the mode that raw switches to from mode m.
func (k *Keymap) Target(m mode.Mode, raw string) (mode.Mode, bool) {
	to, ok := k.tables[m][raw]
	return to, ok
}

// Bindings returns the parsed bindings sorted by target mode, then keys.
func (k *Keymap) Bindings() []ParsedBinding {
	out := make([]ParsedBinding, len(k.bindings))
	copy(out, k.bindings)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mode != out[j].Mode {
			return out[i].Mode < out[j].Mode
		}
		return out[i].Keys < out[j].Keys
	})
	return out
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	return len(k.bindings)
}
