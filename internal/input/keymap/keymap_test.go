package keymap

import (
	"errors"
	"testing"

	"github.com/dshills/sshlm/internal/input/mode"
)

func TestNewToggleSymmetry(t *testing.T) {
	km, err := New([]Binding{NewBinding("Ctrl+]", "line")})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	to, ok := km.Target(mode.Passthrough, "\x1d")
	if !ok || to != mode.LineBuffered {
		t.Errorf("Target(passthrough) = %v, %v; want line, true", to, ok)
	}
	to, ok = km.Target(mode.LineBuffered, "\x1d")
	if !ok || to != mode.Passthrough {
		t.Errorf("Target(line) = %v, %v; want passthrough, true", to, ok)
	}
	if km.IsHotkey(mode.QuitPrompt, "\x1d") {
		t.Error("quit prompt should have no hotkeys")
	}
}

func TestNewPassthroughTargetIsToggle(t *testing.T) {
	km := MustNew([]Binding{NewBinding("F12", "passthrough")})

	if to, _ := km.Target(mode.Passthrough, "\x1b[24~"); to != mode.LineBuffered {
		t.Errorf("Target(passthrough, F12) = %v, want line", to)
	}
	if to, _ := km.Target(mode.LineBuffered, "\x1b[24~"); to != mode.Passthrough {
		t.Errorf("Target(line, F12) = %v, want passthrough", to)
	}
}

func TestNewQuitBinding(t *testing.T) {
	km := MustNew(DefaultBindings())

	for _, m := range []mode.Mode{mode.Passthrough, mode.LineBuffered} {
		to, ok := km.Target(m, "\x1c")
		if !ok || to != mode.QuitPrompt {
			t.Errorf("Target(%v, Ctrl+\\) = %v, %v; want quit, true", m, to, ok)
		}
	}
	for _, raw := range []string{"\x1c", "\x1d", "y", "n", "\r"} {
		if km.IsHotkey(mode.QuitPrompt, raw) {
			t.Errorf("IsHotkey(quit, %q) = true, want false", raw)
		}
	}
}

func TestIsHotkeyUnbound(t *testing.T) {
	km := MustNew(DefaultBindings())
	for _, m := range mode.All() {
		for _, raw := range []string{"a", "\x03", "\x1b[A", ""} {
			if km.IsHotkey(m, raw) {
				t.Errorf("IsHotkey(%v, %q) = true, want false", m, raw)
			}
		}
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name     string
		bindings []Binding
		wantErr  error
	}{
		{"empty keys", []Binding{NewBinding("", "line")}, ErrInvalidBinding},
		{"bad spec", []Binding{NewBinding("Hyper+x", "line")}, ErrInvalidBinding},
		{"unencodable", []Binding{NewBinding("Ctrl+Enter", "line")}, ErrInvalidBinding},
		{"unknown mode", []Binding{NewBinding("F1", "visual")}, ErrInvalidBinding},
		{"printable", []Binding{NewBinding("q", "quit")}, ErrInvalidBinding},
		{"enter", []Binding{NewBinding("Enter", "quit")}, ErrInvalidBinding},
		{"duplicate", []Binding{NewBinding("Ctrl+]", "line"), NewBinding("<C-]>", "quit")}, ErrDuplicateBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.bindings)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBindingsSorted(t *testing.T) {
	km := MustNew([]Binding{
		NewBinding("Ctrl+\\", "quit"),
		NewBinding("F12", "line"),
		NewBinding("Ctrl+]", "line"),
	})

	got := km.Bindings()
	if km.Len() != 3 || len(got) != 3 {
		t.Fatalf("Bindings() len = %d, want 3", len(got))
	}
	want := []string{"Ctrl+]", "F12", "Ctrl+\\"}
	for i, b := range got {
		if b.Keys != want[i] {
			t.Errorf("Bindings()[%d] = %q, want %q", i, b.Keys, want[i])
		}
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustNew should panic on invalid bindings")
		}
	}()
	MustNew([]Binding{NewBinding("", "line")})
}
