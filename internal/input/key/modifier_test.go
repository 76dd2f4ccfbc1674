package key

import (
	"testing"
)

func TestModifierHas(t *testing.T) {
	tests := []struct {
		mod    Modifier
		check  Modifier
		expect bool
	}{
		{ModNone, ModCtrl, false},
		{ModCtrl, ModCtrl, true},
		{ModCtrl | ModAlt, ModCtrl, true},
		{ModCtrl | ModAlt, ModAlt, true},
		{ModCtrl | ModAlt, ModShift, false},
	}

	for _, tt := range tests {
		if got := tt.mod.Has(tt.check); got != tt.expect {
			t.Errorf("Modifier(%d).Has(%d) = %v, want %v", tt.mod, tt.check, got, tt.expect)
		}
	}
}

func TestModifierWithWithout(t *testing.T) {
	mod := ModNone.With(ModCtrl).With(ModAlt)
	if !mod.HasCtrl() || !mod.HasAlt() {
		t.Errorf("With should set Ctrl and Alt, got %v", mod)
	}
	mod = mod.Without(ModCtrl)
	if mod.HasCtrl() || !mod.HasAlt() {
		t.Errorf("Without(ModCtrl) = %v, want Alt", mod)
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod  Modifier
		want string
	}{
		{ModNone, ""},
		{ModCtrl, "Ctrl"},
		{ModCtrl | ModAlt, "Ctrl+Alt"},
		{ModShift | ModCtrl, "Ctrl+Shift"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.want {
			t.Errorf("Modifier(%d).String() = %q, want %q", tt.mod, got, tt.want)
		}
	}
}

func TestModifierXtermRoundTrip(t *testing.T) {
	mods := []Modifier{ModNone, ModShift, ModAlt, ModCtrl, ModCtrl | ModShift, ModCtrl | ModAlt | ModShift}
	for _, m := range mods {
		if got := modifierFromXterm(m.xtermParam()); got != m {
			t.Errorf("modifierFromXterm(%d) = %v, want %v", m.xtermParam(), got, m)
		}
	}
	if got := ModCtrl.xtermParam(); got != 5 {
		t.Errorf("ModCtrl.xtermParam() = %d, want 5", got)
	}
}

func TestModifierFromName(t *testing.T) {
	tests := []struct {
		name string
		want Modifier
	}{
		{"ctrl", ModCtrl},
		{"Control", ModCtrl},
		{"alt", ModAlt},
		{"Meta", ModAlt},
		{"opt", ModAlt},
		{"SHIFT", ModShift},
		{"hyper", ModNone},
	}

	for _, tt := range tests {
		if got := ModifierFromName(tt.name); got != tt.want {
			t.Errorf("ModifierFromName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
