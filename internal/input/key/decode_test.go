package key

import (
	"testing"
)

func drain(d *Decoder, flush bool) []Event {
	var out []Event
	for {
		ev, ok := d.Next(flush)
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestDecoderSplitsInput(t *testing.T) {
	var d Decoder
	d.Feed([]byte("ab\x1b[A\x1dé\r"))

	got := drain(&d, false)
	want := []string{"a", "b", "\x1b[A", "\x1d", "é", "\r"}
	if len(got) != len(want) {
		t.Fatalf("decoded %d events, want %d: %#v", len(got), len(want), got)
	}
	for i, ev := range got {
		if ev.Raw != want[i] {
			t.Errorf("event %d raw = %q, want %q", i, ev.Raw, want[i])
		}
	}
	if got[2].Key != KeyUp || !got[2].Sequence {
		t.Errorf("event 2 = %#v, want Up sequence", got[2])
	}
	if d.Buffered() != 0 {
		t.Errorf("Buffered() = %d, want 0", d.Buffered())
	}
}

func TestDecoderIncompleteSequence(t *testing.T) {
	var d Decoder
	d.Feed([]byte("\x1b[1;5"))
	if ev, ok := d.Next(false); ok {
		t.Fatalf("Next() on partial CSI = %#v, want nothing", ev)
	}

	d.Feed([]byte("C"))
	ev, ok := d.Next(false)
	if !ok {
		t.Fatal("Next() after completing CSI returned nothing")
	}
	if ev.Key != KeyRight || ev.Modifiers != ModCtrl {
		t.Errorf("decoded %#v, want Ctrl+Right", ev)
	}
}

func TestDecoderLoneEscape(t *testing.T) {
	var d Decoder
	d.Feed([]byte{0x1b})
	if _, ok := d.Next(false); ok {
		t.Fatal("lone ESC should wait for more input")
	}
	ev, ok := d.Next(true)
	if !ok || ev.Key != KeyEscape || ev.Modifiers != ModNone || ev.Sequence {
		t.Errorf("flushed ESC = %#v, %v", ev, ok)
	}

	d.Feed([]byte("\x1b\x1b"))
	ev, ok = d.Next(false)
	if !ok || ev.Raw != "\x1b" {
		t.Errorf("ESC ESC first event = %#v, %v", ev, ok)
	}
}

func TestDecoderPartialUTF8(t *testing.T) {
	var d Decoder
	d.Feed([]byte{0xe4, 0xb8})
	if _, ok := d.Next(false); ok {
		t.Fatal("partial UTF-8 should wait for more input")
	}
	d.Feed([]byte{0x96})
	ev, ok := d.Next(false)
	if !ok || ev.Rune != '世' {
		t.Errorf("decoded %#v, want 世", ev)
	}
}

func TestDecoderControlKeys(t *testing.T) {
	tests := []struct {
		raw      string
		wantKey  Key
		wantRune rune
		wantMod  Modifier
	}{
		{"\x03", KeyRune, 'c', ModCtrl},
		{"\x00", KeyRune, '@', ModCtrl},
		{"\x1c", KeyRune, '\\', ModCtrl},
		{"\x1f", KeyRune, '_', ModCtrl},
		{"\t", KeyTab, 0, ModNone},
		{"\x08", KeyBackspace, 0, ModNone},
		{"\n", KeyEnter, 0, ModNone},
	}

	for _, tt := range tests {
		ev := FromRaw(tt.raw)
		if ev.Key != tt.wantKey || ev.Rune != tt.wantRune || ev.Modifiers != tt.wantMod {
			t.Errorf("FromRaw(%q) = %#v, want %v %q %v", tt.raw, ev, tt.wantKey, tt.wantRune, tt.wantMod)
		}
	}
}

func TestDecoderSequences(t *testing.T) {
	tests := []struct {
		raw     string
		wantKey Key
		wantMod Modifier
	}{
		{"\x1bOA", KeyUp, ModNone},
		{"\x1bOQ", KeyF2, ModNone},
		{"\x1b[H", KeyHome, ModNone},
		{"\x1b[1~", KeyHome, ModNone},
		{"\x1b[4~", KeyEnd, ModNone},
		{"\x1b[6;3~", KeyPageDown, ModAlt},
		{"\x1b[Z", KeyTab, ModShift},
		{"\x1b[M", KeyNone, ModNone},
	}

	for _, tt := range tests {
		ev := FromRaw(tt.raw)
		if !ev.Sequence {
			t.Errorf("FromRaw(%q) should be a sequence", tt.raw)
		}
		if ev.Key != tt.wantKey || ev.Modifiers != tt.wantMod {
			t.Errorf("FromRaw(%q) = %#v, want %v %v", tt.raw, ev, tt.wantKey, tt.wantMod)
		}
	}
}

func TestDecoderMalformedCSI(t *testing.T) {
	var d Decoder
	d.Feed([]byte("\x1b[1\x01x"))
	got := drain(&d, false)
	if len(got) != 3 {
		t.Fatalf("decoded %d events, want 3: %#v", len(got), got)
	}
	if got[0].Raw != "\x1b[1" || !got[0].Sequence {
		t.Errorf("malformed CSI = %#v", got[0])
	}
	if got[1].Raw != "\x01" || got[2].Raw != "x" {
		t.Errorf("trailing events = %#v %#v", got[1], got[2])
	}
}
