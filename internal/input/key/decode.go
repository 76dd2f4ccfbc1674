package key

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Decoder splits terminal input bytes into keystrokes.
//
// Bytes are fed as they arrive. Next returns complete keystrokes; an
// incomplete escape sequence or UTF-8 character stays buffered until more
// bytes arrive or the caller flushes, which is how a lone Escape press is
// told apart from the start of a sequence.
type Decoder struct {
	buf []byte
}

// Feed appends input bytes.
func (d *Decoder) Feed(p []byte) {
	d.buf = append(d.buf, p...)
}

// Buffered returns the number of bytes not yet returned as events.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Next returns the next keystroke. If the buffer only holds the prefix of
// a keystroke, Next returns false unless flush is set, in which case the
// prefix is returned as it is.
func (d *Decoder) Next(flush bool) (Event, bool) {
	if len(d.buf) == 0 {
		return Event{}, false
	}

	var (
		ev Event
		n  int
	)
	if d.buf[0] == 0x1b {
		ev, n = decodeEscape(d.buf, flush)
	} else {
		ev, n = decodeChar(d.buf, flush)
	}
	if n == 0 {
		return Event{}, false
	}

	ev.Raw = string(d.buf[:n])
	ev.Timestamp = time.Now()
	d.buf = d.buf[n:]
	if len(d.buf) == 0 {
		d.buf = nil
	}
	return ev, true
}

// decodeChar decodes one UTF-8 character. It returns 0 when more bytes are needed.
func decodeChar(p []byte, flush bool) (Event, int) {
	if !utf8.FullRune(p) {
		if !flush {
			return Event{}, 0
		}
		return Event{Key: KeyRune, Rune: utf8.RuneError}, len(p)
	}

	r, size := utf8.DecodeRune(p)
	switch {
	case r == '\r' || r == '\n':
		return Event{Key: KeyEnter}, size
	case r == '\t':
		return Event{Key: KeyTab}, size
	case r == 0x7f || r == 0x08:
		return Event{Key: KeyBackspace}, size
	case r == 0x00:
		return Event{Key: KeyRune, Rune: '@', Modifiers: ModCtrl}, size
	case r >= 0x01 && r <= 0x1a:
		return Event{Key: KeyRune, Rune: 'a' + r - 1, Modifiers: ModCtrl}, size
	case r >= 0x1c && r <= 0x1f:
		return Event{Key: KeyRune, Rune: rune("\\]^_"[r-0x1c]), Modifiers: ModCtrl}, size
	}
	return Event{Key: KeyRune, Rune: r}, size
}

// decodeEscape decodes input starting with ESC.
func decodeEscape(p []byte, flush bool) (Event, int) {
	if len(p) == 1 {
		if !flush {
			return Event{}, 0
		}
		return Event{Key: KeyEscape}, 1
	}

	switch p[1] {
	case '[':
		return decodeCSI(p, flush)
	case 'O':
		if len(p) < 3 {
			if !flush {
				return Event{}, 0
			}
			return Event{Key: KeyRune, Rune: 'O', Modifiers: ModAlt, Sequence: true}, 2
		}
		ev := Event{Key: ss3Key(p[2]), Sequence: true}
		return ev, 3
	case 0x1b:
		// ESC ESC: the first one stands alone.
		return Event{Key: KeyEscape}, 1
	}

	// ESC followed by a character is an Alt chord.
	inner, n := decodeChar(p[1:], flush)
	if n == 0 {
		return Event{}, 0
	}
	inner.Modifiers = inner.Modifiers.With(ModAlt)
	inner.Sequence = true
	return inner, n + 1
}

// decodeCSI decodes "ESC [ params intermediates final".
// Parameter bytes are 0x30-0x3F, intermediates 0x20-0x2F, the final byte 0x40-0x7E.
func decodeCSI(p []byte, flush bool) (Event, int) {
	i := 2
	for i < len(p) && p[i] >= 0x30 && p[i] <= 0x3f {
		i++
	}
	params := string(p[2:i])
	for i < len(p) && p[i] >= 0x20 && p[i] <= 0x2f {
		i++
	}
	if i == len(p) {
		if !flush {
			return Event{}, 0
		}
		return Event{Key: KeyNone, Sequence: true}, i
	}
	final := p[i]
	if final < 0x40 || final > 0x7e {
		// Malformed; consume what was read so it is not replayed as text.
		return Event{Key: KeyNone, Sequence: true}, i
	}

	ev := Event{Sequence: true}
	fields := strings.Split(params, ";")
	if len(fields) > 1 {
		if m, err := strconv.Atoi(fields[1]); err == nil {
			ev.Modifiers = modifierFromXterm(m)
		}
	}

	switch final {
	case '~':
		n, _ := strconv.Atoi(fields[0])
		ev.Key = tildeKey(n)
	case 'Z':
		ev.Key = KeyTab
		ev.Modifiers = ev.Modifiers.With(ModShift)
	default:
		ev.Key = ss3Key(final)
	}
	return ev, i + 1
}

func ss3Key(b byte) Key {
	for k, f := range csiFinal {
		if f == b {
			return k
		}
	}
	return KeyNone
}

func tildeKey(n int) Key {
	switch n {
	case 1, 7:
		return KeyHome
	case 4, 8:
		return KeyEnd
	}
	for k, v := range csiTilde {
		if v == n {
			return k
		}
	}
	return KeyNone
}
