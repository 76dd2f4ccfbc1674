package mux

import (
	"unicode/utf8"

	"github.com/dshills/sshlm/internal/renderer/screen"
)

// LineBuffer holds the line being edited in line mode. Edits only happen
// at the tail.
type LineBuffer struct {
	text []byte
}

// Append adds s to the end of the line.
func (b *LineBuffer) Append(s string) {
	b.text = append(b.text, s...)
}

// Trim removes the last character and returns it. It returns false if the
// line is empty.
func (b *LineBuffer) Trim() (string, bool) {
	if len(b.text) == 0 {
		return "", false
	}
	_, size := utf8.DecodeLastRune(b.text)
	last := string(b.text[len(b.text)-size:])
	b.text = b.text[:len(b.text)-size]
	return last, true
}

// Clear empties the line and returns what it held.
func (b *LineBuffer) Clear() string {
	s := string(b.text)
	b.text = b.text[:0]
	return s
}

// String returns the line.
func (b *LineBuffer) String() string {
	return string(b.text)
}

// Len returns the number of characters in the line.
func (b *LineBuffer) Len() int {
	return utf8.RuneCount(b.text)
}

// Width returns the number of terminal columns the line occupies.
func (b *LineBuffer) Width() int {
	return screen.Width(string(b.text))
}
