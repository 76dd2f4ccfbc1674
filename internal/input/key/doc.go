// Package key provides keystroke types, key specification parsing and the
// byte-level terminal encoding of keys.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: Identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: Represents modifier keys a terminal can report (Ctrl, Alt, Shift)
//   - Event: A single keystroke, with the raw bytes it arrived as
//   - Decoder: Splits a terminal input stream into Events
//
// # Key Specifications
//
// Key specifications can be written in multiple formats:
//
//   - Simple keys: "a", "A", "~", "Enter", "Escape"
//   - With modifiers: "Ctrl+]", "Alt+F4", "Ctrl+Shift+Up"
//   - Vim-style: "<C-]>", "<A-f>", "<CR>", "<Esc>"
//
// Encode turns a parsed specification into the bytes an xterm-compatible
// terminal sends for it, so hotkeys can be matched against raw input.
package key
