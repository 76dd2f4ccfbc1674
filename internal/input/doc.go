// Package input reads keystrokes from the user's terminal.
//
// Subpackages hold the pieces the session multiplexer routes keystrokes with:
//
//   - key: keystroke types, key specification parsing and terminal encoding
//   - mode: the input modes and the Manager that switches between them
//   - keymap: the hotkey table that maps keystrokes to mode switches
//
// Reader polls the terminal with a bounded timeout so the input loop can
// observe shutdown between keystrokes, and buffers partial escape
// sequences until they complete or time out.
package input
