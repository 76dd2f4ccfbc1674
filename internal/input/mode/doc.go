// Package mode provides the input modes of a session and the Manager that
// switches between them.
//
// There are three modes:
//   - Passthrough: keystrokes go to the remote session unchanged
//   - LineBuffered: keystrokes build a local line that is sent on Enter
//   - QuitPrompt: the user is asked to confirm ending the session
//
// # Transitions
//
// Components attach behavior to transitions through hooks registered on
// the Manager before input starts flowing. When the mode changes from A to B:
//
//  1. leave hooks for A run
//  2. transition hooks for (A, B) run
//  3. enter hooks for B run
//  4. change callbacks run
//
// The Manager already reports B as current while the hooks run, and a
// transition to the current mode does nothing at all.
package mode
