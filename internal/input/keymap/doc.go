// Package keymap provides the hotkey table that switches input modes.
//
// Hotkeys are configured as key specifications mapped to mode names:
//
//	"Ctrl+]"  = "line"   toggles between passthrough and line editing
//	"Ctrl+\\" = "quit"   opens the quit prompt from either mode
//
// Each specification is encoded to the bytes a terminal sends for it, so
// lookups compare raw keystrokes and never depend on how a terminal names
// its keys.
//
// # Usage
//
//	km, err := keymap.New(keymap.DefaultBindings())
//	if err != nil {
//	    return err
//	}
//	if to, ok := km.Target(manager.Current(), ev.Raw); ok {
//	    manager.TransitionTo(to)
//	}
package keymap
