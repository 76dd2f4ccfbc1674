// Package config loads and validates sshlm settings.
//
// Settings come from four layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. SSHLM_* Environment     │
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/sshlm/config.toml (or .yaml)
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Tables merge key by key, except the hotkeys table, which the highest
// layer that sets it replaces whole.
//
// # Basic Usage
//
//	cfg := config.New(config.WithPath(path))
//	if err := cfg.Load(); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	km, _ := cfg.Keymap()
//	session := cfg.Session()
//
// # Example File
//
//	[hotkeys]
//	"Ctrl+]" = "line"
//	"Ctrl+\\" = "quit"
//
//	[lineMode]
//	notifier = "line"
//	notifierDuration = "500ms"
//
//	[session]
//	command = ["ssh", "-t"]
package config
