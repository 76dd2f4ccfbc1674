package config

import (
	"sort"
	"time"

	"github.com/dshills/sshlm/internal/input/keymap"
	"github.com/dshills/sshlm/internal/logging"
)

// Section accessor methods return snapshot structs. A setting that is
// missing or has the wrong type reads as its default; Validate reports it.

// LineModeConfig holds the line editing settings.
type LineModeConfig struct {
	// Notifier is the word shown as "[word]" on entering line mode and
	// "[\word]" on leaving it.
	Notifier string

	// NotifierDuration is how long the enter and leave notices stay up.
	NotifierDuration time.Duration

	// WarningDuration is how long control character warnings stay up.
	WarningDuration time.Duration
}

// QuitPromptConfig holds the quit confirmation settings.
type QuitPromptConfig struct {
	// Message is written when the quit prompt opens.
	Message string
}

// SessionConfig holds the remote session settings.
type SessionConfig struct {
	// Command is the transport command; the destination is appended.
	Command []string

	// ReadChunk is the largest read from the session in one go.
	ReadChunk int

	// InputTimeout bounds each wait for a keystroke.
	InputTimeout time.Duration

	// ResizeInterval is how often window size changes are checked.
	ResizeInterval time.Duration

	// TerminateGrace is how long the session gets to exit after SIGHUP.
	TerminateGrace time.Duration
}

// LoggingConfig holds the log settings.
type LoggingConfig struct {
	// Level is the minimum level written.
	Level logging.Level

	// File is the log file, or logging.Off.
	File string
}

// LineMode returns the line editing settings.
func (c *Config) LineMode() LineModeConfig {
	return LineModeConfig{
		Notifier:         c.getStringOr("lineMode.notifier", "line"),
		NotifierDuration: c.getDurationOr("lineMode.notifierDuration", 500*time.Millisecond),
		WarningDuration:  c.getDurationOr("lineMode.warningDuration", 800*time.Millisecond),
	}
}

// QuitPrompt returns the quit confirmation settings.
func (c *Config) QuitPrompt() QuitPromptConfig {
	return QuitPromptConfig{
		Message: c.getStringOr("quitPrompt.message", "[quit? y/n]"),
	}
}

// Session returns the remote session settings.
func (c *Config) Session() SessionConfig {
	return SessionConfig{
		Command:        c.getStringSliceOr("session.command", []string{"ssh", "-t"}),
		ReadChunk:      c.getIntOr("session.readChunk", 1024),
		InputTimeout:   c.getDurationOr("session.inputTimeout", 250*time.Millisecond),
		ResizeInterval: c.getDurationOr("session.resizeInterval", time.Second),
		TerminateGrace: c.getDurationOr("session.terminateGrace", 500*time.Millisecond),
	}
}

// Logging returns the log settings. An empty file means DefaultLogFile.
func (c *Config) Logging() LoggingConfig {
	level, err := logging.ParseLevel(c.getStringOr("logging.level", "info"))
	if err != nil {
		level = logging.LevelInfo
	}
	file := c.getStringOr("logging.file", "")
	if file == "" {
		file = DefaultLogFile()
	}
	return LoggingConfig{Level: level, File: file}
}

// Bindings returns the configured hotkeys sorted by key spec.
func (c *Config) Bindings() []keymap.Binding {
	table, err := c.GetStringMap("hotkeys")
	if err != nil {
		return keymap.DefaultBindings()
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]keymap.Binding, 0, len(keys))
	for _, k := range keys {
		bindings = append(bindings, keymap.NewBinding(k, table[k]))
	}
	return bindings
}

// Keymap compiles the configured hotkeys.
func (c *Config) Keymap() (*keymap.Keymap, error) {
	return keymap.New(c.Bindings())
}

func (c *Config) getStringOr(path, def string) string {
	if s, err := c.GetString(path); err == nil {
		return s
	}
	return def
}

func (c *Config) getIntOr(path string, def int) int {
	if i, err := c.GetInt(path); err == nil {
		return i
	}
	return def
}

func (c *Config) getDurationOr(path string, def time.Duration) time.Duration {
	if d, err := c.GetDuration(path); err == nil {
		return d
	}
	return def
}

func (c *Config) getStringSliceOr(path string, def []string) []string {
	if s, err := c.GetStringSlice(path); err == nil {
		return s
	}
	return def
}
