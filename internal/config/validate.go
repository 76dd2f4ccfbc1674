package config

import (
	"errors"

	"github.com/dshills/sshlm/internal/logging"
)

// Validate checks every setting and returns all problems joined. Each
// problem is a *ValidationError matching ErrValidationFailed.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string, value any, code ValidationErrorCode, err error) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: value, Code: code, Err: err})
	}

	if _, err := c.GetStringMap("hotkeys"); err != nil {
		add("hotkeys", "must be a table of key spec to mode name", nil, ErrCodeTypeMismatch, err)
	} else if _, err := c.Keymap(); err != nil {
		add("hotkeys", err.Error(), nil, ErrCodeInvalidHotkey, err)
	}

	if s, err := c.GetString("lineMode.notifier"); err != nil {
		add("lineMode.notifier", "must be a string", nil, ErrCodeTypeMismatch, err)
	} else if s == "" {
		add("lineMode.notifier", "must not be empty", s, ErrCodeRequiredMissing, nil)
	}

	if _, err := c.GetString("quitPrompt.message"); err != nil {
		add("quitPrompt.message", "must be a string", nil, ErrCodeTypeMismatch, err)
	}

	for _, path := range []string{
		"lineMode.notifierDuration",
		"lineMode.warningDuration",
		"session.inputTimeout",
		"session.resizeInterval",
		"session.terminateGrace",
	} {
		d, err := c.GetDuration(path)
		if err != nil {
			add(path, "must be a duration such as \"500ms\"", nil, ErrCodeTypeMismatch, err)
			continue
		}
		if d <= 0 {
			add(path, "must be positive", d, ErrCodeOutOfRange, nil)
		}
	}

	if n, err := c.GetInt("session.readChunk"); err != nil {
		add("session.readChunk", "must be an integer", nil, ErrCodeTypeMismatch, err)
	} else if n <= 0 {
		add("session.readChunk", "must be positive", n, ErrCodeOutOfRange, nil)
	}

	if cmd, err := c.GetStringSlice("session.command"); err != nil {
		add("session.command", "must be a list of strings", nil, ErrCodeTypeMismatch, err)
	} else if len(cmd) == 0 || cmd[0] == "" {
		add("session.command", "must name a program", cmd, ErrCodeRequiredMissing, nil)
	}

	if s, err := c.GetString("logging.level"); err != nil {
		add("logging.level", "must be a string", nil, ErrCodeTypeMismatch, err)
	} else if _, err := logging.ParseLevel(s); err != nil {
		add("logging.level", "must be debug, info, warn or error", s, ErrCodeInvalidEnum, err)
	}

	if _, err := c.GetString("logging.file"); err != nil {
		add("logging.file", "must be a string", nil, ErrCodeTypeMismatch, err)
	}

	return errors.Join(errs...)
}
