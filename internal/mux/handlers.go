package mux

import (
	"context"
	"fmt"

	"github.com/dshills/sshlm/internal/input/key"
	"github.com/dshills/sshlm/internal/renderer/screen"
)

// route dispatches one keystroke. While a notice is visible it waits for
// the notice to go away, so keystrokes typed meanwhile are delayed rather
// than dropped.
func (m *Mux) route(ctx context.Context, ev key.Event) error {
	if err := m.notifier.Gate().Wait(ctx); err != nil {
		return err
	}

	current := m.modes.Current()
	if target, ok := m.keymap.Target(current, ev.Raw); ok {
		m.modes.TransitionTo(target)
		return nil
	}

	if int(current) >= len(m.handlers) {
		panic(fmt.Sprintf("mux: no handler for mode %s", current))
	}
	return m.handlers[current](m, ev)
}

// handlePassthrough forwards the keystroke unchanged.
func (m *Mux) handlePassthrough(ev key.Event) error {
	return m.send(ev.Raw)
}

// handleLineBuffered edits the local line. Checks run in a fixed order:
// interrupt, Enter, delete, escape sequences, other control characters,
// undecodable bytes. Every other character is typed into the line, including
// spaces and joiners that are not graphic on their own.
func (m *Mux) handleLineBuffered(ev key.Event) error {
	switch {
	case ev.Raw == "\x03":
		m.cancelLineEdits()
		m.notify(noticeClearedLine, m.cfg.NotifierDuration)
		return nil

	case ev.IsEnter():
		text := m.line.Clear()
		if err := m.screen.EraseText(text); err != nil {
			m.logger.Warn("erase line: %v", err)
		}
		return m.send(text + "\r")

	case ev.IsDelete():
		last, ok := m.line.Trim()
		if !ok {
			return nil
		}
		return m.screen.Erase(screen.Width(last))

	case ev.Sequence:
		// Cursor movement and history are not supported in line mode.
		m.logger.Debug("line mode ignores %s", ev)
		return nil

	case ev.IsControl():
		if ev.Raw == "\x04" {
			m.notify(noticeCtrlD, m.cfg.WarningDuration)
		} else {
			m.notify(noticeControlChars, m.cfg.WarningDuration)
		}
		return nil

	case ev.IsInvalid():
		m.logger.Warn("line mode rejects undecodable input %q", ev.Raw)
		m.notify(noticeInvalidInput, m.cfg.WarningDuration)
		return nil

	default:
		m.line.Append(ev.Raw)
		return m.screen.WriteString(ev.Raw)
	}
}

// handleQuitPrompt waits for the answer to the quit prompt.
func (m *Mux) handleQuitPrompt(ev key.Event) error {
	switch {
	case ev.IsEnter(), ev.Raw == "y", ev.Raw == "Y":
		m.logger.Info("quit confirmed")
		m.End(nil)
	case ev.Raw == "n", ev.Raw == "N":
		m.modes.Return()
	}
	return nil
}

// send writes s to the session.
func (m *Mux) send(s string) error {
	if m.Over() {
		return ErrSessionOver
	}
	_, err := m.session.Write([]byte(s))
	return err
}
