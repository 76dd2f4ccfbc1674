package mux

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/sshlm/internal/input/key"
	"github.com/dshills/sshlm/internal/input/keymap"
	"github.com/dshills/sshlm/internal/input/mode"
	"github.com/dshills/sshlm/internal/integration/session"
	"github.com/dshills/sshlm/internal/logging"
	"github.com/dshills/sshlm/internal/renderer/overlay"
	"github.com/dshills/sshlm/internal/renderer/screen"
)

// Notices shown in line mode.
const (
	noticeClearedLine  = "[cleared line]"
	noticeCtrlD        = "[exit line-mode to send CTRL-D]"
	noticeControlChars = "[line-mode ignores control chars]"
	noticeInvalidInput = "[line-mode ignores invalid input]"
)

// Config holds the multiplexer settings.
type Config struct {
	// Keymap holds the mode switching hotkeys.
	Keymap *keymap.Keymap

	// Notifier is shown as "[Notifier]" when line mode starts and as
	// "[\Notifier]" when it ends.
	Notifier string

	// NotifierDuration is how long ordinary notices stay up.
	NotifierDuration time.Duration

	// WarningDuration is how long control character warnings stay up.
	WarningDuration time.Duration

	// QuitPrompt is written when the quit prompt opens.
	QuitPrompt string

	// ReadChunk is the largest session read.
	ReadChunk int

	// InputTimeout bounds each wait for a keystroke.
	InputTimeout time.Duration

	// ResizeInterval is how often a pending resize is propagated.
	ResizeInterval time.Duration

	// Password, when set, is typed once the session turns echo off.
	Password string

	// Command names the transport in the session death notice.
	Command string
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Keymap:           keymap.MustNew(keymap.DefaultBindings()),
		Notifier:         "line",
		NotifierDuration: 500 * time.Millisecond,
		WarningDuration:  800 * time.Millisecond,
		QuitPrompt:       "[quit? y/n]",
		ReadChunk:        1024,
		InputTimeout:     250 * time.Millisecond,
		ResizeInterval:   time.Second,
		Command:          "ssh",
	}
}

// handler consumes a keystroke that is not a hotkey.
type handler func(m *Mux, ev key.Event) error

// Mux relays keystrokes and output between the user's terminal and a
// session, overlaying line mode and the quit prompt.
type Mux struct {
	cfg Config

	session  session.Session
	keys     KeyReader
	term     Terminal
	screen   *screen.Screen
	notifier *overlay.Notifier
	modes    *mode.Manager
	keymap   *keymap.Keymap
	logger   *logging.Logger

	// line is only touched by the input pump.
	line     LineBuffer
	handlers []handler

	resized atomic.Bool
	running atomic.Bool

	over     chan struct{}
	overOnce sync.Once
	reason   error

	panicOnce sync.Once
	panicVal  any

	restoreOnce sync.Once
	restoreErr  error
}

// Option configures a Mux.
type Option func(*Mux)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Mux) {
		m.logger = l
	}
}

// New creates a Mux relaying between term and sess. Output is drawn on scr.
func New(cfg Config, sess session.Session, keys KeyReader, term Terminal, scr *screen.Screen, opts ...Option) *Mux {
	def := DefaultConfig()
	if cfg.Keymap == nil {
		cfg.Keymap = def.Keymap
	}
	if cfg.ReadChunk <= 0 {
		cfg.ReadChunk = def.ReadChunk
	}
	if cfg.InputTimeout <= 0 {
		cfg.InputTimeout = def.InputTimeout
	}
	if cfg.ResizeInterval <= 0 {
		cfg.ResizeInterval = def.ResizeInterval
	}

	m := &Mux{
		cfg:     cfg,
		session: sess,
		keys:    keys,
		term:    term,
		screen:  scr,
		modes:   mode.NewManager(mode.Passthrough),
		keymap:  cfg.Keymap,
		logger:  logging.Nop(),
		over:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.notifier = overlay.NewNotifier(scr, overlay.WithErrorHandler(func(err error) {
		m.logger.Warn("erase notice: %v", err)
	}))
	m.handlers = handlerTable()
	m.registerHooks()
	return m
}

// handlerTable returns the keystroke handler of every mode, indexed by mode.
func handlerTable() []handler {
	table := map[mode.Mode]handler{
		mode.Passthrough:  (*Mux).handlePassthrough,
		mode.LineBuffered: (*Mux).handleLineBuffered,
		mode.QuitPrompt:   (*Mux).handleQuitPrompt,
	}

	all := mode.All()
	handlers := make([]handler, len(all))
	for _, md := range all {
		h, ok := table[md]
		if !ok {
			panic(fmt.Sprintf("mux: no handler for mode %s", md))
		}
		handlers[md] = h
	}
	return handlers
}

// registerHooks installs the screen effects of mode changes.
func (m *Mux) registerHooks() {
	m.modes.OnTransition(mode.Passthrough, mode.LineBuffered, func() {
		m.notify("["+m.cfg.Notifier+"]", m.cfg.NotifierDuration)
	})
	m.modes.OnTransition(mode.LineBuffered, mode.Passthrough, func() {
		m.cancelLineEdits()
		m.notify("[\\"+m.cfg.Notifier+"]", m.cfg.NotifierDuration)
	})

	m.modes.OnEnter(mode.QuitPrompt, func(mode.Mode) {
		if err := m.screen.WriteString(m.cfg.QuitPrompt); err != nil {
			m.logger.Warn("write quit prompt: %v", err)
		}
	})
	m.modes.OnLeave(mode.QuitPrompt, func(mode.Mode) {
		if err := m.screen.EraseText(m.cfg.QuitPrompt); err != nil {
			m.logger.Warn("erase quit prompt: %v", err)
		}
	})

	m.modes.OnChange(func(from, to mode.Mode) {
		m.logger.Debug("mode %s -> %s", from, to)
	})
}

// Mode returns the current mode.
func (m *Mux) Mode() mode.Mode {
	return m.modes.Current()
}

// Done returns a channel closed once the session is over.
func (m *Mux) Done() <-chan struct{} {
	return m.over
}

// Over reports whether the session has ended.
func (m *Mux) Over() bool {
	select {
	case <-m.over:
		return true
	default:
		return false
	}
}

// End ends the session. Only the first call has an effect; reason is
// reported by Err and nil means a normal end.
func (m *Mux) End(reason error) {
	m.overOnce.Do(func() {
		m.reason = reason
		close(m.over)
		if reason != nil {
			m.logger.Info("session ending: %v", reason)
		} else {
			m.logger.Info("session ending")
		}
		if err := m.session.Terminate(); err != nil {
			m.logger.Warn("terminate session: %v", err)
		}
	})
}

// Err returns why the session ended, or nil for a normal end.
func (m *Mux) Err() error {
	select {
	case <-m.over:
		return m.reason
	default:
		return nil
	}
}

// NotifyResize records that the terminal size changed. The change is
// pushed to the session on the next resize check.
func (m *Mux) NotifyResize() {
	m.resized.Store(true)
}

// notify shows a transient notice, logging screen errors.
func (m *Mux) notify(msg string, d time.Duration) {
	m.logger.Debug("notice %q for %v", msg, d)
	if err := m.notifier.Display(msg, d); err != nil {
		m.logger.Warn("display notice: %v", err)
	}
}

// cancelLineEdits erases the pending line from the screen and drops it.
func (m *Mux) cancelLineEdits() {
	text := m.line.Clear()
	if err := m.screen.EraseText(text); err != nil {
		m.logger.Warn("erase line: %v", err)
	}
}

// restore puts the terminal back exactly once.
func (m *Mux) restore() error {
	m.restoreOnce.Do(func() {
		m.restoreErr = m.term.Restore()
		if m.restoreErr != nil {
			m.logger.Error("restore terminal: %v", m.restoreErr)
		}
	})
	return m.restoreErr
}

// recordPanic keeps the first panic raised by a pump.
func (m *Mux) recordPanic(v any) {
	m.panicOnce.Do(func() {
		m.panicVal = v
	})
}
