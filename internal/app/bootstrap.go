package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/sshlm/internal/config"
	"github.com/dshills/sshlm/internal/input"
	"github.com/dshills/sshlm/internal/integration/session"
	"github.com/dshills/sshlm/internal/integration/terminal"
	"github.com/dshills/sshlm/internal/logging"
	"github.com/dshills/sshlm/internal/mux"
	"github.com/dshills/sshlm/internal/renderer/screen"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		initOrder: make([]string, 0, 5),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initConfig,
		b.initLogging,
		b.initTerminal,
		b.initSession,
		b.initMux,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initConfig loads and validates the configuration.
func (b *bootstrapper) initConfig() error {
	cfg := b.app.opts.Config
	if cfg == nil {
		cfg = config.New(config.WithPath(b.app.opts.ConfigPath))
		if err := cfg.Load(); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}

	for _, s := range b.app.opts.Settings {
		if err := cfg.Set(s.Path, s.Value); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	if err := cfg.Validate(); err != nil {
		return &InitError{Component: "config", Err: err}
	}

	b.app.config = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogging opens the log file. Nothing is ever logged to the terminal.
func (b *bootstrapper) initLogging() error {
	lc := b.app.config.Logging()
	w, err := logging.OpenFile(lc.File)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	b.app.logFile = w
	b.app.logger = logging.New(logging.Config{
		Level:  lc.Level,
		Output: w,
		Prefix: config.AppName,
	})
	b.initOrder = append(b.initOrder, "logging")

	if path := b.app.config.Path(); path != "" {
		b.app.logger.Debug("loaded config %s", path)
	}
	for _, path := range b.app.config.Unknown() {
		b.app.logger.Warn("ignoring unknown setting %s", path)
	}
	return nil
}

// initTerminal checks that the user is at a terminal.
func (b *bootstrapper) initTerminal() error {
	t, err := terminal.New(b.app.opts.Stdin, b.app.opts.Stdout)
	if err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	b.app.term = t
	b.initOrder = append(b.initOrder, "terminal")
	return nil
}

// initSession starts the remote session at the terminal's size.
func (b *bootstrapper) initSession() error {
	rows, cols, err := b.app.term.Size()
	if err != nil {
		b.app.logger.Warn("terminal size: %v", err)
		rows, cols = session.DefaultRows, session.DefaultCols
	}

	command := sessionCommand(b.app.config, b.app.opts.Destination, b.app.opts.Args)
	sess, err := session.Spawn(session.Options{
		Command:        command,
		Rows:           rows,
		Cols:           cols,
		TerminateGrace: b.app.config.Session().TerminateGrace,
	})
	if err != nil {
		return &InitError{Component: "session", Err: err}
	}

	b.app.session = sess
	b.app.logger = b.app.logger.WithField("session", sess.ID())
	b.app.logger.WithComponent("session").Info("spawned %q pid %d at %dx%d",
		strings.Join(command, " "), sess.PID(), cols, rows)
	b.initOrder = append(b.initOrder, "session")
	return nil
}

// initMux creates the multiplexer over the terminal and the session.
func (b *bootstrapper) initMux() error {
	cfg, err := muxConfig(b.app.config, b.app.opts.Password, b.app.session.Name())
	if err != nil {
		return &InitError{Component: "mux", Err: err}
	}

	keys := input.NewReader(b.app.term.Input())
	scr := screen.New(b.app.term.Output())
	b.app.mux = mux.New(cfg, b.app.session, keys, b.app.term, scr,
		mux.WithLogger(b.app.logger.WithComponent("mux")))
	b.initOrder = append(b.initOrder, "mux")
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	var errs ErrorList
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "session":
			if err := b.app.session.Terminate(); err != nil && !errors.Is(err, session.ErrSessionClosed) {
				errs.Add(fmt.Errorf("terminate session: %w", err))
			}
			b.app.session = nil
		case "logging":
			errs.Add(b.app.logFile.Close())
			b.app.logFile = nil
		}
	}
	if errs.HasErrors() && b.app.logger != nil {
		b.app.logger.Warn("cleanup: %v", errs.Error())
	}
	b.initOrder = b.initOrder[:0]
}
