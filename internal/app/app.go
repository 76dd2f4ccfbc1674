// Package app wires the configuration, the log, the user's terminal and
// the remote session into a running multiplexer.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dshills/sshlm/internal/config"
	"github.com/dshills/sshlm/internal/integration/session"
	"github.com/dshills/sshlm/internal/integration/terminal"
	"github.com/dshills/sshlm/internal/logging"
	"github.com/dshills/sshlm/internal/mux"
)

// Setting is a configuration override given on the command line.
type Setting struct {
	Path  string
	Value any
}

// Options configures the application.
type Options struct {
	// ConfigPath is the config file to load. Empty means the default
	// location, where a missing file is not an error.
	ConfigPath string

	// Destination is the remote host, appended to the session command.
	Destination string

	// Args are extra arguments for the session command.
	Args []string

	// Password is typed once the session asks for one.
	Password string

	// Settings override the config file and the environment.
	Settings []Setting

	// Stdin and Stdout are the user's terminal. They default to the
	// process's standard streams.
	Stdin  *os.File
	Stdout *os.File

	// Config, when set, is used instead of loading one. Settings are
	// still applied on top.
	Config *config.Config
}

// Application owns every component of a single remote session.
type Application struct {
	opts Options

	config  *config.Config
	logger  *logging.Logger
	logFile io.Closer
	term    *terminal.Terminal
	session *session.PTY
	mux     *mux.Mux

	closeOnce sync.Once
	closeErr  error
}

// New creates an Application with the given options. The session is
// started, but nothing is relayed until Run.
func New(opts Options) (*Application, error) {
	if opts.Destination == "" {
		return nil, ErrNoDestination
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run relays between the terminal and the session until the session is
// over, then releases everything. It returns nil when the remote side
// exited or the user quit.
func (app *Application) Run(ctx context.Context) error {
	if app.mux == nil {
		return ErrNotInitialized
	}
	defer func() { _ = app.Close() }()

	app.logger.Info("relaying to %s", app.opts.Destination)
	runErr := app.mux.Run(ctx)

	select {
	case <-app.session.Done():
		app.logger.Info("session exited with code %d", app.session.ExitCode())
	default:
	}

	if runErr != nil {
		return NewOperationError("run", app.opts.Destination, runErr).WithContext(app.session.ID())
	}
	return nil
}

// Close terminates the session and closes the log. It is safe to call
// more than once.
func (app *Application) Close() error {
	app.closeOnce.Do(func() {
		var errs ErrorList
		if app.session != nil {
			if err := app.session.Terminate(); err != nil {
				app.logger.Warn("terminate session: %v", err)
				errs.Add(err)
			}
		}
		if app.logFile != nil {
			errs.Add(app.logFile.Close())
		}
		app.closeErr = errs.AsError()
	})
	return app.closeErr
}

// Config returns the loaded configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// muxConfig builds the multiplexer settings from the configuration.
func muxConfig(cfg *config.Config, password, name string) (mux.Config, error) {
	km, err := cfg.Keymap()
	if err != nil {
		return mux.Config{}, fmt.Errorf("hotkeys: %w", err)
	}

	line := cfg.LineMode()
	sess := cfg.Session()
	return mux.Config{
		Keymap:           km,
		Notifier:         line.Notifier,
		NotifierDuration: line.NotifierDuration,
		WarningDuration:  line.WarningDuration,
		QuitPrompt:       cfg.QuitPrompt().Message,
		ReadChunk:        sess.ReadChunk,
		InputTimeout:     sess.InputTimeout,
		ResizeInterval:   sess.ResizeInterval,
		Password:         password,
		Command:          name,
	}, nil
}

// sessionCommand returns the full command line for the session.
func sessionCommand(cfg *config.Config, destination string, args []string) []string {
	base := cfg.Session().Command
	cmd := make([]string, 0, len(base)+1+len(args))
	cmd = append(cmd, base...)
	cmd = append(cmd, destination)
	return append(cmd, args...)
}
