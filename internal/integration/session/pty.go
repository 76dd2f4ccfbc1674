package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/dshills/sshlm/internal/integration/process"
)

// Defaults for Options.
const (
	DefaultRows           = 24
	DefaultCols           = 80
	DefaultTerminateGrace = 500 * time.Millisecond
	DefaultEchoPoll       = 50 * time.Millisecond
)

// Options configures a new PTY session.
type Options struct {
	// Name is a human-readable name, used in notices.
	// Defaults to the base name of the executable.
	Name string

	// Command is the executable and its arguments.
	Command []string

	// Env are additional environment variables.
	Env []string

	// Rows and Cols are the initial window size.
	Rows int
	Cols int

	// TerminateGrace is how long Terminate waits after SIGHUP before SIGKILL.
	TerminateGrace time.Duration

	// EchoPoll is how often WaitNoEcho checks the terminal mode.
	EchoPoll time.Duration
}

// PTY is a Session running on a pseudo-terminal.
type PTY struct {
	id   string
	name string

	proc *process.Process
	tty  *os.File

	grace    time.Duration
	echoPoll time.Duration

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ Session = (*PTY)(nil)

// Spawn starts opts.Command on a new pseudo-terminal.
func Spawn(opts Options) (*PTY, error) {
	if len(opts.Command) == 0 || opts.Command[0] == "" {
		return nil, ErrEmptyCommand
	}
	path, err := exec.LookPath(opts.Command[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCommandNotFound, opts.Command[0])
	}

	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.TerminateGrace <= 0 {
		opts.TerminateGrace = DefaultTerminateGrace
	}
	if opts.EchoPoll <= 0 {
		opts.EchoPoll = DefaultEchoPoll
	}
	if opts.Name == "" {
		opts.Name = opts.Command[0]
		if i := strings.LastIndexByte(opts.Name, '/'); i >= 0 {
			opts.Name = opts.Name[i+1:]
		}
	}

	cmd := exec.Command(path, opts.Command[1:]...)
	cmd.Env = append(os.Environ(), opts.Env...)

	s := &PTY{
		id:       uuid.New().String(),
		name:     opts.Name,
		proc:     process.NewProcess(opts.Name, cmd),
		grace:    opts.TerminateGrace,
		echoPoll: opts.EchoPoll,
	}

	ws := &pty.Winsize{Rows: uint16(opts.Rows), Cols: uint16(opts.Cols)}
	err = s.proc.Start(func(cmd *exec.Cmd) error {
		f, err := pty.StartWithSize(cmd, ws)
		if err != nil {
			return err
		}
		s.tty = f
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", opts.Name, err)
	}

	return s, nil
}

// ID returns the unique session identifier.
func (s *PTY) ID() string {
	return s.id
}

// Name returns the session name.
func (s *PTY) Name() string {
	return s.name
}

// PID returns the child process ID.
func (s *PTY) PID() int {
	return s.proc.PID()
}

// Done returns a channel that is closed when the child exits.
func (s *PTY) Done() <-chan struct{} {
	return s.proc.Done()
}

// ExitCode returns the child's exit code, or -1 while it runs.
func (s *PTY) ExitCode() int {
	return s.proc.ExitCode()
}

// Read reads output from the pseudo-terminal. Linux reports a hung-up
// terminal as EIO; that and a closed session are both end of stream.
func (s *PTY) Read(p []byte) (int, error) {
	n, err := s.tty.Read(p)
	if err != nil {
		if errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) || s.closed.Load() {
			return n, io.EOF
		}
		return n, err
	}
	return n, nil
}

// Write sends input to the child.
func (s *PTY) Write(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, ErrSessionClosed
	}
	return s.tty.Write(p)
}

// IsAlive reports whether the child process is still running.
func (s *PTY) IsAlive() bool {
	return !s.closed.Load() && s.proc.IsRunning()
}

// SetWindowSize changes the pseudo-terminal size, which delivers
// SIGWINCH to the child.
func (s *PTY) SetWindowSize(rows, cols int) error {
	if rows <= 0 || cols <= 0 || rows > 0xffff || cols > 0xffff {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}
	if s.closed.Load() {
		return ErrSessionClosed
	}
	return pty.Setsize(s.tty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// WaitNoEcho polls the pseudo-terminal until echo is off.
func (s *PTY) WaitNoEcho(ctx context.Context) error {
	ticker := time.NewTicker(s.echoPoll)
	defer ticker.Stop()

	for {
		if !s.IsAlive() {
			return ErrSessionClosed
		}
		echo, err := echoEnabled(s.tty)
		if err != nil {
			return fmt.Errorf("read terminal mode: %w", err)
		}
		if !echo {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Terminate hangs up the child, kills it if it outlives the grace
// period, and closes the pseudo-terminal.
func (s *PTY) Terminate() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		var errs []error
		if err := s.proc.Stop(syscall.SIGHUP, s.grace); err != nil && !errors.Is(err, process.ErrProcessNotStarted) {
			errs = append(errs, fmt.Errorf("stop %s: %w", s.name, err))
		}
		if err := s.tty.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pty: %w", err))
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
