package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

var (
	// ErrProcessNotStarted is returned when a signal is sent before Start.
	ErrProcessNotStarted = errors.New("process not started")

	// ErrProcessAlreadyStarted is returned by a second call to Start.
	ErrProcessAlreadyStarted = errors.New("process already started")
)

// State is where a Process is in its lifecycle.
type State int

const (
	StateCreated State = iota
	StateRunning
	StateExited
	// StateKilled means the child was ended by a signal rather than exiting.
	StateKilled
)

var stateNames = [...]string{
	StateCreated: "created",
	StateRunning: "running",
	StateExited:  "exited",
	StateKilled:  "killed",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("unknown(%d)", s)
}

// StartFunc starts cmd. It lets the caller attach the command to a
// pseudo-terminal before it runs.
type StartFunc func(cmd *exec.Cmd) error

// Process follows one child from start to exit. It is safe for
// concurrent use.
type Process struct {
	name string
	cmd  *exec.Cmd

	mu       sync.Mutex
	state    State
	exitCode int
	done     chan struct{}
}

// NewProcess wraps cmd, which must not have been started. name is used
// in error messages.
func NewProcess(name string, cmd *exec.Cmd) *Process {
	return &Process{
		name:     name,
		cmd:      cmd,
		exitCode: -1,
		done:     make(chan struct{}),
	}
}

// State returns the current state.
func (p *Process) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// ExitCode returns the child's exit status, or -1 while it runs or when
// it was ended by a signal.
func (p *Process) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode
}

// Done is closed once the child has been reaped.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

func (p *Process) IsRunning() bool {
	return p.State() == StateRunning
}

func (p *Process) HasExited() bool {
	s := p.State()
	return s == StateExited || s == StateKilled
}

// PID returns the child's process ID, or -1 before Start.
func (p *Process) PID() int {
	if p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

// Start runs start (exec.Cmd.Start when nil) and reaps the child in the
// background.
func (p *Process) Start(start StartFunc) error {
	p.mu.Lock()
	if p.state != StateCreated {
		p.mu.Unlock()
		return ErrProcessAlreadyStarted
	}
	p.state = StateRunning
	p.mu.Unlock()

	if start == nil {
		start = (*exec.Cmd).Start
	}
	if err := start(p.cmd); err != nil {
		p.mu.Lock()
		p.state = StateCreated
		p.mu.Unlock()
		return fmt.Errorf("start %s: %w", p.name, err)
	}

	go p.reap()
	return nil
}

func (p *Process) reap() {
	err := p.cmd.Wait()

	state, code := StateExited, 0
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		code = exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			state = StateKilled
		}
	default:
		code = -1
	}

	p.mu.Lock()
	p.state, p.exitCode = state, code
	p.mu.Unlock()
	close(p.done)
}

// Signal delivers sig to a running child.
func (p *Process) Signal(sig os.Signal) error {
	switch s := p.State(); s {
	case StateRunning:
	case StateCreated:
		return fmt.Errorf("signal %s: %w", p.name, ErrProcessNotStarted)
	default:
		return fmt.Errorf("signal %s: process %s", p.name, s)
	}
	if p.cmd.Process == nil {
		return fmt.Errorf("signal %s: %w", p.name, ErrProcessNotStarted)
	}
	return p.cmd.Process.Signal(sig)
}

// Stop sends sig, gives the child grace to exit, then kills it. It
// returns once the child has been reaped.
func (p *Process) Stop(sig os.Signal, grace time.Duration) error {
	if p.State() == StateCreated {
		return ErrProcessNotStarted
	}

	if err := p.Signal(sig); err != nil && !p.HasExited() {
		return err
	}

	timer := time.NewTimer(grace)
	defer timer.Stop()
	select {
	case <-p.done:
		return nil
	case <-timer.C:
	}

	if err := p.Signal(syscall.SIGKILL); err != nil && !p.HasExited() {
		return err
	}
	<-p.done
	return nil
}
