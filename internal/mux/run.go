package mux

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/dshills/sshlm/internal/input/key"
)

// Run puts the terminal in raw mode and relays until the session is over.
// The terminal is restored before Run returns, on every path. A panic on
// any pump ends the session, and is raised again from Run once the
// terminal is restored.
//
// Run returns nil when the session ended normally (the remote side exited
// or the user confirmed quit) and the reason otherwise.
func (m *Mux) Run(ctx context.Context) (err error) {
	if !m.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	if err := m.term.MakeRaw(); err != nil {
		m.End(err)
		return fmt.Errorf("raw mode: %w", err)
	}
	defer func() {
		if rerr := m.restore(); rerr != nil && err == nil {
			err = fmt.Errorf("restore terminal: %w", rerr)
		}
		if m.panicVal != nil {
			panic(m.panicVal)
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	m.spawn(&wg, "cancel", func() {
		select {
		case <-ctx.Done():
			m.End(ctx.Err())
		case <-m.over:
			cancel()
		}
	})

	stopSignals := m.handleSignals()
	defer stopSignals()

	if m.cfg.Password != "" {
		if err := m.typePassword(ctx); err != nil {
			m.End(err)
		}
	}

	m.spawn(&wg, "output", m.pumpOutput)
	m.spawn(&wg, "input", func() { m.pumpInput(ctx) })
	m.spawn(&wg, "resize", m.watchResize)

	<-m.over
	cancel()
	wg.Wait()

	return m.Err()
}

// spawn runs fn on its own goroutine. A panic in fn ends the session and
// is kept for Run to raise again.
func (m *Mux) spawn(wg *sync.WaitGroup, name string, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic in %s: %v", name, r)
				m.recordPanic(r)
				m.End(fmt.Errorf("panic in %s: %v", name, r))
			}
		}()
		fn()
	}()
}

// typePassword waits for the session to stop echoing, as it does at a
// password prompt, and types the password.
func (m *Mux) typePassword(ctx context.Context) error {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-m.over:
			cancel()
		case <-waitCtx.Done():
		}
	}()

	if err := m.session.WaitNoEcho(waitCtx); err != nil {
		return fmt.Errorf("wait for password prompt: %w", err)
	}
	m.logger.Info("entering password")
	return m.send(m.cfg.Password + "\r")
}

// handleSignals turns SIGINT into a Ctrl-C keystroke and SIGWINCH into a
// pending resize. The returned function stops the handling.
func (m *Mux) handleSignals() func() {
	sigs := make(chan os.Signal, 4)
	signal.Notify(sigs, os.Interrupt, unix.SIGWINCH)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case sig := <-sigs:
				if sig == unix.SIGWINCH {
					m.NotifyResize()
				} else {
					m.keys.Inject(key.FromRaw("\x03"))
				}
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
