package mode

import (
	"sync"
)

// EnterHook is called after the manager entered a mode.
type EnterHook func(from Mode)

// LeaveHook is called after the manager left a mode.
type LeaveHook func(to Mode)

// TransitionHook is called for one specific (from, to) pair.
type TransitionHook func()

// ModeChangeCallback is called on every mode change, after all hooks.
type ModeChangeCallback func(from, to Mode)

// Manager tracks the current and previous mode and runs the hooks
// registered for each transition.
//
// Hooks must be registered before transitions start. They run outside of
// the manager's lock, so a hook may read Current and Previous.
type Manager struct {
	mu sync.RWMutex

	// current is the active mode.
	current Mode

	// previous is the mode before the current one.
	previous Mode

	enter      [numModes][]EnterHook
	leave      [numModes][]LeaveHook
	transition [numModes][numModes][]TransitionHook

	// callbacks are notified on mode changes.
	callbacks []ModeChangeCallback
}

// NewManager creates a manager whose current and previous mode are initial.
// No hooks run for the initial mode.
func NewManager(initial Mode) *Manager {
	mustValid(initial)
	return &Manager{
		current:  initial,
		previous: initial,
	}
}

// Current returns the current mode.
func (m *Manager) Current() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Previous returns the mode that was current before the last transition.
func (m *Manager) Previous() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.previous
}

// OnEnter registers a hook that runs whenever mode is entered.
func (m *Manager) OnEnter(mode Mode, hook EnterHook) {
	mustValid(mode)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enter[mode] = append(m.enter[mode], hook)
}

// OnLeave registers a hook that runs whenever mode is left.
func (m *Manager) OnLeave(mode Mode, hook LeaveHook) {
	mustValid(mode)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leave[mode] = append(m.leave[mode], hook)
}

// OnTransition registers a hook that runs when switching from one mode to another.
func (m *Manager) OnTransition(from, to Mode, hook TransitionHook) {
	mustValid(from)
	mustValid(to)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transition[from][to] = append(m.transition[from][to], hook)
}

// OnChange registers a callback for all mode changes.
func (m *Manager) OnChange(cb ModeChangeCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// TransitionTo switches to mode. It returns false, without running any
// hook or touching Previous, if mode is already current.
func (m *Manager) TransitionTo(mode Mode) bool {
	mustValid(mode)

	m.mu.Lock()
	if mode == m.current {
		m.mu.Unlock()
		return false
	}
	from := m.current
	m.previous = from
	m.current = mode

	leave := m.leave[from]
	transition := m.transition[from][mode]
	enter := m.enter[mode]
	callbacks := m.callbacks
	m.mu.Unlock()

	// Notify hooks outside of lock
	for _, hook := range leave {
		hook(mode)
	}
	for _, hook := range transition {
		hook()
	}
	for _, hook := range enter {
		hook(from)
	}
	for _, cb := range callbacks {
		if cb != nil {
			cb(from, mode)
		}
	}
	return true
}

// Return switches back to the previous mode.
func (m *Manager) Return() bool {
	return m.TransitionTo(m.Previous())
}
