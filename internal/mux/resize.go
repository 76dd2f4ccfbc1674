package mux

import (
	"time"
)

// watchResize pushes pending size changes to the session every interval
// while the session is alive.
func (m *Mux) watchResize() {
	ticker := time.NewTicker(m.cfg.ResizeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.over:
			return
		case <-ticker.C:
			if !m.session.IsAlive() {
				return
			}
			m.propagateResize()
		}
	}
}

// propagateResize sends the terminal size to the session if it changed
// since the last check.
func (m *Mux) propagateResize() {
	if !m.resized.Swap(false) {
		return
	}

	rows, cols, err := m.term.Size()
	if err != nil {
		m.logger.Warn("terminal size: %v", err)
		return
	}
	if err := m.session.SetWindowSize(rows, cols); err != nil {
		m.logger.Warn("resize session: %v", err)
		return
	}
	m.logger.Debug("resized session to %dx%d", cols, rows)
}
