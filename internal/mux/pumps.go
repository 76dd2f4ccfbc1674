package mux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/dshills/sshlm/internal/integration/session"
)

// outputValidator passes UTF-8 through unchanged and fails with
// encoding.ErrInvalidUTF8 on anything else. A character cut short by the
// end of output is dropped, since the child exited while writing it.
type outputValidator struct{ transform.NopResetter }

func (outputValidator) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	n := min(len(src), len(dst))
	for i := 0; i < n; {
		if src[i] < utf8.RuneSelf {
			i++
			continue
		}
		if _, size := utf8.DecodeRune(src[i:n]); size > 1 {
			i += size
			continue
		}

		err = encoding.ErrInvalidUTF8
		if !utf8.FullRune(src[i:n]) {
			switch {
			case n < len(src):
				err = transform.ErrShortDst
			case atEOF:
				return copy(dst, src[:i]), len(src), nil
			default:
				err = transform.ErrShortSrc
			}
		}
		return copy(dst, src[:i]), i, err
	}
	if n < len(src) {
		err = transform.ErrShortDst
	}
	return copy(dst, src[:n]), n, err
}

// pumpOutput copies session output to the screen until the session ends.
// Output must be UTF-8; anything else ends the session.
func (m *Mux) pumpOutput() {
	r := transform.NewReader(m.session, outputValidator{})
	buf := make([]byte, m.cfg.ReadChunk)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := m.screen.Write(buf[:n]); werr != nil {
				m.logger.Error("write output: %v", werr)
				m.End(fmt.Errorf("write output: %w", werr))
				return
			}
		}
		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, encoding.ErrInvalidUTF8):
			m.logger.Error("decode session output: %v", err)
			if !m.Over() {
				m.showNotice("session output is not valid UTF-8, closing")
			}
			m.End(ErrInvalidOutput)
		case errors.Is(err, io.EOF), errors.Is(err, session.ErrSessionClosed):
			if !m.Over() {
				m.logger.Info("session died")
				m.showNotice(m.cfg.Command + " session died")
			}
			m.End(nil)
		default:
			m.logger.Error("read session: %v", err)
			m.End(fmt.Errorf("read session: %w", err))
		}
		return
	}
}

// showNotice writes a message about the session on its own line.
func (m *Mux) showNotice(msg string) {
	if err := m.screen.Notice("[sshlm]: " + msg); err != nil {
		m.logger.Warn("write notice: %v", err)
	}
}

// pumpInput routes keystrokes until the session ends.
func (m *Mux) pumpInput(ctx context.Context) {
	for !m.Over() {
		ev, ok, err := m.keys.Next(m.cfg.InputTimeout)
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.logger.Info("terminal input closed")
				m.End(nil)
			} else {
				m.logger.Error("read keystroke: %v", err)
				m.End(fmt.Errorf("read keystroke: %w", err))
			}
			return
		}
		if !ok {
			continue
		}

		if err := m.route(ctx, ev); err != nil {
			if m.Over() || errors.Is(err, context.Canceled) {
				return
			}
			if errors.Is(err, session.ErrSessionClosed) {
				m.End(nil)
				return
			}
			m.logger.Warn("handle %s: %v", ev, err)
		}
	}
}
